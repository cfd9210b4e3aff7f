package main

import (
	"context"
	"time"

	"github.com/developia-II/vendora-onboarding/internal/adapters/repository/mongodb"
	"github.com/developia-II/vendora-onboarding/internal/config"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run this script once to create the onboarding indexes ahead of a deploy.
// Usage: go run scripts/create_indexes.go
// The server also creates them on start.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	cfg.ConfigureLogging()

	// Atlas is slower than localhost
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logrus.Info("Connecting to MongoDB...")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI).SetServerSelectionTimeout(30*time.Second))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create client")
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to MongoDB, check the connection string and network access")
	}

	repo := mongodb.NewVendorRepository(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to create indexes")
	}
	logrus.WithFields(logrus.Fields{
		"database":    cfg.MongoDB,
		"collections": []string{mongodb.DraftsCollection, mongodb.ApplicationsCollection},
	}).Info("Indexes created")
}
