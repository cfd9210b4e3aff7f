package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/developia-II/vendora-onboarding/internal/adapters/repository/mongodb"
	"github.com/developia-II/vendora-onboarding/internal/adapters/storage"
	"github.com/developia-II/vendora-onboarding/internal/config"
	"github.com/developia-II/vendora-onboarding/internal/handlers"
	"github.com/developia-II/vendora-onboarding/internal/services/vendor"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	cfg.ConfigureLogging()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db := connectMongo(ctx, cfg)
	if client != nil {
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}()
	}

	var svc *vendor.Service
	if db != nil {
		if !cfg.CloudinaryConfigured() {
			logrus.Fatal("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
		}
		docs, err := storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, storage.DefaultFolder)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize document storage")
		}
		svc = vendor.NewService(mongodb.NewVendorRepository(db), docs,
			vendor.WithLimits(cfg.Limits()),
			vendor.WithIdleTimeout(cfg.SessionIdleTimeout),
		)
		go svc.Run(ctx, time.Minute)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	handlers.SetupRoutes(router, svc, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("HTTP shutdown did not complete")
	}
	if svc != nil {
		if err := svc.Flush(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Failed to save onboarding sessions")
		}
		svc.Close()
	}
	logrus.Info("Server stopped")
}

// connectMongo returns a nil database when Mongo is unreachable so the
// server can still answer health checks.
func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI).SetServerSelectionTimeout(20*time.Second))
	if err != nil {
		logrus.WithError(err).Error("Failed to create MongoDB client")
		return nil, nil
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		logrus.WithError(err).Error("Failed to connect to MongoDB")
		return client, nil
	}

	db := client.Database(cfg.MongoDB)
	if err := mongodb.NewVendorRepository(db).EnsureIndexes(connectCtx); err != nil {
		logrus.WithError(err).Warn("Failed to ensure indexes")
	}
	logrus.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")
	return client, db
}
