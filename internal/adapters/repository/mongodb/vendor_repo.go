package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/developia-II/vendora-onboarding/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DraftsCollection       = "vendorDrafts"
	ApplicationsCollection = "vendorApplications"
)

var activeStatuses = []domain.ApplicationStatus{domain.ApplicationPending, domain.ApplicationApproved}

// VendorRepository implements domain.VendorRepository using MongoDB.
type VendorRepository struct {
	drafts       *mongo.Collection
	applications *mongo.Collection
}

func NewVendorRepository(db *mongo.Database) *VendorRepository {
	return &VendorRepository{
		drafts:       db.Collection(DraftsCollection),
		applications: db.Collection(ApplicationsCollection),
	}
}

// EnsureIndexes creates the indexes the repository relies on. Safe to
// call on every start.
func (r *VendorRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.drafts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userID", Value: 1}},
		Options: options.Index().SetName("idx_draft_userID").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create draft index: %w", err)
	}
	_, err = r.applications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userID", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_application_user_status"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_application_createdAt"),
		},
		{
			// At most one pending or approved application per user.
			// $in in a partial filter needs MongoDB 6.0+.
			Keys: bson.D{{Key: "userID", Value: 1}},
			Options: options.Index().
				SetName("uniq_application_active_user").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": activeStatuses}}),
		},
	})
	if err != nil {
		return fmt.Errorf("create application indexes: %w", err)
	}
	return nil
}

func (r *VendorRepository) GetDraft(ctx context.Context, userID string) (*domain.OnboardingDraft, error) {
	var draft domain.OnboardingDraft
	err := r.drafts.FindOne(ctx, bson.M{"userID": userID}).Decode(&draft)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// SaveDraft upserts by user and bumps the version. startedAt is only
// written on insert.
func (r *VendorRepository) SaveDraft(ctx context.Context, draft *domain.OnboardingDraft) error {
	now := time.Now()
	filter := bson.M{"userID": draft.UserID}
	update := bson.M{
		"$set": bson.M{
			"application": draft.Application,
			"state":       draft.State,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"userID":    draft.UserID,
			"startedAt": draft.StartedAt,
		},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved domain.OnboardingDraft
	if err := r.drafts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	draft.ID = saved.ID
	draft.Version = saved.Version
	draft.UpdatedAt = saved.UpdatedAt
	return nil
}

func (r *VendorRepository) FindActiveApplication(ctx context.Context, userID string) (*domain.SubmittedApplication, error) {
	filter := bson.M{
		"userID": userID,
		"status": bson.M{"$in": activeStatuses},
	}
	var app domain.SubmittedApplication
	err := r.applications.FindOne(ctx, filter).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *VendorRepository) CreateApplication(ctx context.Context, app *domain.SubmittedApplication) error {
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	if _, err := r.applications.InsertOne(ctx, app); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert application: %w: %w", domain.ErrActiveApplication, err)
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}
