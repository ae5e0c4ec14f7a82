package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

type mongoCheckouts struct {
	collection *mongo.Collection
}

func NewCheckoutRepository(db *mongo.Database) CheckoutRepository {
	return &mongoCheckouts{collection: db.Collection(database.CheckoutsCollection)}
}

func (r *mongoCheckouts) Create(ctx context.Context, checkout *models.Checkout) error {
	checkout.ID = primitive.NewObjectID()
	if checkout.CreatedAt.IsZero() {
		checkout.CreatedAt = time.Now()
	}
	if checkout.Status == "" {
		checkout.Status = models.CheckoutInitialized
	}
	if _, err := r.collection.InsertOne(ctx, checkout); err != nil {
		return fmt.Errorf("failed to create checkout: %w", mapError(err))
	}
	return nil
}

func (r *mongoCheckouts) FindByReference(ctx context.Context, reference string) (*models.Checkout, error) {
	var c models.Checkout
	if err := r.collection.FindOne(ctx, bson.M{"reference": reference}).Decode(&c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *mongoCheckouts) MarkCompleted(ctx context.Context, reference string, at time.Time) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"reference": reference},
		bson.M{"$set": bson.M{"status": models.CheckoutCompleted, "completed_at": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to complete checkout: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
