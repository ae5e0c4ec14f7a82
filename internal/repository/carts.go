package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

// mongoCarts stocke les paniers des utilisateurs connectés, un document par user_id
type mongoCarts struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return &mongoCarts{collection: db.Collection(database.CartsCollection)}
}

func (r *mongoCarts) Get(ctx context.Context, owner string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.collection.FindOne(ctx, bson.M{"user_id": owner}).Decode(&cart); err != nil {
		return nil, mapError(err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

func (r *mongoCarts) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": cart.UserID}, cart, opts); err != nil {
		return fmt.Errorf("failed to save cart: %w", mapError(err))
	}
	return nil
}

func (r *mongoCarts) Delete(ctx context.Context, owner string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"user_id": owner}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
