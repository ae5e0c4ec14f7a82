package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

type mongoWishlists struct {
	collection *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) WishlistRepository {
	return &mongoWishlists{collection: db.Collection(database.WishlistsCollection)}
}

// Get renvoie une liste vide plutôt que ErrNotFound
func (r *mongoWishlists) Get(ctx context.Context, userID string) (*models.Wishlist, error) {
	var w models.Wishlist
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&w)
	if err == mongo.ErrNoDocuments {
		return &models.Wishlist{UserID: userID, ProductIDs: []primitive.ObjectID{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if w.ProductIDs == nil {
		w.ProductIDs = []primitive.ObjectID{}
	}
	return &w, nil
}

func (r *mongoWishlists) Add(ctx context.Context, userID string, productID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"product_ids": productID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

func (r *mongoWishlists) Remove(ctx context.Context, userID string, productID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"product_ids": productID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update); err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}
