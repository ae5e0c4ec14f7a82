package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Wishlist struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID     string               `json:"userId" bson:"user_id"`
	ProductIDs []primitive.ObjectID `json:"productIds" bson:"product_ids"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updated_at"`
}

// WishlistView est la wishlist renvoyée au client, produits résolus
type WishlistView struct {
	UserID string    `json:"userId"`
	Items  []Product `json:"items"`
}
