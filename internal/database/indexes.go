package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Noms des collections
const (
	UsersCollection     = "users"
	UserInfosCollection = "user_infos"
	ProductsCollection  = "products"
	CartsCollection     = "carts"
	WishlistsCollection = "wishlists"
	OrdersCollection    = "orders"
	CheckoutsCollection = "checkouts"
	CouponsCollection   = "coupons"
	AuditCollection     = "audit_logs"
)

// checkoutTTL : un checkout non payé disparaît après 48h
const checkoutTTL = 48 * 60 * 60

func unique(keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
}

// EnsureIndexes crée les index nécessaires aux contraintes d'unicité et aux recherches
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection:     {unique(bson.D{{Key: "email", Value: 1}})},
		UserInfosCollection: {unique(bson.D{{Key: "user_id", Value: 1}})},
		ProductsCollection: {
			unique(bson.D{{Key: "slug", Value: 1}}),
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "final_price", Value: 1}}},
			{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}, {Key: "brand", Value: "text"}}},
		},
		CartsCollection:     {unique(bson.D{{Key: "user_id", Value: 1}})},
		WishlistsCollection: {unique(bson.D{{Key: "user_id", Value: 1}})},
		OrdersCollection: {
			unique(bson.D{{Key: "payment_reference", Value: 1}}),
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CheckoutsCollection: {
			unique(bson.D{{Key: "reference", Value: 1}}),
			{Keys: bson.D{{Key: "created_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(checkoutTTL)},
		},
		CouponsCollection: {unique(bson.D{{Key: "code", Value: 1}})},
		AuditCollection:   {{Keys: bson.D{{Key: "timestamp", Value: -1}}}},
	}

	var errs []error
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", coll, err))
		}
	}
	return errors.Join(errs...)
}
