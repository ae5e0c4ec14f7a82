package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

type mongoCoupons struct {
	collection *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) CouponRepository {
	return &mongoCoupons{collection: db.Collection(database.CouponsCollection)}
}

func (r *mongoCoupons) Create(ctx context.Context, coupon *models.Coupon) error {
	now := time.Now()
	coupon.ID = primitive.NewObjectID()
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	coupon.CreatedAt = now
	coupon.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, coupon); err != nil {
		return fmt.Errorf("failed to create coupon: %w", mapError(err))
	}
	return nil
}

func (r *mongoCoupons) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *mongoCoupons) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	filter := bson.M{"code": strings.ToUpper(strings.TrimSpace(code))}
	if err := r.collection.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *mongoCoupons) List(ctx context.Context) ([]models.Coupon, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	coupons, _, err := findPage[models.Coupon](ctx, r.collection, bson.M{}, opts)
	return coupons, err
}

func (r *mongoCoupons) Update(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	coupon.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": coupon.ID}, coupon)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", mapError(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCoupons) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCoupons) IncrementUsage(ctx context.Context, code string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"code": strings.ToUpper(strings.TrimSpace(code))},
		bson.M{"$inc": bson.M{"used_count": 1}, "$set": bson.M{"updated_at": time.Now()}},
	)
	return err
}
