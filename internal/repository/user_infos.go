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

type mongoUserInfos struct {
	collection *mongo.Collection
}

func NewUserInfoRepository(db *mongo.Database) UserInfoRepository {
	return &mongoUserInfos{collection: db.Collection(database.UserInfosCollection)}
}

func (r *mongoUserInfos) FindByUserID(ctx context.Context, userID string) (*models.UserInfo, error) {
	var info models.UserInfo
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&info); err != nil {
		return nil, mapError(err)
	}
	return &info, nil
}

func (r *mongoUserInfos) Upsert(ctx context.Context, info *models.UserInfo) error {
	now := time.Now()
	info.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"phone":      info.Phone,
			"birth_date": info.BirthDate,
			"address":    info.Address,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"user_id": info.UserID, "created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": info.UserID}, update, opts).Decode(info); err != nil {
		return fmt.Errorf("failed to upsert user info: %w", mapError(err))
	}
	return nil
}
