package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

type mongoAudit struct {
	collection *mongo.Collection
}

func NewMongoAuditRepository(db *mongo.Database) AuditRepository {
	return &mongoAudit{collection: db.Collection(database.AuditCollection)}
}

func (r *mongoAudit) Insert(ctx context.Context, entry *models.AuditLog) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *mongoAudit) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit))
	logs, _, err := findPage[models.AuditLog](ctx, r.collection, bson.M{}, opts)
	return logs, err
}
