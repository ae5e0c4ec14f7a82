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

type mongoOrders struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrders{collection: db.Collection(database.OrdersCollection)}
}

func (r *mongoOrders) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", mapError(err))
	}
	return nil
}

func (r *mongoOrders) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var o models.Order
	if err := r.collection.FindOne(ctx, filter).Decode(&o); err != nil {
		return nil, mapError(err)
	}
	return &o, nil
}

func (r *mongoOrders) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoOrders) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"payment_reference": reference})
}

func (r *mongoOrders) FindByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	orders, _, err := findPage[models.Order](ctx, r.collection, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrders) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, int64, error) {
	return findPage[models.Order](ctx, r.collection, filter, opts)
}

func (r *mongoOrders) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats agrège le chiffre d'affaires, la répartition par statut et les ventes journalières depuis since
func (r *mongoOrders) Stats(ctx context.Context, since time.Time) (*models.OrderStats, error) {
	stats := &models.OrderStats{OrdersByStatus: map[string]int64{}, DailySales: []models.DailySales{}}

	byStatus, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	var groups []struct {
		Status  string  `bson:"_id"`
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := byStatus.All(ctx, &groups); err != nil {
		return nil, err
	}

	revenue := map[string]bool{}
	for _, s := range models.RevenueStatuses {
		revenue[s] = true
	}
	for _, g := range groups {
		stats.OrdersByStatus[g.Status] = g.Count
		stats.TotalOrders += g.Count
		if revenue[g.Status] {
			stats.TotalRevenue += g.Revenue
		}
	}
	stats.TotalRevenue = models.RoundMoney(stats.TotalRevenue)

	daily, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "status", Value: bson.D{{Key: "$in", Value: models.RevenueStatuses}}},
			{Key: "paid_at", Value: bson.D{{Key: "$gte", Value: since}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$paid_at"},
			}}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
			{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily sales: %w", err)
	}
	if err := daily.All(ctx, &stats.DailySales); err != nil {
		return nil, err
	}
	for i := range stats.DailySales {
		stats.DailySales[i].Revenue = models.RoundMoney(stats.DailySales[i].Revenue)
	}
	return stats, nil
}
