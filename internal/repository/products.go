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

type mongoProducts struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProducts{collection: db.Collection(database.ProductsCollection)}
}

func (r *mongoProducts) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, int64, error) {
	products, total, err := findPage[models.Product](ctx, r.collection, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find products: %w", err)
	}
	return products, total, nil
}

func (r *mongoProducts) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	var p models.Product
	if err := r.collection.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *mongoProducts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoProducts) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoProducts) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProducts) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *mongoProducts) Categories(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *mongoProducts) Related(ctx context.Context, product *models.Product, limit int64) ([]models.Product, error) {
	filter := bson.M{
		"_id":      bson.M{"$ne": product.ID},
		"category": product.Category,
	}
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}}).SetLimit(limit)
	products, _, err := findPage[models.Product](ctx, r.collection, filter, opts)
	return products, err
}

func (r *mongoProducts) Create(ctx context.Context, product *models.Product) error {
	now := time.Now()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.Normalize()

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", mapError(err))
	}
	return nil
}

func (r *mongoProducts) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	product.Normalize()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", mapError(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProducts) AddImage(ctx context.Context, id primitive.ObjectID, url string) error {
	res, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"images": url},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to add image: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock retire qty du stock sans jamais descendre sous zéro
func (r *mongoProducts) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "stock", Value: bson.D{{Key: "$max", Value: bson.A{0, bson.D{{Key: "$subtract", Value: bson.A{"$stock", qty}}}}}}},
			{Key: "updated_at", Value: time.Now()},
		}}},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProducts) LowStock(ctx context.Context, threshold int, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}).SetLimit(limit)
	products, _, err := findPage[models.Product](ctx, r.collection, bson.M{"stock": bson.M{"$lte": threshold}}, opts)
	return products, err
}

func (r *mongoProducts) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
