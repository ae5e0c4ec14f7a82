package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/models"
)

var (
	ErrNotFound  = errors.New("document introuvable")
	ErrDuplicate = errors.New("document déjà existant")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	UpdateRole(ctx context.Context, id, role string) error
	List(ctx context.Context, skip, limit int64) ([]models.User, int64, error)
	Count(ctx context.Context) (int64, error)
}

type UserInfoRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.UserInfo, error)
	Upsert(ctx context.Context, info *models.UserInfo) error
}

type ProductRepository interface {
	Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Categories(ctx context.Context) ([]string, error)
	Related(ctx context.Context, product *models.Product, limit int64) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddImage(ctx context.Context, id primitive.ObjectID, url string) error
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	LowStock(ctx context.Context, threshold int, limit int64) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
}

// CartRepository est implémenté par MongoDB (utilisateurs) et Redis (invités)
type CartRepository interface {
	Get(ctx context.Context, owner string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, owner string) error
}

type WishlistRepository interface {
	Get(ctx context.Context, userID string) (*models.Wishlist, error)
	Add(ctx context.Context, userID string, productID primitive.ObjectID) error
	Remove(ctx context.Context, userID string, productID primitive.ObjectID) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	FindByUser(ctx context.Context, userID string) ([]models.Order, error)
	Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, int64, error)
	// UpdateStatus ne s'applique que si la commande est encore au statut from ; ErrNotFound sinon
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to string) error
	Stats(ctx context.Context, since time.Time) (*models.OrderStats, error)
}

type CheckoutRepository interface {
	Create(ctx context.Context, checkout *models.Checkout) error
	FindByReference(ctx context.Context, reference string) (*models.Checkout, error)
	MarkCompleted(ctx context.Context, reference string, at time.Time) error
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementUsage(ctx context.Context, code string) error
}

type AuditRepository interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// mapError traduit les erreurs du driver en sentinelles du dépôt
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
