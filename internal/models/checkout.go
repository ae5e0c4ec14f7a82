package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CheckoutInitialized = "initialized"
	CheckoutCompleted   = "completed"
)

// Checkout fige le panier au moment du paiement ; le webhook le transforme en commande
type Checkout struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Reference   string             `json:"reference" bson:"reference"`
	UserID      string             `json:"userId" bson:"user_id"`
	Email       string             `json:"email" bson:"email"`
	Items       []OrderItem        `json:"items" bson:"items"`
	Address     Address            `json:"address" bson:"address"`
	Subtotal    float64            `json:"subtotal" bson:"subtotal"`
	Discount    float64            `json:"discount" bson:"discount"`
	Shipping    float64            `json:"shipping" bson:"shipping"`
	Total       float64            `json:"total" bson:"total"`
	Currency    string             `json:"currency" bson:"currency"`
	CouponCode  string             `json:"couponCode,omitempty" bson:"coupon_code,omitempty"`
	Provider    string             `json:"provider" bson:"provider"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	CompletedAt *time.Time         `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
}
