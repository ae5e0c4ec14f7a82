package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderPending    = "pending"
	OrderPaid       = "paid"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// RevenueStatuses regroupe les statuts comptés dans le chiffre d'affaires
var RevenueStatuses = []string{OrderPaid, OrderProcessing, OrderShipped, OrderDelivered}

var orderTransitions = map[string][]string{
	OrderPending:    {OrderPaid, OrderCancelled},
	OrderPaid:       {OrderProcessing, OrderShipped, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

func IsOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderPaid, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"product_id"`
	Name      string             `json:"name" bson:"name"`
	Slug      string             `json:"slug" bson:"slug"`
	Image     string             `json:"image" bson:"image"`
	Color     string             `json:"color,omitempty" bson:"color,omitempty"`
	Size      string             `json:"size,omitempty" bson:"size,omitempty"`
	Price     float64            `json:"price" bson:"price"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

func (i OrderItem) LineTotal() float64 {
	return RoundMoney(i.Price * float64(i.Quantity))
}

type Order struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID           string             `json:"userId" bson:"user_id"`
	Email            string             `json:"email" bson:"email"`
	Items            []OrderItem        `json:"items" bson:"items"`
	ShippingAddress  Address            `json:"shippingAddress" bson:"shipping_address"`
	Subtotal         float64            `json:"subtotal" bson:"subtotal"`
	Discount         float64            `json:"discount" bson:"discount"`
	Shipping         float64            `json:"shipping" bson:"shipping"`
	Total            float64            `json:"total" bson:"total"`
	Currency         string             `json:"currency" bson:"currency"`
	CouponCode       string             `json:"couponCode,omitempty" bson:"coupon_code,omitempty"`
	PaymentProvider  string             `json:"paymentProvider" bson:"payment_provider"`
	PaymentReference string             `json:"paymentReference" bson:"payment_reference"`
	Status           string             `json:"status" bson:"status"`
	PaidAt           *time.Time         `json:"paidAt,omitempty" bson:"paid_at,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updated_at"`
}

type DailySales struct {
	Date    string  `json:"date" bson:"_id"`
	Revenue float64 `json:"revenue" bson:"revenue"`
	Orders  int64   `json:"orders" bson:"orders"`
}

type OrderStats struct {
	TotalRevenue   float64          `json:"totalRevenue"`
	TotalOrders    int64            `json:"totalOrders"`
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	DailySales     []DailySales     `json:"dailySales"`
}
