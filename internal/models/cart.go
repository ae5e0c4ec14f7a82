package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Cart struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          string             `json:"userId" bson:"user_id"`
	Items           []CartItem         `json:"items" bson:"items"`
	CouponCode      string             `json:"couponCode,omitempty" bson:"coupon_code,omitempty"`
	Subtotal        float64            `json:"subtotal" bson:"subtotal"`
	ProductDiscount float64            `json:"productDiscount" bson:"product_discount"`
	CouponDiscount  float64            `json:"couponDiscount" bson:"coupon_discount"`
	Shipping        float64            `json:"shipping" bson:"shipping"`
	Total           float64            `json:"total" bson:"total"`
	ItemCount       int                `json:"itemCount" bson:"item_count"`
	CreatedAt       time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updated_at"`
}

// CartItem est une ligne du panier ; une ligne = un produit dans une couleur et une taille
type CartItem struct {
	ProductID     primitive.ObjectID `json:"productId" bson:"product_id"`
	Name          string             `json:"name" bson:"name"`
	Slug          string             `json:"slug" bson:"slug"`
	Image         string             `json:"image" bson:"image"`
	Color         string             `json:"color,omitempty" bson:"color,omitempty"`
	Size          string             `json:"size,omitempty" bson:"size,omitempty"`
	Price         float64            `json:"price" bson:"price"`
	OriginalPrice float64            `json:"originalPrice" bson:"original_price"`
	Quantity      int                `json:"quantity" bson:"quantity"`
}

func NewCart(owner string) *Cart {
	return &Cart{UserID: owner, Items: []CartItem{}}
}

func (i CartItem) SameVariant(productID primitive.ObjectID, color, size string) bool {
	return i.ProductID == productID && strings.EqualFold(i.Color, color) && strings.EqualFold(i.Size, size)
}

func (i CartItem) LineTotal() float64 {
	return RoundMoney(i.Price * float64(i.Quantity))
}

// IndexOf retourne l'index de la ligne correspondant à la variante, -1 sinon
func (c *Cart) IndexOf(productID primitive.ObjectID, color, size string) int {
	for i := range c.Items {
		if c.Items[i].SameVariant(productID, color, size) {
			return i
		}
	}
	return -1
}

// QuantityOf cumule les quantités de toutes les variantes d'un produit
func (c *Cart) QuantityOf(productID primitive.ObjectID) int {
	total := 0
	for _, item := range c.Items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
