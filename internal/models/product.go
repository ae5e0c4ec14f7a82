package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	Brand       string             `json:"brand" bson:"brand"`
	Images      []string           `json:"images" bson:"images"`
	Colors      []string           `json:"colors" bson:"colors"`
	Sizes       []string           `json:"sizes" bson:"sizes"`
	Price       float64            `json:"price" bson:"price"`
	Discount    float64            `json:"discount" bson:"discount"` // pourcentage 0-100
	FinalPrice  float64            `json:"finalPrice" bson:"final_price"`
	Stock       int                `json:"stock" bson:"stock"`
	Rating      float64            `json:"rating" bson:"rating"`
	NumReviews  int                `json:"numReviews" bson:"num_reviews"`
	IsFeatured  bool               `json:"isFeatured" bson:"is_featured"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// DiscountedPrice retourne le prix unitaire après remise produit
func (p Product) DiscountedPrice() float64 {
	if p.Discount <= 0 {
		return RoundMoney(p.Price)
	}
	return RoundMoney(p.Price * (1 - p.Discount/100))
}

// Normalize recalcule les champs dérivés avant écriture
func (p *Product) Normalize() {
	if p.Discount < 0 {
		p.Discount = 0
	}
	if p.Discount > 100 {
		p.Discount = 100
	}
	p.FinalPrice = p.DiscountedPrice()
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
}

func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
