package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address sert à la fois d'adresse de profil et d'adresse de livraison d'une commande
type Address struct {
	FullName   string `json:"fullName" bson:"full_name" binding:"required"`
	Phone      string `json:"phone" bson:"phone" binding:"required"`
	Street     string `json:"street" bson:"street" binding:"required"`
	City       string `json:"city" bson:"city" binding:"required"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postalCode" bson:"postal_code"`
	Country    string `json:"country" bson:"country" binding:"required"`
}

type UserInfo struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"user_id"`
	Phone     string             `json:"phone" bson:"phone"`
	BirthDate *time.Time         `json:"birthDate,omitempty" bson:"birth_date,omitempty"`
	Address   Address            `json:"address" bson:"address"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}
