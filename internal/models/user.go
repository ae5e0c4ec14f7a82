package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"-" bson:"password,omitempty"`
	Role       string             `json:"role" bson:"role"`
	Provider   string             `json:"provider" bson:"provider"`
	ProviderID string             `json:"-" bson:"provider_id,omitempty"`
	Image      string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
