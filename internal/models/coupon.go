package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CouponPercentage = "percentage"
	CouponFixed      = "fixed"
)

type Coupon struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code        string             `json:"code" bson:"code"`
	Type        string             `json:"type" bson:"type"` // "percentage", "fixed"
	Value       float64            `json:"value" bson:"value"`
	MinAmount   float64            `json:"minAmount" bson:"min_amount"`
	MaxDiscount float64            `json:"maxDiscount,omitempty" bson:"max_discount,omitempty"` // plafond pour les pourcentages
	MaxUses     int                `json:"maxUses" bson:"max_uses"`                            // 0 = illimité
	UsedCount   int                `json:"usedCount" bson:"used_count"`
	StartsAt    time.Time          `json:"startsAt" bson:"starts_at"`
	ExpiresAt   time.Time          `json:"expiresAt" bson:"expires_at"`
	IsActive    bool               `json:"isActive" bson:"is_active"`
	CreatedBy   string             `json:"createdBy" bson:"created_by"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}
