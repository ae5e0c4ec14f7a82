package models

import "time"

// AuditLog trace une action d'administration
type AuditLog struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"userId" bson:"user_id"`
	UserEmail  string    `json:"userEmail" bson:"user_email"`
	Action     string    `json:"action" bson:"action"`
	Resource   string    `json:"resource" bson:"resource"`
	ResourceID string    `json:"resourceId,omitempty" bson:"resource_id,omitempty"`
	IPAddress  string    `json:"ipAddress" bson:"ip_address"`
	UserAgent  string    `json:"userAgent" bson:"user_agent"`
	Status     int       `json:"status" bson:"status"`
	Success    bool      `json:"success" bson:"success"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// Ressources auditées
const (
	ResourceProduct = "product"
	ResourceOrder   = "order"
	ResourceUser    = "user"
	ResourceCoupon  = "coupon"
)
