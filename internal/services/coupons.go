package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"
)


type CouponInput struct {
	Code        string    `json:"code" binding:"required,min=3,max=32"`
	Type        string    `json:"type" binding:"required,oneof=percentage fixed"`
	Value       float64   `json:"value" binding:"gt=0"`
	MinAmount   float64   `json:"minAmount" binding:"gte=0"`
	MaxDiscount float64   `json:"maxDiscount" binding:"gte=0"`
	MaxUses     int       `json:"maxUses" binding:"gte=0"`
	StartsAt    time.Time `json:"startsAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	IsActive    *bool     `json:"isActive"`
}

func (in CouponInput) validate() error {
	if in.Type == models.CouponPercentage && in.Value > 100 {
		return fmt.Errorf("%w: un pourcentage ne peut pas dépasser 100", ErrInvalidInput)
	}
	if !in.StartsAt.IsZero() && !in.ExpiresAt.IsZero() && !in.ExpiresAt.After(in.StartsAt) {
		return fmt.Errorf("%w: la date d'expiration doit suivre la date de début", ErrInvalidInput)
	}
	return nil
}

func (in CouponInput) apply(c *models.Coupon) {
	c.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	c.Type = in.Type
	c.Value = in.Value
	c.MinAmount = in.MinAmount
	c.MaxDiscount = in.MaxDiscount
	c.MaxUses = in.MaxUses
	c.StartsAt = in.StartsAt
	c.ExpiresAt = in.ExpiresAt
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

type CouponService struct {
	coupons repository.CouponRepository
}

func NewCouponService(coupons repository.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons}
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	return s.coupons.List(ctx)
}

func (s *CouponService) Create(ctx context.Context, actorID string, in CouponInput) (*models.Coupon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &models.Coupon{IsActive: true, CreatedBy: actorID}
	in.apply(c)
	if err := s.coupons.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: code déjà utilisé", ErrInvalidInput)
		}
		return nil, err
	}
	return c, nil
}

func (s *CouponService) find(ctx context.Context, rawID string) (*models.Coupon, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, ErrCouponNotFound
	}
	c, err := s.coupons.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCouponNotFound
	}
	return c, err
}

func (s *CouponService) Update(ctx context.Context, rawID string, in CouponInput) (*models.Coupon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}
	in.apply(c)
	if err := s.coupons.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: code déjà utilisé", ErrInvalidInput)
		}
		return nil, err
	}
	return c, nil
}

func (s *CouponService) Delete(ctx context.Context, rawID string) error {
	c, err := s.find(ctx, rawID)
	if err != nil {
		return err
	}
	return s.coupons.Delete(ctx, c.ID)
}
