package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponAdmin(t *testing.T) {
	svc := NewCouponService(newMemCoupons())
	ctx := context.Background()

	c, err := svc.Create(ctx, "admin-1", CouponInput{Code: " ete25 ", Type: "percentage", Value: 25})
	require.NoError(t, err)
	assert.Equal(t, "ETE25", c.Code)
	assert.True(t, c.IsActive)
	assert.Equal(t, "admin-1", c.CreatedBy)

	_, err = svc.Create(ctx, "admin-1", CouponInput{Code: "ETE25", Type: "fixed", Value: 5})
	assert.ErrorIs(t, err, ErrInvalidInput, "code en double")

	_, err = svc.Create(ctx, "admin-1", CouponInput{Code: "TROP", Type: "percentage", Value: 150})
	assert.ErrorIs(t, err, ErrInvalidInput)

	now := time.Now()
	_, err = svc.Create(ctx, "admin-1", CouponInput{Code: "DATES", Type: "fixed", Value: 5, StartsAt: now, ExpiresAt: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	inactive := false
	updated, err := svc.Update(ctx, c.ID.Hex(), CouponInput{Code: "ETE30", Type: "percentage", Value: 30, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "ETE30", updated.Code)
	assert.False(t, updated.IsActive)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, c.ID.Hex()))
	assert.ErrorIs(t, svc.Delete(ctx, c.ID.Hex()), ErrCouponNotFound)
}
