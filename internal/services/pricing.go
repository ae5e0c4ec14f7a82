package services

import (
	"fmt"
	"math"
	"time"

	"storefront_back_end/internal/models"
)

// ShippingRules : frais fixes, offerts à partir de FreeThreshold (0 = jamais offerts)
type ShippingRules struct {
	Fee           float64
	FreeThreshold float64
}

// Quote calcule les frais de port pour un montant après remises
func (r ShippingRules) Quote(amount float64) models.ShippingQuote {
	q := models.ShippingQuote{
		Fee:           models.RoundMoney(r.Fee),
		FreeThreshold: r.FreeThreshold,
		CartTotal:     models.RoundMoney(amount),
	}
	if amount <= 0 {
		q.Fee = 0
		q.Remaining = models.RoundMoney(r.FreeThreshold)
		return q
	}
	if r.FreeThreshold > 0 && amount >= r.FreeThreshold {
		q.Fee = 0
		q.IsFree = true
		return q
	}
	if r.FreeThreshold > 0 {
		q.Remaining = models.RoundMoney(r.FreeThreshold - amount)
	}
	return q
}

// CouponDiscount valide le coupon et retourne la remise applicable sur amount
func CouponDiscount(c *models.Coupon, amount float64, now time.Time) (float64, error) {
	switch {
	case c == nil:
		return 0, fmt.Errorf("%w: introuvable", ErrCouponInvalid)
	case !c.IsActive:
		return 0, fmt.Errorf("%w: inactif", ErrCouponInvalid)
	case !c.StartsAt.IsZero() && now.Before(c.StartsAt):
		return 0, fmt.Errorf("%w: pas encore valide", ErrCouponInvalid)
	case !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt):
		return 0, fmt.Errorf("%w: expiré", ErrCouponInvalid)
	case c.MaxUses > 0 && c.UsedCount >= c.MaxUses:
		return 0, fmt.Errorf("%w: épuisé", ErrCouponInvalid)
	case amount < c.MinAmount:
		return 0, fmt.Errorf("%w: montant minimum %.2f", ErrCouponInvalid, c.MinAmount)
	}

	var discount float64
	switch c.Type {
	case models.CouponPercentage:
		discount = amount * c.Value / 100
		if c.MaxDiscount > 0 {
			discount = math.Min(discount, c.MaxDiscount)
		}
	case models.CouponFixed:
		discount = c.Value
	default:
		return 0, fmt.Errorf("%w: type inconnu", ErrCouponInvalid)
	}
	return models.RoundMoney(math.Max(0, math.Min(discount, amount))), nil
}

// ComputeTotals recalcule les montants du panier à partir des lignes ; coupon peut être nil
func ComputeTotals(cart *models.Cart, coupon *models.Coupon, shipping ShippingRules, now time.Time) {
	var subtotal, net float64
	count := 0
	for _, item := range cart.Items {
		subtotal += item.OriginalPrice * float64(item.Quantity)
		net += item.Price * float64(item.Quantity)
		count += item.Quantity
	}
	subtotal = models.RoundMoney(subtotal)
	net = models.RoundMoney(net)

	cart.Subtotal = subtotal
	cart.ProductDiscount = models.RoundMoney(subtotal - net)
	cart.ItemCount = count
	cart.CouponDiscount = 0

	if coupon != nil {
		if d, err := CouponDiscount(coupon, net, now); err == nil {
			cart.CouponDiscount = d
		} else {
			cart.CouponCode = ""
		}
	} else {
		cart.CouponCode = ""
	}

	afterDiscounts := math.Max(0, net-cart.CouponDiscount)
	if len(cart.Items) == 0 {
		cart.Shipping = 0
	} else {
		cart.Shipping = shipping.Quote(afterDiscounts).Fee
	}
	cart.Total = models.RoundMoney(math.Max(0, afterDiscounts+cart.Shipping))
}
