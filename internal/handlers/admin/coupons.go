package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

type Coupons interface {
	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, actorID string, in services.CouponInput) (*models.Coupon, error)
	Update(ctx context.Context, rawID string, in services.CouponInput) (*models.Coupon, error)
	Delete(ctx context.Context, rawID string) error
}

type CouponHandler struct {
	coupons Coupons
}

func NewCouponHandler(coupons Coupons) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.coupons.List(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons, "total": len(coupons)})
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var input services.CouponInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	coupon, err := h.coupons.Create(c.Request.Context(), handlers.UserID(c), input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var input services.CouponInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	coupon, err := h.coupons.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	if err := h.coupons.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon supprimé"})
}
