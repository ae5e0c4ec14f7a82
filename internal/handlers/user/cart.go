package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

type CartService interface {
	Current(ctx context.Context, owner services.Owner) (*models.Cart, bool, error)
	Add(ctx context.Context, owner services.Owner, in services.ItemInput) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, owner services.Owner, in services.ItemInput) (*models.Cart, error)
	Remove(ctx context.Context, owner services.Owner, productID, color, size string) (*models.Cart, error)
	Clear(ctx context.Context, owner services.Owner) (*models.Cart, error)
	Merge(ctx context.Context, owner services.Owner, items []services.ItemInput) (*models.Cart, error)
	ApplyCoupon(ctx context.Context, owner services.Owner, code string) (*models.Cart, error)
	RemoveCoupon(ctx context.Context, owner services.Owner) (*models.Cart, error)
}

type CartHandler struct {
	carts CartService
}

func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func respondCart(c *gin.Context, cart *models.Cart, err error) {
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// GetCart : adjusted signale qu'un article a été retiré ou réduit faute de stock
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, adjusted, err := h.carts.Current(c.Request.Context(), handlers.Owner(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "adjusted": adjusted})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var input services.ItemInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	cart, err := h.carts.Add(c.Request.Context(), handlers.Owner(c), input)
	respondCart(c, cart, err)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var input services.ItemInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	cart, err := h.carts.UpdateQuantity(c.Request.Context(), handlers.Owner(c), input)
	respondCart(c, cart, err)
}

// RemoveItem lit la variante dans la query : ?productId=...&color=...&size=...
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId requis"})
		return
	}
	cart, err := h.carts.Remove(c.Request.Context(), handlers.Owner(c), productID, c.Query("color"), c.Query("size"))
	respondCart(c, cart, err)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	cart, err := h.carts.Clear(c.Request.Context(), handlers.Owner(c))
	respondCart(c, cart, err)
}

// MergeCart fusionne le panier local du navigateur
func (h *CartHandler) MergeCart(c *gin.Context) {
	var input struct {
		Items []services.ItemInput `json:"items" binding:"dive"`
	}
	if !handlers.BindJSON(c, &input) {
		return
	}
	cart, err := h.carts.Merge(c.Request.Context(), handlers.Owner(c), input.Items)
	respondCart(c, cart, err)
}

func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if !handlers.BindJSON(c, &input) {
		return
	}
	cart, err := h.carts.ApplyCoupon(c.Request.Context(), handlers.Owner(c), input.Code)
	respondCart(c, cart, err)
}

func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	cart, err := h.carts.RemoveCoupon(c.Request.Context(), handlers.Owner(c))
	respondCart(c, cart, err)
}
