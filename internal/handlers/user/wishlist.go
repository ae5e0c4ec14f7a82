package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
)

type WishlistService interface {
	List(ctx context.Context, userID string) (*models.WishlistView, error)
	Add(ctx context.Context, userID, productID string) (*models.WishlistView, error)
	Remove(ctx context.Context, userID, productID string) (*models.WishlistView, error)
	Toggle(ctx context.Context, userID, productID string) (*models.WishlistView, bool, error)
}

type WishlistHandler struct {
	wishlists WishlistService
}

func NewWishlistHandler(wishlists WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

type wishlistInput struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	view, err := h.wishlists.List(c.Request.Context(), handlers.UserID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": view})
}

func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var input wishlistInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	view, err := h.wishlists.Add(c.Request.Context(), handlers.UserID(c), input.ProductID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": view})
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	view, err := h.wishlists.Remove(c.Request.Context(), handlers.UserID(c), c.Param("productId"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": view})
}

func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	var input wishlistInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	view, added, err := h.wishlists.Toggle(c.Request.Context(), handlers.UserID(c), input.ProductID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": view, "added": added})
}
