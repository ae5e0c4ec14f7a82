package admin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

type Orders interface {
	AdminList(ctx context.Context, values url.Values) (*services.OrderPage, error)
	UpdateStatus(ctx context.Context, rawID, status string) (*models.Order, error)
}

type OrderHandler struct {
	orders Orders
}

func NewOrderHandler(orders Orders) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListOrders : filtres status, user, from, to (AAAA-MM-JJ), page, limit
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, err := h.orders.AdminList(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if !handlers.BindJSON(c, &input) {
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
