package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
)

type OrderService interface {
	List(ctx context.Context, userID string) ([]models.Order, error)
	Get(ctx context.Context, userID, rawID string, isAdmin bool) (*models.Order, error)
	ByReference(ctx context.Context, userID, reference string) (*models.Order, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), handlers.UserID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GetOrder : la commande d'un autre client renvoie 404, sauf pour un admin
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), handlers.UserID(c), c.Param("id"), handlers.IsAdmin(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetOrderByReference sert la page de retour après paiement
func (h *OrderHandler) GetOrderByReference(c *gin.Context) {
	order, err := h.orders.ByReference(c.Request.Context(), handlers.UserID(c), c.Param("reference"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
