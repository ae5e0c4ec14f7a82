package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/services"
)

type Dashboard interface {
	Stats(ctx context.Context, days int) (*services.DashboardStats, error)
}

type DashboardHandler struct {
	dashboard Dashboard
}

func NewDashboardHandler(dashboard Dashboard) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetStats : ?days=30 par défaut
func (h *DashboardHandler) GetStats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	stats, err := h.dashboard.Stats(c.Request.Context(), days)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
