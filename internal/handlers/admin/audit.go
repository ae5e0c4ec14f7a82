package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
)

type AuditLogs interface {
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type AuditHandler struct {
	logs AuditLogs
}

func NewAuditHandler(logs AuditLogs) *AuditHandler {
	return &AuditHandler{logs: logs}
}

// GetAuditLogs : ?limit=100, 500 maximum
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := h.logs.Recent(c.Request.Context(), limit)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": len(logs)})
}
