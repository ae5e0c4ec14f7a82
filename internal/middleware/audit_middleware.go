package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/models"
)

// AuditRecorder est implémenté par services.AuditService
type AuditRecorder interface {
	Record(entry models.AuditLog)
}

// AuditAdmin trace les écritures admin (POST, PUT, PATCH, DELETE), réussies ou non
func AuditAdmin(recorder AuditRecorder, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if recorder == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			return
		}

		status := c.Writer.Status()
		recorder.Record(models.AuditLog{
			UserID:     c.GetString(ContextUserID),
			UserEmail:  c.GetString(ContextEmail),
			Action:     fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()),
			Resource:   resource,
			ResourceID: c.Param("id"),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Status:     status,
			Success:    status >= 200 && status < 300,
		})
	}
}
