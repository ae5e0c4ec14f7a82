package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/models"
)

// RequireAdmin vérifie que l'utilisateur a le rôle "admin" ; à placer après AuthRequired
func RequireAdmin(c *gin.Context) {
	if c.GetString(ContextRole) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
