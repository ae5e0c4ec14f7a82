package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/payment"
	"storefront_back_end/internal/repository"
	"storefront_back_end/internal/services"
)

// StatusFor traduit une erreur de service en code HTTP
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrCouponInvalid),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrAmountMismatch),
		errors.Is(err, payment.ErrMalformedEvent):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, payment.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrItemNotInCart),
		errors.Is(err, services.ErrCheckoutNotFound),
		errors.Is(err, services.ErrCouponNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, payment.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// RespondError écrit {"error": ...} ; le détail des erreurs 500 reste dans les logs
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ Erreur %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Erreur serveur"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// BindJSON répond 400 si le corps est invalide
func BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return false
	}
	return true
}

func UserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(middleware.ContextRole) == models.RoleAdmin
}

// Owner : l'utilisateur connecté, sinon le visiteur de la session
func Owner(c *gin.Context) services.Owner {
	if id := UserID(c); id != "" {
		return services.Owner{ID: id}
	}
	return services.Owner{ID: c.GetString(middleware.ContextGuestID), Guest: true}
}
