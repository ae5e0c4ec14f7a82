package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/services"
)

// ChangePassword : un compte OAuth peut définir son premier mot de passe sans l'ancien
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input services.ChangePasswordInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), handlers.UserID(c), input); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe modifié"})
}
