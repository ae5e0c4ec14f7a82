package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/services"
)

type ProfileService interface {
	Get(ctx context.Context, userID string) (*services.Profile, error)
	Update(ctx context.Context, userID string, in services.ProfileInput) (*services.Profile, error)
}

type ProfileHandler struct {
	profiles ProfileService
}

func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), handlers.UserID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile : téléphone, date de naissance et adresse de livraison par défaut
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var input services.ProfileInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	profile, err := h.profiles.Update(c.Request.Context(), handlers.UserID(c), input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
