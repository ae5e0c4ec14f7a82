package admin

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/services"
)

type Users interface {
	ListUsers(ctx context.Context, page, limit int64) (*services.UserPage, error)
	UpdateRole(ctx context.Context, actorID, userID, role string) error
}

type UserHandler struct {
	users Users
}

func NewUserHandler(users Users) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	result, err := h.users.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateRole : la session de l'utilisateur garde l'ancien rôle jusqu'à sa prochaine connexion
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if !handlers.BindJSON(c, &input) {
		return
	}
	userID := c.Param("id")
	if err := h.users.UpdateRole(c.Request.Context(), handlers.UserID(c), userID, input.Role); err != nil {
		handlers.RespondError(c, err)
		return
	}
	log.Printf("👑 Rôle de %s changé en %s", userID, input.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Rôle mis à jour", "role": input.Role})
}
