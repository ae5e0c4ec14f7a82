package user

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (*models.User, error)
	UpsertOAuthUser(ctx context.Context, p services.OAuthProfile) (*models.User, error)
	User(ctx context.Context, id string) (*models.User, error)
	ChangePassword(ctx context.Context, userID string, in services.ChangePasswordInput) error
	IssueToken(user *models.User) (string, error)
	TokenTTL() time.Duration
}

// SessionManager est implémenté par middleware.Auth
type SessionManager interface {
	Login(c *gin.Context, user *models.User) error
	Logout(c *gin.Context) error
	GuestID(c *gin.Context) string
}

type GuestCartMerger interface {
	MergeGuest(ctx context.Context, guestID, userID string) (*models.Cart, error)
}

type AuthHandler struct {
	auth         AuthService
	sessions     SessionManager
	carts        GuestCartMerger
	frontendURL  string
	oauthEnabled bool
}

func NewAuthHandler(auth AuthService, sessions SessionManager, carts GuestCartMerger, frontendURL string, oauthEnabled bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, carts: carts, frontendURL: frontendURL, oauthEnabled: oauthEnabled}
}

// signIn ouvre la session, fusionne le panier visiteur et renvoie le JWT
func (h *AuthHandler) signIn(c *gin.Context, user *models.User) (string, bool) {
	guestID := h.sessions.GuestID(c)

	if err := h.sessions.Login(c, user); err != nil {
		log.Printf("❌ Erreur ouverture session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ouverture session"})
		return "", false
	}
	if guestID != "" {
		if _, err := h.carts.MergeGuest(c.Request.Context(), guestID, user.ID.Hex()); err != nil {
			log.Printf("⚠️ Erreur fusion panier invité: %v", err)
		}
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		handlers.RespondError(c, err)
		return "", false
	}
	return token, true
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, ok := h.signIn(c, user)
	if !ok {
		return
	}
	c.JSON(status, gin.H{
		"token":     token,
		"expiresIn": int(h.auth.TokenTTL().Seconds()),
		"user":      user,
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	user, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input services.LoginInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	user, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	log.Printf("🔑 Connexion: %s", user.Email)
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.User(c.Request.Context(), handlers.UserID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// withProvider place le provider de l'URL là où gothic le cherche
func withProvider(c *gin.Context) bool {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return false
	}
	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()
	return true
}

func (h *AuthHandler) BeginOAuth(c *gin.Context) {
	if !h.oauthEnabled {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Connexion OAuth non configurée"})
		return
	}
	if !withProvider(c) {
		return
	}
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// OAuthCallback redirige vers le front avec le JWT en paramètre
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	if !h.oauthEnabled {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Connexion OAuth non configurée"})
		return
	}
	if !withProvider(c) {
		return
	}

	gu, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Erreur OAuth %s: %v", c.Param("provider"), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authentification OAuth échouée"})
		return
	}

	user, err := h.auth.UpsertOAuthUser(c.Request.Context(), services.OAuthProfile{
		Provider:   gu.Provider,
		ProviderID: gu.UserID,
		Email:      gu.Email,
		Name:       gu.Name,
		Image:      gu.AvatarURL,
	})
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	token, ok := h.signIn(c, user)
	if !ok {
		return
	}
	log.Printf("✅ Connexion %s: %s", gu.Provider, user.Email)
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/auth/callback?token="+url.QueryEscape(token))
}
