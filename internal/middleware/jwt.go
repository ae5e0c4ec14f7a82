package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

const SessionName = "storefront_session"

// Clés du contexte Gin
const (
	ContextUserID   = "user_id"
	ContextEmail    = "email"
	ContextRole     = "role"
	ContextGuestID  = "guest_id"
	ContextTokenID  = "token_id"
	ContextTokenExp = "token_exp"
)

// TokenBlacklist est implémenté par cache.Store
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, tokenID string) bool
}

// Auth accepte un Bearer JWT ou le cookie de session
type Auth struct {
	store     sessions.Store
	secret    string
	blacklist TokenBlacklist
}

func NewAuth(store sessions.Store, jwtSecret string, blacklist TokenBlacklist) *Auth {
	return &Auth{store: store, secret: jwtSecret, blacklist: blacklist}
}

func (a *Auth) session(c *gin.Context) *sessions.Session {
	// une session illisible (secret changé) est remplacée par une neuve
	session, err := a.store.Get(c.Request, SessionName)
	if err != nil {
		log.Printf("⚠️ Session invalide, nouvelle session: %v", err)
	}
	return session
}

// identify renseigne le contexte ; msg est vide si aucune identité n'a été fournie
func (a *Auth) identify(c *gin.Context) (ok bool, msg string) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return false, "Format Authorization invalide"
		}
		claims, err := utils.ParseJWT(strings.TrimSpace(parts[1]), a.secret)
		if err != nil {
			return false, "Token invalide"
		}
		if a.blacklist != nil && claims.ID != "" && a.blacklist.IsTokenBlacklisted(c.Request.Context(), claims.ID) {
			return false, "Token révoqué"
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExp, claims.ExpiresAt.Time)
		}
		return true, ""
	}

	session := a.session(c)
	userID, _ := session.Values[ContextUserID].(string)
	if userID == "" {
		return false, ""
	}
	email, _ := session.Values[ContextEmail].(string)
	role, _ := session.Values[ContextRole].(string)
	c.Set(ContextUserID, userID)
	c.Set(ContextEmail, email)
	c.Set(ContextRole, role)
	return true, ""
}

func (a *Auth) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, msg := a.identify(c)
		if !ok {
			if msg == "" {
				msg = "Non authentifié"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth identifie l'utilisateur s'il est connecté, sinon attribue un identifiant visiteur
func (a *Auth) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ok, _ := a.identify(c); ok {
			c.Next()
			return
		}

		session := a.session(c)
		guestID, _ := session.Values[ContextGuestID].(string)
		if guestID == "" {
			guestID = uuid.NewString()
			session.Values[ContextGuestID] = guestID
			if err := session.Save(c.Request, c.Writer); err != nil {
				log.Printf("❌ Erreur sauvegarde session visiteur: %v", err)
			}
		}
		c.Set(ContextGuestID, guestID)
		c.Next()
	}
}

// GuestID retourne l'identifiant visiteur stocké en session, s'il existe
func (a *Auth) GuestID(c *gin.Context) string {
	if id := c.GetString(ContextGuestID); id != "" {
		return id
	}
	guestID, _ := a.session(c).Values[ContextGuestID].(string)
	return guestID
}

// Login ouvre la session navigateur ; l'identifiant visiteur est retiré
func (a *Auth) Login(c *gin.Context, user *models.User) error {
	session := a.session(c)
	session.Values[ContextUserID] = user.ID.Hex()
	session.Values[ContextEmail] = user.Email
	session.Values[ContextRole] = user.Role
	delete(session.Values, ContextGuestID)
	return session.Save(c.Request, c.Writer)
}

// Logout révoque le JWT courant jusqu'à son expiration et vide la session
func (a *Auth) Logout(c *gin.Context) error {
	if tokenID := c.GetString(ContextTokenID); tokenID != "" && a.blacklist != nil {
		ttl := time.Hour
		if exp, ok := c.Get(ContextTokenExp); ok {
			ttl = time.Until(exp.(time.Time))
		}
		if err := a.blacklist.BlacklistToken(c.Request.Context(), tokenID, ttl); err != nil {
			return err
		}
		log.Printf("🔒 Token révoqué pour %s", c.GetString(ContextUserID))
	}

	session := a.session(c)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	return session.Save(c.Request, c.Writer)
}
