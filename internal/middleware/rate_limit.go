package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/cache"
)

const (
	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute

	APIMaxRequests = 100 // par minute et par IP
	APIWindow      = time.Minute
)

// LoginRateLimit bloque un email après LoginMaxAttempts échecs consécutifs
func LoginRateLimit(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body sans le consommer
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Next()
			return
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))

		ctx := c.Request.Context()
		key := cache.LoginAttemptsKey(email)
		cooldownKey := cache.LoginCooldownKey(email)

		if store.Exists(ctx, cooldownKey) {
			ttl := store.TTL(ctx, cooldownKey)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			attempts, err := store.IncrementRateLimit(ctx, key, LoginCooldown)
			if err != nil {
				log.Printf("⚠️ Erreur compteur de connexion: %v", err)
				return
			}
			if attempts >= LoginMaxAttempts {
				if err := store.SetFlag(ctx, cooldownKey, LoginCooldown); err != nil {
					log.Printf("⚠️ Erreur activation cooldown: %v", err)
				}
				store.Delete(ctx, key)
				log.Printf("🚫 Connexion bloquée %v pour %s", LoginCooldown, email)
			}
		case http.StatusOK:
			store.Delete(ctx, key, cooldownKey)
		}
	}
}

// APIRateLimit limite le nombre de requêtes par IP sur une fenêtre fixe
func APIRateLimit(store *cache.Store, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := store.IncrementRateLimit(c.Request.Context(), cache.APIRateKey(c.ClientIP()), window)
		if err != nil {
			// Redis indisponible : on laisse passer
			log.Printf("⚠️ Erreur rate limit: %v", err)
			c.Next()
			return
		}

		remaining := max - requests
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", max))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if requests > max {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Trop de requêtes. Réessayez plus tard",
				"retry_after": int(window.Seconds()),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
