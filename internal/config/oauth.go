package config

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

// SetupOAuth enregistre les providers goth ; renvoie false si aucun n'est configuré
func SetupOAuth(cfg *Config, store sessions.Store) bool {
	gothic.Store = store

	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}
		return "", errors.New("provider not found")
	}

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Println("⚠️ Aucun provider OAuth configuré")
		return false
	}

	callback := cfg.BaseURL + "/api/auth/oauth/google/callback"
	goth.UseProviders(google.New(cfg.GoogleClientID, cfg.GoogleClientSecret, callback, "email", "profile"))
	log.Println("✅ Google OAuth activé")
	return true
}
