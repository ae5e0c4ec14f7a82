package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"
	"storefront_back_end/internal/utils"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// OAuthProfile est le profil renvoyé par le fournisseur OAuth
type OAuthProfile struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	Image      string
}

type AuthService struct {
	users     repository.UserRepository
	notifier  *Notifier
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users repository.UserRepository, notifier *Notifier, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, notifier: notifier, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Password: hash,
		Role:     models.RoleUser,
		Provider: models.ProviderCredentials,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	log.Printf("👤 Nouvel utilisateur inscrit: %s", user.Email)

	welcome := *user
	async("envoi email de bienvenue", func(ctx context.Context) error {
		return s.notifier.Welcome(ctx, &welcome)
	})
	return user, nil
}

// Login : email inconnu et mauvais mot de passe renvoient la même erreur
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	ok, err := utils.VerifyPassword(in.Password, user.Password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpsertOAuthUser retrouve le compte par fournisseur, puis par email, sinon le crée
func (s *AuthService) UpsertOAuthUser(ctx context.Context, p OAuthProfile) (*models.User, error) {
	if p.Email == "" {
		return nil, fmt.Errorf("%w: email non fourni par %s", ErrInvalidInput, p.Provider)
	}
	user, err := s.users.FindByProvider(ctx, p.Provider, p.ProviderID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user, err = s.users.FindByEmail(ctx, normalizeEmail(p.Email))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	name := p.Name
	if name == "" {
		name = strings.Split(p.Email, "@")[0]
	}
	user = &models.User{
		Name:       name,
		Email:      normalizeEmail(p.Email),
		Role:       models.RoleUser,
		Provider:   p.Provider,
		ProviderID: p.ProviderID,
		Image:      p.Image,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("👤 Nouvel utilisateur %s: %s", p.Provider, user.Email)
	return user, nil
}

func (s *AuthService) User(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// ChangePassword : un compte OAuth sans mot de passe peut en définir un
func (s *AuthService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Password != "" {
		ok, err := utils.VerifyPassword(in.CurrentPassword, user.Password)
		if err != nil || !ok {
			return ErrInvalidCredentials
		}
	}
	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	return utils.GenerateJWT(user, s.jwtSecret, s.tokenTTL)
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

type UserPage struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int64         `json:"page"`
	Limit int64         `json:"limit"`
}

func (s *AuthService) ListUsers(ctx context.Context, page, limit int64) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	users, total, err := s.users.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total, Page: page, Limit: limit}, nil
}

// UpdateRole : un admin ne peut pas se retirer lui-même ses droits
func (s *AuthService) UpdateRole(ctx context.Context, actorID, userID, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return fmt.Errorf("%w: rôle inconnu", ErrInvalidInput)
	}
	if actorID == userID && role != models.RoleAdmin {
		return ErrForbidden
	}
	return s.users.UpdateRole(ctx, userID, role)
}
