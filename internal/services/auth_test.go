package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

func newAuthService(users *memUsers) *AuthService {
	return NewAuthService(users, nil, "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	users := newMemUsers()
	svc := newAuthService(users)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: " Awa ", Email: "Awa@Example.com ", Password: "motdepasse1"})
	require.NoError(t, err)
	assert.Equal(t, "awa@example.com", user.Email)
	assert.Equal(t, "Awa", user.Name)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, utils.IsArgon2Hash(user.Password))

	_, err = svc.Register(ctx, RegisterInput{Name: "Autre", Email: "awa@example.com", Password: "motdepasse2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	logged, err := svc.Login(ctx, LoginInput{Email: "AWA@example.com", Password: "motdepasse1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "awa@example.com", Password: "mauvais"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{Email: "inconnu@example.com", Password: "motdepasse1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueToken(t *testing.T) {
	svc := newAuthService(newMemUsers())
	user := &models.User{Email: "admin@example.com", Role: models.RoleAdmin}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	claims, err := utils.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, time.Hour, svc.TokenTTL())
}

func TestUpsertOAuthUser(t *testing.T) {
	existing := &models.User{Name: "Ibrahima", Email: "ibra@example.com", Provider: models.ProviderCredentials}
	users := newMemUsers(existing)
	svc := newAuthService(users)
	ctx := context.Background()

	linked, err := svc.UpsertOAuthUser(ctx, OAuthProfile{Provider: models.ProviderGoogle, ProviderID: "g-1", Email: "IBRA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.ID, "rattaché au compte existant par email")

	created, err := svc.UpsertOAuthUser(ctx, OAuthProfile{Provider: models.ProviderGoogle, ProviderID: "g-2", Email: "fatou@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "fatou", created.Name)
	assert.Empty(t, created.Password)

	again, err := svc.UpsertOAuthUser(ctx, OAuthProfile{Provider: models.ProviderGoogle, ProviderID: "g-2", Email: "fatou@example.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	_, err = svc.UpsertOAuthUser(ctx, OAuthProfile{Provider: models.ProviderGoogle, ProviderID: "g-3"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChangePassword(t *testing.T) {
	hash, err := utils.HashPassword("ancien-mdp")
	require.NoError(t, err)
	user := &models.User{Email: "awa@example.com", Password: hash}
	oauth := &models.User{Email: "oauth@example.com", Provider: models.ProviderGoogle}
	users := newMemUsers(user, oauth)
	svc := newAuthService(users)
	ctx := context.Background()

	err = svc.ChangePassword(ctx, user.ID.Hex(), ChangePasswordInput{CurrentPassword: "faux", NewPassword: "nouveau-mdp"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user.ID.Hex(), ChangePasswordInput{CurrentPassword: "ancien-mdp", NewPassword: "nouveau-mdp"}))
	_, err = svc.Login(ctx, LoginInput{Email: "awa@example.com", Password: "nouveau-mdp"})
	assert.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, oauth.ID.Hex(), ChangePasswordInput{NewPassword: "premier-mdp"}))
	_, err = svc.Login(ctx, LoginInput{Email: "oauth@example.com", Password: "premier-mdp"})
	assert.NoError(t, err)
}

func TestUpdateRole(t *testing.T) {
	admin := &models.User{Email: "admin@example.com", Role: models.RoleAdmin}
	user := &models.User{Email: "user@example.com", Role: models.RoleUser}
	users := newMemUsers(admin, user)
	svc := newAuthService(users)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateRole(ctx, admin.ID.Hex(), admin.ID.Hex(), models.RoleUser), ErrForbidden)
	assert.ErrorIs(t, svc.UpdateRole(ctx, admin.ID.Hex(), user.ID.Hex(), "superadmin"), ErrInvalidInput)
	require.NoError(t, svc.UpdateRole(ctx, admin.ID.Hex(), user.ID.Hex(), models.RoleAdmin))

	promoted, err := svc.User(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	page, err := svc.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(1), page.Page)
	assert.Equal(t, int64(20), page.Limit)
}
