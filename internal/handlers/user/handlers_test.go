package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- mocks ---

type cartMock struct {
	cart     *models.Cart
	adjusted bool
	err      error

	owner   services.Owner
	removed []string
	merged  []services.ItemInput
}

func (m *cartMock) result(owner services.Owner) (*models.Cart, error) {
	m.owner = owner
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *cartMock) Current(_ context.Context, owner services.Owner) (*models.Cart, bool, error) {
	cart, err := m.result(owner)
	return cart, m.adjusted, err
}

func (m *cartMock) Add(_ context.Context, owner services.Owner, _ services.ItemInput) (*models.Cart, error) {
	return m.result(owner)
}

func (m *cartMock) UpdateQuantity(_ context.Context, owner services.Owner, _ services.ItemInput) (*models.Cart, error) {
	return m.result(owner)
}

func (m *cartMock) Remove(_ context.Context, owner services.Owner, productID, color, size string) (*models.Cart, error) {
	m.removed = []string{productID, color, size}
	return m.result(owner)
}

func (m *cartMock) Clear(_ context.Context, owner services.Owner) (*models.Cart, error) {
	return m.result(owner)
}

func (m *cartMock) Merge(_ context.Context, owner services.Owner, items []services.ItemInput) (*models.Cart, error) {
	m.merged = items
	return m.result(owner)
}

func (m *cartMock) ApplyCoupon(_ context.Context, owner services.Owner, _ string) (*models.Cart, error) {
	return m.result(owner)
}

func (m *cartMock) RemoveCoupon(_ context.Context, owner services.Owner) (*models.Cart, error) {
	return m.result(owner)
}

type authMock struct {
	user *models.User
	err  error
}

func (m authMock) Register(context.Context, services.RegisterInput) (*models.User, error) {
	return m.user, m.err
}

func (m authMock) Login(context.Context, services.LoginInput) (*models.User, error) {
	return m.user, m.err
}

func (m authMock) UpsertOAuthUser(context.Context, services.OAuthProfile) (*models.User, error) {
	return m.user, m.err
}

func (m authMock) User(context.Context, string) (*models.User, error) {
	return m.user, m.err
}

func (m authMock) ChangePassword(context.Context, string, services.ChangePasswordInput) error {
	return m.err
}

func (m authMock) IssueToken(*models.User) (string, error) {
	return "jwt-token", nil
}

func (m authMock) TokenTTL() time.Duration {
	return time.Hour
}

type sessionMock struct {
	guestID  string
	loggedIn *models.User
}

func (s *sessionMock) Login(_ *gin.Context, user *models.User) error {
	s.loggedIn = user
	return nil
}

func (s *sessionMock) Logout(*gin.Context) error { return nil }

func (s *sessionMock) GuestID(*gin.Context) string { return s.guestID }

type mergerMock struct {
	guestID, userID string
}

func (m *mergerMock) MergeGuest(_ context.Context, guestID, userID string) (*models.Cart, error) {
	m.guestID, m.userID = guestID, userID
	return &models.Cart{UserID: userID}, nil
}

type wishlistMock struct {
	view  *models.WishlistView
	added bool
	err   error
}

func (m wishlistMock) List(context.Context, string) (*models.WishlistView, error) {
	return m.view, m.err
}

func (m wishlistMock) Add(context.Context, string, string) (*models.WishlistView, error) {
	return m.view, m.err
}

func (m wishlistMock) Remove(context.Context, string, string) (*models.WishlistView, error) {
	return m.view, m.err
}

func (m wishlistMock) Toggle(context.Context, string, string) (*models.WishlistView, bool, error) {
	return m.view, m.added, m.err
}

type orderMock struct {
	orders  []models.Order
	order   *models.Order
	err     error
	isAdmin bool
}

func (m *orderMock) List(context.Context, string) ([]models.Order, error) {
	return m.orders, m.err
}

func (m *orderMock) Get(_ context.Context, _, _ string, isAdmin bool) (*models.Order, error) {
	m.isAdmin = isAdmin
	return m.order, m.err
}

func (m *orderMock) ByReference(context.Context, string, string) (*models.Order, error) {
	return m.order, m.err
}

// --- helpers ---

func asUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
			c.Set(middleware.ContextRole, role)
		}
		c.Next()
	}
}

func asGuest(guestID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextGuestID, guestID)
		c.Next()
	}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- cart ---

func TestGetCart_Guest(t *testing.T) {
	mock := &cartMock{cart: &models.Cart{UserID: "guest-1", Total: 42}, adjusted: true}
	h := NewCartHandler(mock)

	r := gin.New()
	r.GET("/cart", asGuest("guest-1"), h.GetCart)

	w := do(r, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.Owner{ID: "guest-1", Guest: true}, mock.owner)

	var resp struct {
		Cart     models.Cart `json:"cart"`
		Adjusted bool        `json:"adjusted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Adjusted)
	assert.Equal(t, 42.0, resp.Cart.Total)
}

func TestAddItem_InvalidBody(t *testing.T) {
	h := NewCartHandler(&cartMock{})
	r := gin.New()
	r.POST("/cart/items", asUser("user-1", models.RoleUser), h.AddItem)

	w := do(r, http.MethodPost, "/cart/items", `{"quantity":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	h := NewCartHandler(&cartMock{err: services.ErrInsufficientStock})
	r := gin.New()
	r.POST("/cart/items", asUser("user-1", models.RoleUser), h.AddItem)

	w := do(r, http.MethodPost, "/cart/items", `{"productId":"abc","quantity":9}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), services.ErrInsufficientStock.Error())
}

func TestRemoveItem_ReadsVariantFromQuery(t *testing.T) {
	mock := &cartMock{cart: &models.Cart{}}
	h := NewCartHandler(mock)
	r := gin.New()
	r.DELETE("/cart/items", asUser("user-1", models.RoleUser), h.RemoveItem)

	w := do(r, http.MethodDelete, "/cart/items", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/cart/items?productId=p1&color=Rouge&size=M", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"p1", "Rouge", "M"}, mock.removed)
}

func TestMergeCart(t *testing.T) {
	mock := &cartMock{cart: &models.Cart{}}
	h := NewCartHandler(mock)
	r := gin.New()
	r.POST("/cart/merge", asUser("user-1", models.RoleUser), h.MergeCart)

	w := do(r, http.MethodPost, "/cart/merge", `{"items":[{"productId":"p1","quantity":1},{"productId":"p2","quantity":3}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, mock.merged, 2)
}

func TestApplyCoupon_Invalid(t *testing.T) {
	h := NewCartHandler(&cartMock{err: services.ErrCouponInvalid})
	r := gin.New()
	r.POST("/cart/coupon", asUser("user-1", models.RoleUser), h.ApplyCoupon)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/cart/coupon", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/cart/coupon", `{"code":"FAUX"}`).Code)
}

// --- websocket ---

type subscriberMock struct {
	events chan cache.CartEvent
}

func (s *subscriberMock) Subscribe(context.Context, string) (<-chan cache.CartEvent, func(), error) {
	return s.events, func() {}, nil
}

func TestCartSocket_SnapshotThenEvents(t *testing.T) {
	sub := &subscriberMock{events: make(chan cache.CartEvent, 1)}
	socket := NewCartSocket(sub, &cartMock{cart: &models.Cart{UserID: "user-1", Total: 10}}, nil)

	r := gin.New()
	r.GET("/ws", asUser("user-1", models.RoleUser), socket.Serve)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first cache.CartEvent
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "cart.snapshot", first.Type)
	assert.Equal(t, 10.0, first.Cart.Total)

	sub.events <- cache.CartEvent{Type: "cart.updated", Owner: "user-1", Cart: &models.Cart{Total: 25}}
	var second cache.CartEvent
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "cart.updated", second.Type)
	assert.Equal(t, 25.0, second.Cart.Total)
}

func TestCartSocket_RequiresOwner(t *testing.T) {
	socket := NewCartSocket(&subscriberMock{}, &cartMock{}, nil)
	r := gin.New()
	r.GET("/ws", socket.Serve)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/ws", "").Code)
}

// --- auth ---

func TestRegister_MergesGuestCart(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Name: "Awa", Email: "awa@example.com", Role: models.RoleUser}
	sessions := &sessionMock{guestID: "guest-9"}
	merger := &mergerMock{}
	h := NewAuthHandler(authMock{user: user}, sessions, merger, "http://localhost:3000", false)

	r := gin.New()
	r.POST("/register", h.Register)

	w := do(r, http.MethodPost, "/register", `{"name":"Awa","email":"awa@example.com","password":"motdepasse"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, user, sessions.loggedIn)
	assert.Equal(t, "guest-9", merger.guestID)
	assert.Equal(t, user.ID.Hex(), merger.userID)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jwt-token", resp["token"])
	assert.Equal(t, float64(3600), resp["expiresIn"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	sessions := &sessionMock{}
	h := NewAuthHandler(authMock{err: services.ErrInvalidCredentials}, sessions, &mergerMock{}, "", false)
	r := gin.New()
	r.POST("/login", h.Login)

	w := do(r, http.MethodPost, "/login", `{"email":"awa@example.com","password":"mauvais"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sessions.loggedIn)
}

func TestOAuth_Disabled(t *testing.T) {
	h := NewAuthHandler(authMock{}, &sessionMock{}, &mergerMock{}, "", false)
	r := gin.New()
	r.GET("/oauth/:provider", h.BeginOAuth)
	r.GET("/oauth/:provider/callback", h.OAuthCallback)

	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/oauth/google", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/oauth/google/callback", "").Code)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	h := NewAuthHandler(authMock{err: services.ErrInvalidCredentials}, &sessionMock{}, &mergerMock{}, "", false)
	r := gin.New()
	r.PUT("/password", asUser("user-1", models.RoleUser), h.ChangePassword)

	w := do(r, http.MethodPut, "/password", `{"currentPassword":"ancien","newPassword":"nouveaumotdepasse"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- wishlist ---

func TestToggleWishlist(t *testing.T) {
	view := &models.WishlistView{UserID: "user-1", Items: []models.Product{{Name: "Chemise"}}}
	h := NewWishlistHandler(wishlistMock{view: view, added: true})
	r := gin.New()
	r.POST("/wishlist/toggle", asUser("user-1", models.RoleUser), h.ToggleWishlist)

	w := do(r, http.MethodPost, "/wishlist/toggle", `{"productId":"p1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"added":true`)
	assert.Contains(t, w.Body.String(), "Chemise")
}

func TestRemoveFromWishlist_UnknownProduct(t *testing.T) {
	h := NewWishlistHandler(wishlistMock{err: services.ErrProductNotFound})
	r := gin.New()
	r.DELETE("/wishlist/:productId", asUser("user-1", models.RoleUser), h.RemoveFromWishlist)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/wishlist/xyz", "").Code)
}

// --- orders ---

func TestGetOrders_EmptyList(t *testing.T) {
	h := NewOrderHandler(&orderMock{})
	r := gin.New()
	r.GET("/orders", asUser("user-1", models.RoleUser), h.GetOrders)

	w := do(r, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"orders":[]`)
}

func TestGetOrder_PassesAdminFlag(t *testing.T) {
	mock := &orderMock{order: &models.Order{Email: "awa@example.com"}}
	h := NewOrderHandler(mock)
	r := gin.New()
	r.GET("/orders/:id", asUser("admin-1", models.RoleAdmin), h.GetOrder)

	w := do(r, http.MethodGet, "/orders/123", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mock.isAdmin)
}

func TestGetOrderByReference_NotFound(t *testing.T) {
	h := NewOrderHandler(&orderMock{err: services.ErrOrderNotFound})
	r := gin.New()
	r.GET("/orders/reference/:reference", asUser("user-1", models.RoleUser), h.GetOrderByReference)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/orders/reference/ORD-1", "").Code)
}

func TestRespondsServerErrorGenerically(t *testing.T) {
	h := NewOrderHandler(&orderMock{err: errors.New("mongo down")})
	r := gin.New()
	r.GET("/orders", asUser("user-1", models.RoleUser), h.GetOrders)

	w := do(r, http.MethodGet, "/orders", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "mongo")
}
