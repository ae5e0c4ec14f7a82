package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ")
}

func TestVerifyPassword_RejectsUnknownFormat(t *testing.T) {
	_, err := VerifyPassword("x", "$2a$10$abcdefghijklmnopqrstuv")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestJWT_RoundTrip(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "ada@example.com", Role: models.RoleAdmin}

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, err = ParseJWT(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_Expired(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	token, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Chaussures Été 2024":   "chaussures-ete-2024",
		"  Nike Air -- Max!! ":  "nike-air-max",
		"Crème brûlée":          "creme-brulee",
		"":                      "",
		"T-Shirt (XL)":          "t-shirt-xl",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestOrderQR(t *testing.T) {
	png, err := OrderQR("https://shop.example.com/orders/ref-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
	assert.True(t, strings.HasPrefix(QRDataURI(png), "data:image/png;base64,"))
}

func TestRenderOrderConfirmation(t *testing.T) {
	order := &models.Order{
		ID:               primitive.NewObjectID(),
		PaymentReference: "ref-123",
		Currency:         "NGN",
		Items: []models.OrderItem{
			{Name: "Tee <b>", Color: "red", Price: 10, Quantity: 2},
		},
		Subtotal: 20,
		Discount: 2,
		Shipping: 5,
		Total:    23,
	}

	subject, html, err := RenderOrderConfirmation(order, "https://shop/orders/ref-123", "qr.png")
	require.NoError(t, err)
	assert.Contains(t, subject, "ref-123")
	assert.Contains(t, html, "Tee &lt;b&gt;")
	assert.Contains(t, html, "20.00 NGN")
	assert.Contains(t, html, "-2.00 NGN")
	assert.Contains(t, html, "23.00 NGN")
	assert.Contains(t, html, "cid:qr.png")
}

func TestRenderOrderStatus(t *testing.T) {
	order := &models.Order{ID: primitive.NewObjectID(), Status: models.OrderShipped, Total: 10, Currency: "NGN"}

	subject, html, err := RenderOrderStatus(order, "https://shop/orders")
	require.NoError(t, err)
	assert.Contains(t, subject, models.OrderShipped)
	assert.Contains(t, html, StatusMessage(models.OrderShipped))
	assert.Contains(t, html, order.ID.Hex()[16:])
}

func TestRenderWelcomeEmail(t *testing.T) {
	_, html, err := RenderWelcomeEmail("Ada", "https://shop")
	require.NoError(t, err)
	assert.Contains(t, html, "Bonjour Ada")
}
