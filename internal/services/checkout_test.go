package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/payment"
)

const testWebhookSecret = "sk_test_webhook"

type checkoutFixture struct {
	*cartFixture
	svc       *CheckoutService
	user      *models.User
	infos     *memUserInfos
	orders    *memOrders
	checkouts *memCheckouts
	coupons   *memCoupons
	gateway   *testGateway
	events    *recordingEvents
	store     *cache.Store
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	carts := newCartFixture()
	coupons := newMemCoupons(&models.Coupon{Code: "DIX", Type: models.CouponPercentage, Value: 10, IsActive: true})
	carts.svc.coupons = coupons

	user := &models.User{Name: "Awa", Email: "awa@example.com", Role: models.RoleUser}
	f := &checkoutFixture{
		cartFixture: carts,
		user:        user,
		infos:       newMemUserInfos(),
		orders:      newMemOrders(),
		checkouts:   newMemCheckouts(),
		coupons:     coupons,
		gateway:     newTestGateway(testWebhookSecret),
		events:      &recordingEvents{},
		store:       newTestStore(t),
	}
	f.svc = NewCheckoutService(CheckoutDeps{
		Carts:       carts.svc,
		Users:       newMemUsers(user),
		UserInfos:   f.infos,
		Checkouts:   f.checkouts,
		Orders:      f.orders,
		Products:    carts.products,
		Coupons:     coupons,
		CartRepo:    carts.users,
		Tx:          directTx{},
		Cache:       f.store,
		Gateway:     f.gateway,
		Events:      f.events,
		Currency:    "NGN",
		CallbackURL: "http://localhost:3000/checkout/callback",
	})
	return f
}

func testAddress() *models.Address {
	return &models.Address{FullName: "Awa Diallo", Phone: "+221770000000", Street: "12 rue Carnot", City: "Dakar", Country: "SN"}
}

func (f *checkoutFixture) webhook(t *testing.T, event, reference string, amount int64) ([]byte, http.Header) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data": map[string]interface{}{
			"reference": reference,
			"amount":    amount,
			"currency":  "NGN",
			"status":    "success",
		},
	})
	require.NoError(t, err)
	header := http.Header{}
	header.Set(payment.PaystackSignatureHeader, f.gateway.Sign(payload))
	return payload, header
}

func (f *checkoutFixture) start(t *testing.T) *CheckoutResult {
	t.Helper()
	ctx := context.Background()
	owner := Owner{ID: f.user.ID.Hex()}
	_, err := f.cartFixture.svc.Add(ctx, owner, ItemInput{ProductID: f.shirt.ID.Hex(), Quantity: 2, Color: "Rouge", Size: "M"})
	require.NoError(t, err)
	_, err = f.cartFixture.svc.ApplyCoupon(ctx, owner, "DIX")
	require.NoError(t, err)

	res, err := f.svc.Start(ctx, f.user.ID.Hex(), CheckoutRequest{Address: testAddress()})
	require.NoError(t, err)
	return res
}

func TestCheckoutStart(t *testing.T) {
	f := newCheckoutFixture(t)
	res := f.start(t)

	assert.NotEmpty(t, res.Reference)
	assert.Equal(t, "paystack", res.Provider)
	assert.Equal(t, "https://pay.test/"+res.Reference, res.AuthorizationURL)
	assert.Equal(t, 167.0, res.Amount)

	require.Len(t, f.gateway.initialized, 1)
	assert.Equal(t, int64(16700), f.gateway.initialized[0].Amount)
	assert.Equal(t, f.user.Email, f.gateway.initialized[0].Email)

	checkout, err := f.checkouts.FindByReference(context.Background(), res.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutInitialized, checkout.Status)
	assert.Equal(t, "DIX", checkout.CouponCode)
	assert.Equal(t, "Dakar", checkout.Address.City)
	require.Len(t, checkout.Items, 1)
	assert.Equal(t, 2, checkout.Items[0].Quantity)
}

func TestCheckoutStartErrors(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	userID := f.user.ID.Hex()

	_, err := f.svc.Start(ctx, userID, CheckoutRequest{Address: testAddress()})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.cartFixture.svc.Add(ctx, Owner{ID: userID}, ItemInput{ProductID: f.mug.ID.Hex(), Quantity: 2})
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, userID, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput, "pas d'adresse ni de profil")

	require.NoError(t, f.products.DecrementStock(ctx, f.mug.ID, 1))
	_, err = f.svc.Start(ctx, userID, CheckoutRequest{Address: testAddress()})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, f.gateway.initialized)
}

func TestCheckoutStartUsesProfileAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	userID := f.user.ID.Hex()

	require.NoError(t, f.infos.Upsert(ctx, &models.UserInfo{UserID: userID, Address: *testAddress()}))
	_, err := f.cartFixture.svc.Add(ctx, Owner{ID: userID}, ItemInput{ProductID: f.mug.ID.Hex(), Quantity: 1})
	require.NoError(t, err)

	res, err := f.svc.Start(ctx, userID, CheckoutRequest{})
	require.NoError(t, err)

	checkout, err := f.checkouts.FindByReference(ctx, res.Reference)
	require.NoError(t, err)
	assert.Equal(t, "12 rue Carnot", checkout.Address.Street)
}

func TestHandleWebhookCreatesOrderOnce(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	res := f.start(t)

	payload, header := f.webhook(t, "charge.success", res.Reference, 16700)

	order, err := f.svc.HandleWebhook(ctx, payload, header)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, models.OrderPaid, order.Status)
	assert.Equal(t, res.Reference, order.PaymentReference)
	assert.Equal(t, 167.0, order.Total)
	assert.NotNil(t, order.PaidAt)

	assert.Equal(t, 3, f.products.stock(f.shirt.ID))
	assert.False(t, f.users.has(f.user.ID.Hex()), "le panier est vidé")
	coupon, err := f.coupons.FindByCode(ctx, "DIX")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.UsedCount)
	checkout, err := f.checkouts.FindByReference(ctx, res.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutCompleted, checkout.Status)

	again, err := f.svc.HandleWebhook(ctx, payload, header)
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)
	assert.Equal(t, 1, f.orders.count())
	assert.Equal(t, 3, f.products.stock(f.shirt.ID), "le stock n'est décrémenté qu'une fois")

	assert.Eventually(t, func() bool { return f.events.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHandleWebhookNotifiesCartAndRefreshesProductCache(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	res := f.start(t)

	stale := *f.shirt
	require.NoError(t, f.store.SetJSON(ctx, cache.ProductKey(f.shirt.Slug), &stale, cache.ProductCacheTTL))

	payload, header := f.webhook(t, "charge.success", res.Reference, 16700)
	_, err := f.svc.HandleWebhook(ctx, payload, header)
	require.NoError(t, err)

	var cached models.Product
	assert.Error(t, f.store.GetJSON(ctx, cache.ProductKey(f.shirt.Slug), &cached), "la fiche en cache est invalidée après la vente")

	f.cartFixture.events.mu.Lock()
	defer f.cartFixture.events.mu.Unlock()
	require.NotEmpty(t, f.cartFixture.events.events)
	last := len(f.cartFixture.events.events) - 1
	assert.Equal(t, cartEventCleared, f.cartFixture.events.events[last])
	assert.Equal(t, f.user.ID.Hex(), f.cartFixture.events.owners[last])
}

func TestHandleWebhookRejections(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	res := f.start(t)

	payload, header := f.webhook(t, "charge.success", res.Reference, 100)
	_, err := f.svc.HandleWebhook(ctx, payload, header)
	assert.ErrorIs(t, err, ErrAmountMismatch)

	payload, header = f.webhook(t, "charge.success", "inconnue", 16700)
	_, err = f.svc.HandleWebhook(ctx, payload, header)
	assert.ErrorIs(t, err, ErrCheckoutNotFound)

	payload, _ = f.webhook(t, "charge.success", res.Reference, 16700)
	bad := http.Header{}
	bad.Set(payment.PaystackSignatureHeader, "deadbeef")
	_, err = f.svc.HandleWebhook(ctx, payload, bad)
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)

	payload, header = f.webhook(t, "transfer.success", res.Reference, 16700)
	order, err := f.svc.HandleWebhook(ctx, payload, header)
	assert.NoError(t, err)
	assert.Nil(t, order)

	assert.Zero(t, f.orders.count())
	assert.Equal(t, 5, f.products.stock(f.shirt.ID))
}

func TestCheckoutShippingQuote(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	amount := 250.0
	q, err := f.svc.Shipping(ctx, Owner{ID: "x"}, &amount)
	require.NoError(t, err)
	assert.True(t, q.IsFree)

	_, err = f.cartFixture.svc.Add(ctx, Owner{ID: "x", Guest: true}, ItemInput{ProductID: f.mug.ID.Hex(), Quantity: 1})
	require.NoError(t, err)
	q, err = f.svc.Shipping(ctx, Owner{ID: "x", Guest: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, q.Fee)
	assert.Equal(t, 187.5, q.Remaining)
}
