package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/payment"
	"storefront_back_end/internal/repository"
)

// Dépôts en mémoire pour tester les services sans MongoDB

type memProducts struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Product
}

func newMemProducts(products ...*models.Product) *memProducts {
	m := &memProducts{items: map[primitive.ObjectID]*models.Product{}}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		p.Normalize()
		m.items[p.ID] = p
	}
	return m
}

func (m *memProducts) Find(_ context.Context, _ bson.M, _ *options.FindOptions) ([]models.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.items {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := m.items[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := m.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (m *memProducts) Categories(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, p := range m.items {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (m *memProducts) Related(_ context.Context, product *models.Product, limit int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.items {
		if p.ID != product.ID && p.Category == product.Category && int64(len(out)) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.Normalize()
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.Normalize()
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memProducts) AddImage(_ context.Context, id primitive.ObjectID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Images = append(p.Images, url)
	return nil
}

func (m *memProducts) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}

func (m *memProducts) LowStock(_ context.Context, threshold int, limit int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.items {
		if p.Stock <= threshold && int64(len(out)) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *memProducts) stock(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Stock
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func newMemCarts() *memCarts {
	return &memCarts{carts: map[string]models.Cart{}}
}

func (m *memCarts) Get(_ context.Context, owner string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[owner]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Items = append([]models.CartItem(nil), c.Items...)
	return &c, nil
}

func (m *memCarts) Save(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *cart
	c.Items = append([]models.CartItem(nil), cart.Items...)
	m.carts[cart.UserID] = c
	return nil
}

func (m *memCarts) Delete(_ context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, owner)
	return nil
}

func (m *memCarts) has(owner string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.carts[owner]
	return ok
}

type memCoupons struct {
	mu      sync.Mutex
	coupons map[string]*models.Coupon
}

func newMemCoupons(coupons ...*models.Coupon) *memCoupons {
	m := &memCoupons{coupons: map[string]*models.Coupon{}}
	for _, c := range coupons {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		m.coupons[c.Code] = c
	}
	return m
}

func (m *memCoupons) Create(_ context.Context, c *models.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coupons[c.Code]; ok {
		return repository.ErrDuplicate
	}
	c.ID = primitive.NewObjectID()
	cp := *c
	m.coupons[c.Code] = &cp
	return nil
}

func (m *memCoupons) FindByID(_ context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.coupons {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCoupons) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCoupons) List(context.Context) ([]models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Coupon{}
	for _, c := range m.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCoupons) Update(_ context.Context, c *models.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, existing := range m.coupons {
		if existing.ID == c.ID {
			delete(m.coupons, code)
			cp := *c
			m.coupons[c.Code] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memCoupons) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, c := range m.coupons {
		if c.ID == id {
			delete(m.coupons, code)
		}
	}
	return nil
}

func (m *memCoupons) IncrementUsage(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[code]
	if !ok {
		return repository.ErrNotFound
	}
	c.UsedCount++
	return nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{users: map[string]*models.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		m.users[u.ID.Hex()] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	m.users[u.ID.Hex()] = &cp
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) FindByProvider(_ context.Context, provider, providerID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Provider == provider && u.ProviderID == providerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (m *memUsers) UpdateRole(_ context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *memUsers) List(_ context.Context, skip, limit int64) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	total := int64(len(out))
	if skip >= total {
		return []models.User{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return out[skip:end], total, nil
}

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

type memUserInfos struct {
	mu    sync.Mutex
	infos map[string]models.UserInfo
}

func newMemUserInfos() *memUserInfos {
	return &memUserInfos{infos: map[string]models.UserInfo{}}
}

func (m *memUserInfos) FindByUserID(_ context.Context, userID string) (*models.UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.infos[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &info, nil
}

func (m *memUserInfos) Upsert(_ context.Context, info *models.UserInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos[info.UserID] = *info
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
}

func newMemOrders(orders ...*models.Order) *memOrders {
	m := &memOrders{orders: map[primitive.ObjectID]*models.Order{}}
	for _, o := range orders {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		m.orders[o.ID] = o
	}
	return m
}

func (m *memOrders) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = primitive.NewObjectID()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) FindByReference(_ context.Context, ref string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.PaymentReference == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memOrders) FindByUser(_ context.Context, userID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) Find(_ context.Context, _ bson.M, _ *options.FindOptions) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return repository.ErrNotFound
	}
	o.Status = to
	return nil
}

func (m *memOrders) Stats(context.Context, time.Time) (*models.OrderStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &models.OrderStats{TotalOrders: int64(len(m.orders))}, nil
}

func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type memCheckouts struct {
	mu        sync.Mutex
	checkouts map[string]*models.Checkout
}

func newMemCheckouts() *memCheckouts {
	return &memCheckouts{checkouts: map[string]*models.Checkout{}}
}

func (m *memCheckouts) Create(_ context.Context, c *models.Checkout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = primitive.NewObjectID()
	cp := *c
	m.checkouts[c.Reference] = &cp
	return nil
}

func (m *memCheckouts) FindByReference(_ context.Context, ref string) (*models.Checkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.checkouts[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCheckouts) MarkCompleted(_ context.Context, ref string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.checkouts[ref]
	if !ok {
		return repository.ErrNotFound
	}
	c.Status = models.CheckoutCompleted
	c.CompletedAt = &at
	return nil
}

type memWishlists struct {
	mu    sync.Mutex
	lists map[string][]primitive.ObjectID
}

func newMemWishlists() *memWishlists {
	return &memWishlists{lists: map[string][]primitive.ObjectID{}}
}

func (m *memWishlists) Get(_ context.Context, userID string) (*models.Wishlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := append([]primitive.ObjectID{}, m.lists[userID]...)
	return &models.Wishlist{UserID: userID, ProductIDs: ids}, nil
}

func (m *memWishlists) Add(_ context.Context, userID string, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.lists[userID] {
		if existing == id {
			return nil
		}
	}
	m.lists[userID] = append(m.lists[userID], id)
	return nil
}

func (m *memWishlists) Remove(_ context.Context, userID string, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.lists[userID][:0]
	for _, existing := range m.lists[userID] {
		if existing != id {
			ids = append(ids, existing)
		}
	}
	m.lists[userID] = ids
	return nil
}

// directTx exécute fn sans transaction
type directTx struct{}

func (directTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// testGateway vérifie les webhooks comme Paystack mais n'appelle pas l'API
type testGateway struct {
	*payment.Paystack
	initialized []payment.InitRequest
}

func newTestGateway(secret string) *testGateway {
	return &testGateway{Paystack: payment.NewPaystack(secret, "http://paystack.invalid", nil)}
}

func (g *testGateway) Initialize(_ context.Context, req payment.InitRequest) (*payment.InitResult, error) {
	g.initialized = append(g.initialized, req)
	return &payment.InitResult{Reference: req.Reference, AuthorizationURL: "https://pay.test/" + req.Reference}, nil
}

type recordedEvent struct {
	Type  string
	Order models.Order
}

type recordingEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingEvents) OrderPaid(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: EventOrderPaid, Order: *o})
	return nil
}

func (r *recordingEvents) OrderStatusChanged(_ context.Context, o *models.Order, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: "order." + o.Status, Order: *o})
	return nil
}

func (r *recordingEvents) Close() error { return nil }

func (r *recordingEvents) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	owners []string
}

func (r *recordingPublisher) Publish(_ context.Context, eventType string, cart *models.Cart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
	r.owners = append(r.owners, cart.UserID)
}
