package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/payment"
	"storefront_back_end/internal/repository"
)

// CheckoutRequest : sans adresse, celle du profil est utilisée
type CheckoutRequest struct {
	Address *models.Address `json:"shippingAddress"`
}

type CheckoutResult struct {
	Reference        string  `json:"reference"`
	Provider         string  `json:"provider"`
	AuthorizationURL string  `json:"authorizationUrl,omitempty"`
	ClientSecret     string  `json:"clientSecret,omitempty"`
	AccessCode       string  `json:"accessCode,omitempty"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
}

type CheckoutService struct {
	carts     *CartService
	users     repository.UserRepository
	userInfos repository.UserInfoRepository
	checkouts repository.CheckoutRepository
	orders    repository.OrderRepository
	products  repository.ProductRepository
	coupons   repository.CouponRepository
	cartRepo  repository.CartRepository
	tx        repository.Transactor
	cache     JSONCache
	gateway   payment.Gateway
	events    OrderEvents
	notifier  *Notifier
	currency  string
	callback  string
	now       func() time.Time
}

type CheckoutDeps struct {
	Carts       *CartService
	Users       repository.UserRepository
	UserInfos   repository.UserInfoRepository
	Checkouts   repository.CheckoutRepository
	Orders      repository.OrderRepository
	Products    repository.ProductRepository
	Coupons     repository.CouponRepository
	CartRepo    repository.CartRepository
	Tx          repository.Transactor
	Cache       JSONCache
	Gateway     payment.Gateway
	Events      OrderEvents
	Notifier    *Notifier
	Currency    string
	CallbackURL string
}

func NewCheckoutService(d CheckoutDeps) *CheckoutService {
	events := d.Events
	if events == nil {
		events = NoopOrderEvents{}
	}
	return &CheckoutService{
		carts:     d.Carts,
		users:     d.Users,
		userInfos: d.UserInfos,
		checkouts: d.Checkouts,
		orders:    d.Orders,
		products:  d.Products,
		coupons:   d.Coupons,
		cartRepo:  d.CartRepo,
		tx:        d.Tx,
		cache:     cacheOrNoop(d.Cache),
		gateway:   d.Gateway,
		events:    events,
		notifier:  d.Notifier,
		currency:  d.Currency,
		callback:  d.CallbackURL,
		now:       time.Now,
	}
}

// Start fige le panier dans un Checkout puis initialise le paiement chez le prestataire
func (s *CheckoutService) Start(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	address, err := s.shippingAddress(ctx, userID, req.Address)
	if err != nil {
		return nil, err
	}

	cart, adjusted, err := s.carts.Current(ctx, Owner{ID: userID})
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if adjusted {
		return nil, fmt.Errorf("%w: le panier a été mis à jour", ErrInsufficientStock)
	}
	if cart.Total <= 0 {
		return nil, fmt.Errorf("%w: montant nul", ErrInvalidInput)
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Slug:      it.Slug,
			Image:     it.Image,
			Color:     it.Color,
			Size:      it.Size,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	checkout := &models.Checkout{
		Reference:  uuid.NewString(),
		UserID:     userID,
		Email:      user.Email,
		Items:      items,
		Address:    *address,
		Subtotal:   cart.Subtotal,
		Discount:   models.RoundMoney(cart.ProductDiscount + cart.CouponDiscount),
		Shipping:   cart.Shipping,
		Total:      cart.Total,
		Currency:   s.currency,
		CouponCode: cart.CouponCode,
		Provider:   s.gateway.Name(),
		Status:     models.CheckoutInitialized,
		CreatedAt:  s.now(),
	}
	if err := s.checkouts.Create(ctx, checkout); err != nil {
		return nil, err
	}

	res, err := s.gateway.Initialize(ctx, payment.InitRequest{
		Reference:   checkout.Reference,
		Email:       user.Email,
		Amount:      models.ToSubunits(checkout.Total),
		Currency:    s.currency,
		CallbackURL: s.callback,
		Metadata:    map[string]string{"user_id": userID, "reference": checkout.Reference},
	})
	if err != nil {
		return nil, err
	}
	log.Printf("💳 Paiement initialisé : %s (%.2f %s) pour %s", checkout.Reference, checkout.Total, s.currency, user.Email)

	return &CheckoutResult{
		Reference:        checkout.Reference,
		Provider:         s.gateway.Name(),
		AuthorizationURL: res.AuthorizationURL,
		ClientSecret:     res.ClientSecret,
		AccessCode:       res.AccessCode,
		Amount:           checkout.Total,
		Currency:         s.currency,
	}, nil
}

func (s *CheckoutService) shippingAddress(ctx context.Context, userID string, given *models.Address) (*models.Address, error) {
	if given != nil {
		return given, nil
	}
	info, err := s.userInfos.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && info.Address.Street == "") {
		return nil, fmt.Errorf("%w: adresse de livraison manquante", ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	return &info.Address, nil
}

// HandleWebhook vérifie la signature puis crée la commande dans une transaction.
// Un événement non concluant renvoie (nil, nil).
func (s *CheckoutService) HandleWebhook(ctx context.Context, payload []byte, header http.Header) (*models.Order, error) {
	event, err := s.gateway.ParseWebhook(payload, header)
	if err != nil {
		return nil, err
	}
	if !event.Succeeded() {
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		return nil, nil
	}
	if event.Reference == "" {
		return nil, fmt.Errorf("%w: référence manquante", payment.ErrMalformedEvent)
	}

	var (
		order   *models.Order
		created bool
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, created = nil, false

		existing, err := s.orders.FindByReference(ctx, event.Reference)
		if err == nil {
			order = existing
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		checkout, err := s.checkouts.FindByReference(ctx, event.Reference)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCheckoutNotFound
		}
		if err != nil {
			return err
		}
		if event.Amount != models.ToSubunits(checkout.Total) {
			return fmt.Errorf("%w: attendu %d, reçu %d", ErrAmountMismatch, models.ToSubunits(checkout.Total), event.Amount)
		}

		now := s.now()
		order = &models.Order{
			UserID:           checkout.UserID,
			Email:            checkout.Email,
			Items:            checkout.Items,
			ShippingAddress:  checkout.Address,
			Subtotal:         checkout.Subtotal,
			Discount:         checkout.Discount,
			Shipping:         checkout.Shipping,
			Total:            checkout.Total,
			Currency:         checkout.Currency,
			CouponCode:       checkout.CouponCode,
			PaymentProvider:  event.Provider,
			PaymentReference: checkout.Reference,
			Status:           models.OrderPaid,
			PaidAt:           &now,
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}

		for _, item := range checkout.Items {
			err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity)
			if errors.Is(err, repository.ErrNotFound) {
				log.Printf("⚠️ Produit %s supprimé avant paiement", item.ProductID.Hex())
				continue
			}
			if err != nil {
				return err
			}
		}

		if err := s.checkouts.MarkCompleted(ctx, checkout.Reference, now); err != nil {
			return err
		}
		if checkout.CouponCode != "" {
			if err := s.coupons.IncrementUsage(ctx, checkout.CouponCode); err != nil {
				return err
			}
		}
		if err := s.cartRepo.Delete(ctx, checkout.UserID); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !created {
		log.Printf("🔁 Commande déjà enregistrée pour %s, on ignore.", event.Reference)
		return order, nil
	}
	log.Printf("✅ Commande %s créée (référence %s)", order.ID.Hex(), order.PaymentReference)

	// le stock a changé : les fiches produit en cache sont périmées
	keys := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Slug != "" {
			keys = append(keys, cache.ProductKey(item.Slug))
		}
	}
	if len(keys) > 0 {
		s.cache.Delete(ctx, keys...)
	}
	s.carts.announceCleared(ctx, order.UserID)

	paid := *order
	async("publication order.paid", func(ctx context.Context) error {
		return s.events.OrderPaid(ctx, &paid)
	})
	async("envoi email de confirmation", func(ctx context.Context) error {
		return s.notifier.OrderConfirmation(ctx, &paid)
	})
	return order, nil
}

// Shipping retourne le devis de livraison pour un montant ou pour le panier courant
func (s *CheckoutService) Shipping(ctx context.Context, owner Owner, amount *float64) (*models.ShippingQuote, error) {
	if amount != nil {
		q := s.carts.Shipping().Quote(*amount)
		return &q, nil
	}
	cart, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	q := s.carts.Shipping().Quote(models.RoundMoney(cart.Subtotal - cart.ProductDiscount - cart.CouponDiscount))
	return &q, nil
}
