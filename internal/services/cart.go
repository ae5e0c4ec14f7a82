package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"
)

// Owner identifie le propriétaire d'un panier : un utilisateur ou un visiteur
type Owner struct {
	ID    string
	Guest bool
}

type ItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// CartPublisher diffuse les changements de panier (Redis pub/sub)
type CartPublisher interface {
	Publish(ctx context.Context, eventType string, cart *models.Cart)
}

const (
	cartEventUpdated = "cart.updated"
	cartEventCleared = "cart.cleared"
)

type CartService struct {
	userCarts  repository.CartRepository
	guestCarts repository.CartRepository
	products   repository.ProductRepository
	coupons    repository.CouponRepository
	events     CartPublisher
	shipping   ShippingRules
	now        func() time.Time
}

func NewCartService(
	userCarts, guestCarts repository.CartRepository,
	products repository.ProductRepository,
	coupons repository.CouponRepository,
	events CartPublisher,
	shipping ShippingRules,
) *CartService {
	return &CartService{
		userCarts:  userCarts,
		guestCarts: guestCarts,
		products:   products,
		coupons:    coupons,
		events:     events,
		shipping:   shipping,
		now:        time.Now,
	}
}

func (s *CartService) Shipping() ShippingRules {
	return s.shipping
}

func (s *CartService) repo(owner Owner) repository.CartRepository {
	if owner.Guest {
		return s.guestCarts
	}
	return s.userCarts
}

// load trouve le panier ou en crée un vide (non persisté)
func (s *CartService) load(ctx context.Context, owner Owner) (*models.Cart, error) {
	cart, err := s.repo(owner).Get(ctx, owner.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewCart(owner.ID), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// refresh relit les produits : prix à jour, produits supprimés retirés, quantités bornées au stock.
// adjusted indique qu'une ligne a été retirée ou réduite.
func (s *CartService) refresh(ctx context.Context, cart *models.Cart) (adjusted bool, err error) {
	if len(cart.Items) > 0 {
		ids := make([]primitive.ObjectID, 0, len(cart.Items))
		for _, item := range cart.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := s.products.FindByIDs(ctx, ids)
		if err != nil {
			return false, err
		}
		byID := make(map[primitive.ObjectID]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		// le stock est partagé entre les variantes d'un même produit
		remaining := make(map[primitive.ObjectID]int, len(byID))
		for id, p := range byID {
			remaining[id] = p.Stock
		}

		items := make([]models.CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			p, ok := byID[item.ProductID]
			if !ok || remaining[p.ID] <= 0 {
				adjusted = true
				continue
			}
			if item.Quantity > remaining[p.ID] {
				item.Quantity = remaining[p.ID]
				adjusted = true
			}
			remaining[p.ID] -= item.Quantity
			snapshot(&item, &p)
			items = append(items, item)
		}
		cart.Items = items
	}

	var coupon *models.Coupon
	if cart.CouponCode != "" {
		c, err := s.coupons.FindByCode(ctx, cart.CouponCode)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return adjusted, err
		}
		coupon = c
	}
	ComputeTotals(cart, coupon, s.shipping, s.now())
	return adjusted, nil
}

// snapshot copie les informations produit dans la ligne du panier
func snapshot(item *models.CartItem, p *models.Product) {
	item.Name = p.Name
	item.Slug = p.Slug
	item.Image = p.MainImage()
	item.Price = p.DiscountedPrice()
	item.OriginalPrice = models.RoundMoney(p.Price)
}

func (s *CartService) persist(ctx context.Context, owner Owner, cart *models.Cart) error {
	if _, err := s.refresh(ctx, cart); err != nil {
		return err
	}
	if err := s.repo(owner).Save(ctx, cart); err != nil {
		return err
	}
	s.publish(ctx, cartEventUpdated, cart)
	return nil
}

func (s *CartService) publish(ctx context.Context, eventType string, cart *models.Cart) {
	if s.events != nil {
		s.events.Publish(ctx, eventType, cart)
	}
}

// Current retourne le panier recalculé ; adjusted signale une correction liée au stock
func (s *CartService) Current(ctx context.Context, owner Owner) (*models.Cart, bool, error) {
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, false, err
	}
	adjusted, err := s.refresh(ctx, cart)
	if err != nil {
		return nil, false, err
	}
	if adjusted {
		if err := s.repo(owner).Save(ctx, cart); err != nil {
			return nil, false, err
		}
		s.publish(ctx, cartEventUpdated, cart)
	}
	return cart, adjusted, nil
}

func (s *CartService) Get(ctx context.Context, owner Owner) (*models.Cart, error) {
	cart, _, err := s.Current(ctx, owner)
	return cart, err
}

func (s *CartService) product(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// variant retourne la couleur et la taille telles qu'écrites sur la fiche produit
func variant(p *models.Product, color, size string) (string, string, bool) {
	c, okColor := canonical(p.Colors, color)
	sz, okSize := canonical(p.Sizes, size)
	return c, sz, okColor && okSize
}

func canonical(values []string, v string) (string, bool) {
	if v == "" {
		return "", true
	}
	for _, x := range values {
		if strings.EqualFold(x, v) {
			return x, true
		}
	}
	return "", false
}

// Add ajoute un article ; une variante déjà présente voit sa quantité augmenter
func (s *CartService) Add(ctx context.Context, owner Owner, in ItemInput) (*models.Cart, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	p, err := s.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	color, size, ok := variant(p, in.Color, in.Size)
	if !ok {
		return nil, fmt.Errorf("%w: couleur ou taille indisponible", ErrInvalidInput)
	}

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart.QuantityOf(p.ID)+in.Quantity > p.Stock {
		return nil, ErrInsufficientStock
	}

	if i := cart.IndexOf(p.ID, color, size); i >= 0 {
		cart.Items[i].Quantity += in.Quantity
	} else {
		item := models.CartItem{ProductID: p.ID, Color: color, Size: size, Quantity: in.Quantity}
		snapshot(&item, p)
		cart.Items = append(cart.Items, item)
	}

	if err := s.persist(ctx, owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity fixe la quantité d'une ligne ; 0 retire la ligne
func (s *CartService) UpdateQuantity(ctx context.Context, owner Owner, in ItemInput) (*models.Cart, error) {
	if in.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	id, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		return nil, ErrItemNotInCart
	}

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	i := cart.IndexOf(id, in.Color, in.Size)
	if i < 0 {
		return nil, ErrItemNotInCart
	}

	if in.Quantity == 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		p, err := s.product(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if cart.QuantityOf(p.ID)-cart.Items[i].Quantity+in.Quantity > p.Stock {
			return nil, ErrInsufficientStock
		}
		cart.Items[i].Quantity = in.Quantity
	}

	if err := s.persist(ctx, owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Remove(ctx context.Context, owner Owner, productID, color, size string) (*models.Cart, error) {
	return s.UpdateQuantity(ctx, owner, ItemInput{ProductID: productID, Color: color, Size: size, Quantity: 0})
}

func (s *CartService) Clear(ctx context.Context, owner Owner) (*models.Cart, error) {
	if err := s.repo(owner).Delete(ctx, owner.ID); err != nil {
		return nil, err
	}
	cart := models.NewCart(owner.ID)
	ComputeTotals(cart, nil, s.shipping, s.now())
	s.publish(ctx, cartEventCleared, cart)
	return cart, nil
}

// announceCleared prévient les abonnés quand le panier a été vidé hors du service (paiement confirmé)
func (s *CartService) announceCleared(ctx context.Context, userID string) {
	cart := models.NewCart(userID)
	ComputeTotals(cart, nil, s.shipping, s.now())
	s.publish(ctx, cartEventCleared, cart)
}

// Merge fusionne des articles venant du client (panier local) ; les quantités sont bornées au stock
func (s *CartService) Merge(ctx context.Context, owner Owner, items []ItemInput) (*models.Cart, error) {
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	for _, in := range items {
		if in.Quantity <= 0 {
			continue
		}
		p, err := s.product(ctx, in.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		color, size, ok := variant(p, in.Color, in.Size)
		if !ok {
			continue
		}
		mergeLine(cart, models.CartItem{ProductID: p.ID, Color: color, Size: size, Quantity: in.Quantity}, p.Stock)
	}

	if err := s.persist(ctx, owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// mergeLine ajoute la ligne ou cumule les quantités, dans la limite du stock restant pour le produit ;
// stock < 0 laisse refresh borner au stock réel
func mergeLine(cart *models.Cart, line models.CartItem, stock int) {
	if stock >= 0 {
		if free := stock - cart.QuantityOf(line.ProductID); line.Quantity > free {
			line.Quantity = free
		}
	}
	if line.Quantity <= 0 {
		return
	}
	if i := cart.IndexOf(line.ProductID, line.Color, line.Size); i >= 0 {
		cart.Items[i].Quantity += line.Quantity
		return
	}
	cart.Items = append(cart.Items, line)
}

// MergeGuest transfère le panier invité vers le compte à la connexion
func (s *CartService) MergeGuest(ctx context.Context, guestID, userID string) (*models.Cart, error) {
	if guestID == "" {
		return nil, nil
	}
	guest, err := s.guestCarts.Get(ctx, guestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	owner := Owner{ID: userID}
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, line := range guest.Items {
		mergeLine(cart, line, -1)
	}
	if cart.CouponCode == "" {
		cart.CouponCode = guest.CouponCode
	}

	if err := s.persist(ctx, owner, cart); err != nil {
		return nil, err
	}
	if err := s.guestCarts.Delete(ctx, guestID); err != nil {
		log.Printf("⚠️ Erreur suppression panier invité %s: %v", guestID, err)
	}
	log.Printf("🛒 Panier invité fusionné pour %s (%d articles)", userID, cart.ItemCount)
	return cart, nil
}

func (s *CartService) ApplyCoupon(ctx context.Context, owner Owner, code string) (*models.Cart, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: code manquant", ErrCouponInvalid)
	}
	coupon, err := s.coupons.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: introuvable", ErrCouponInvalid)
	}
	if err != nil {
		return nil, err
	}

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if _, err := s.refresh(ctx, cart); err != nil {
		return nil, err
	}
	net := models.RoundMoney(cart.Subtotal - cart.ProductDiscount)
	if _, err := CouponDiscount(coupon, net, s.now()); err != nil {
		return nil, err
	}

	cart.CouponCode = coupon.Code
	if err := s.persist(ctx, owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveCoupon(ctx context.Context, owner Owner) (*models.Cart, error) {
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	cart.CouponCode = ""
	if err := s.persist(ctx, owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
