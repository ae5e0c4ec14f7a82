package services

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/query"
	"storefront_back_end/internal/repository"
)

type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int64          `json:"page"`
	Limit  int64          `json:"limit"`
	Pages  int64          `json:"pages"`
}

type OrderService struct {
	orders   repository.OrderRepository
	events   OrderEvents
	notifier *Notifier
}

func NewOrderService(orders repository.OrderRepository, events OrderEvents, notifier *Notifier) *OrderService {
	if events == nil {
		events = NoopOrderEvents{}
	}
	return &OrderService{orders: orders, events: events, notifier: notifier}
}

func (s *OrderService) List(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

func (s *OrderService) find(ctx context.Context, rawID string) (*models.Order, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	o, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// Get vérifie que la commande appartient à l'utilisateur ; un admin voit tout
func (s *OrderService) Get(ctx context.Context, userID, rawID string, isAdmin bool) (*models.Order, error) {
	o, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// ByReference sert la page de retour après paiement
func (s *OrderService) ByReference(ctx context.Context, userID, reference string) (*models.Order, error) {
	o, err := s.orders.FindByReference(ctx, reference)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) AdminList(ctx context.Context, values url.Values) (*OrderPage, error) {
	q := query.ParseOrderQuery(values, models.IsOrderStatus)
	orders, total, err := s.orders.Find(ctx, q.Filter(), q.FindOptions())
	if err != nil {
		return nil, err
	}
	return &OrderPage{Orders: orders, Total: total, Page: q.Page, Limit: q.Limit, Pages: query.Pages(total, q.Limit)}, nil
}

// UpdateStatus applique la table de transitions puis notifie le client
func (s *OrderService) UpdateStatus(ctx context.Context, rawID, status string) (*models.Order, error) {
	if !models.IsOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	o, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(o.Status, status) {
		return nil, ErrInvalidTransition
	}

	from := o.Status
	err = s.orders.UpdateStatus(ctx, o.ID, from, status)
	if errors.Is(err, repository.ErrNotFound) {
		// modifiée entre-temps par une autre requête
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	log.Printf("📦 Commande %s : %s -> %s", o.ID.Hex(), from, status)

	updated := *o
	async("publication statut commande", func(ctx context.Context) error {
		return s.events.OrderStatusChanged(ctx, &updated, from)
	})
	async("envoi email statut", func(ctx context.Context) error {
		return s.notifier.OrderStatus(ctx, &updated)
	})
	return o, nil
}

func (s *OrderService) Stats(ctx context.Context, days int) (*models.OrderStats, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.orders.Stats(ctx, since)
}
