package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"
)

const lowStockThreshold = 5

type DashboardStats struct {
	Orders        *models.OrderStats `json:"orders"`
	TotalUsers    int64              `json:"totalUsers"`
	TotalProducts int64              `json:"totalProducts"`
	LowStock      []models.Product   `json:"lowStock"`
}

type DashboardService struct {
	orders   *OrderService
	users    repository.UserRepository
	products repository.ProductRepository
}

func NewDashboardService(orders *OrderService, users repository.UserRepository, products repository.ProductRepository) *DashboardService {
	return &DashboardService{orders: orders, users: users, products: products}
}

// Stats lance les agrégations en parallèle
func (s *DashboardService) Stats(ctx context.Context, days int) (*DashboardStats, error) {
	stats := &DashboardStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		o, err := s.orders.Stats(ctx, days)
		stats.Orders = o
		return err
	})
	g.Go(func() error {
		n, err := s.users.Count(ctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.products.Count(ctx)
		stats.TotalProducts = n
		return err
	})
	g.Go(func() error {
		low, err := s.products.LowStock(ctx, lowStockThreshold, 20)
		stats.LowStock = low
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
