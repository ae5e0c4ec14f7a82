package services

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"
)

type WishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
	cache     JSONCache
}

func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository, c JSONCache) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products, cache: cacheOrNoop(c)}
}

// List retourne les produits de la wishlist, depuis le cache si possible
func (s *WishlistService) List(ctx context.Context, userID string) (*models.WishlistView, error) {
	key := cache.WishlistKey(userID)

	var view models.WishlistView
	if err := s.cache.GetJSON(ctx, key, &view); err == nil {
		return &view, nil
	}

	w, err := s.wishlists.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindByIDs(ctx, w.ProductIDs)
	if err != nil {
		return nil, err
	}

	// conserver l'ordre d'ajout ; les produits supprimés disparaissent
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	view = models.WishlistView{UserID: userID, Items: make([]models.Product, 0, len(w.ProductIDs))}
	for _, id := range w.ProductIDs {
		if p, ok := byID[id]; ok {
			view.Items = append(view.Items, p)
		}
	}

	if err := s.cache.SetJSON(ctx, key, view, cache.WishlistCacheTTL); err != nil {
		log.Printf("⚠️ Erreur mise en cache wishlist: %v", err)
	}
	return &view, nil
}

func (s *WishlistService) parseProduct(ctx context.Context, rawID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return primitive.NilObjectID, ErrProductNotFound
	}
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrProductNotFound
		}
		return primitive.NilObjectID, err
	}
	return id, nil
}

func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*models.WishlistView, error) {
	id, err := s.parseProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.wishlists.Add(ctx, userID, id); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, cache.WishlistKey(userID))
	return s.List(ctx, userID)
}

// Remove accepte un produit déjà supprimé du catalogue
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) (*models.WishlistView, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if err := s.wishlists.Remove(ctx, userID, id); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, cache.WishlistKey(userID))
	return s.List(ctx, userID)
}

func (s *WishlistService) Contains(ctx context.Context, userID string, id primitive.ObjectID) (bool, error) {
	w, err := s.wishlists.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, pid := range w.ProductIDs {
		if pid == id {
			return true, nil
		}
	}
	return false, nil
}

// Toggle ajoute ou retire le produit ; added indique l'état final
func (s *WishlistService) Toggle(ctx context.Context, userID, productID string) (view *models.WishlistView, added bool, err error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, false, ErrProductNotFound
	}
	present, err := s.Contains(ctx, userID, id)
	if err != nil {
		return nil, false, err
	}
	if present {
		view, err = s.Remove(ctx, userID, productID)
		return view, false, err
	}
	view, err = s.Add(ctx, userID, productID)
	return view, true, err
}
