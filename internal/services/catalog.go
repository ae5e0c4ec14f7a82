package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/query"
	"storefront_back_end/internal/repository"
	"storefront_back_end/internal/utils"
)

type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int64            `json:"page"`
	Limit    int64            `json:"limit"`
	Pages    int64            `json:"pages"`
}

func newProductPage(products []models.Product, total, page, limit int64) *ProductPage {
	return &ProductPage{Products: products, Total: total, Page: page, Limit: limit, Pages: query.Pages(total, limit)}
}

// ProductInput est le corps des requêtes admin de création et modification
type ProductInput struct {
	Name        string   `json:"name" binding:"required,min=2"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Brand       string   `json:"brand"`
	Images      []string `json:"images"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Price       float64  `json:"price" binding:"gt=0"`
	Discount    float64  `json:"discount" binding:"gte=0,lte=100"`
	Stock       int      `json:"stock" binding:"gte=0"`
	IsFeatured  bool     `json:"isFeatured"`
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Category = strings.TrimSpace(in.Category)
	p.Brand = strings.TrimSpace(in.Brand)
	p.Images = in.Images
	p.Colors = in.Colors
	p.Sizes = in.Sizes
	p.Price = models.RoundMoney(in.Price)
	p.Discount = in.Discount
	p.Stock = in.Stock
	p.IsFeatured = in.IsFeatured
}

type CatalogService struct {
	products repository.ProductRepository
	cache    JSONCache
	search   Searcher
	storage  ObjectStorage
	group    singleflight.Group
}

// NewCatalogService ; search et storage sont optionnels
func NewCatalogService(products repository.ProductRepository, c JSONCache, search Searcher, storage ObjectStorage) *CatalogService {
	return &CatalogService{products: products, cache: cacheOrNoop(c), search: search, storage: storage}
}

func (s *CatalogService) List(ctx context.Context, values url.Values) (*ProductPage, error) {
	q := query.ParseProductQuery(values)
	products, total, err := s.products.Find(ctx, q.Filter(), q.FindOptions())
	if err != nil {
		return nil, err
	}
	return newProductPage(products, total, q.Page, q.Limit), nil
}

// BySlug lit le cache Redis ; singleflight évite les lectures concurrentes du même produit
func (s *CatalogService) BySlug(ctx context.Context, slug string) (*models.Product, error) {
	key := cache.ProductKey(slug)

	var cached models.Product
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// partagé entre les appelants : l'annulation d'une requête ne doit pas faire échouer les autres
		fill := context.WithoutCancel(ctx)
		p, err := s.products.FindBySlug(fill, slug)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetJSON(fill, key, p, cache.ProductCacheTTL); err != nil {
			log.Printf("⚠️ Erreur mise en cache produit %s: %v", slug, err)
		}
		return p, nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return v.(*models.Product), nil
}

// Search passe par Elasticsearch si disponible et sans autre filtre, sinon par le filtre MongoDB
func (s *CatalogService) Search(ctx context.Context, values url.Values) (*ProductPage, error) {
	q := query.ParseProductQuery(values)
	if s.search == nil || q.Search == "" || q.HasFilters() {
		return s.List(ctx, values)
	}

	ids, total, err := s.search.Search(ctx, q.Search, int((q.Page-1)*q.Limit), int(q.Limit))
	if err != nil {
		log.Printf("⚠️ Recherche Elastic indisponible, repli MongoDB: %v", err)
		return s.List(ctx, values)
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	found, err := s.products.FindByIDs(ctx, oids)
	if err != nil {
		return nil, err
	}

	// conserver l'ordre de pertinence
	byID := make(map[primitive.ObjectID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	products := make([]models.Product, 0, len(found))
	for _, id := range oids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return newProductPage(products, total, q.Page, q.Limit), nil
}

func (s *CatalogService) Related(ctx context.Context, slug string, limit int64) ([]models.Product, error) {
	p, err := s.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 12 {
		limit = 4
	}
	return s.products.Related(ctx, p, limit)
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

func (s *CatalogService) ByID(ctx context.Context, rawID string) (*models.Product, error) {
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

// uniqueSlug ajoute -2, -3... jusqu'à trouver un slug libre
func (s *CatalogService) uniqueSlug(ctx context.Context, name string, current primitive.ObjectID) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "produit"
	}
	slug := base
	for i := 2; ; i++ {
		existing, err := s.products.FindBySlug(ctx, slug)
		if errors.Is(err, repository.ErrNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		if existing.ID == current {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	in.apply(p)

	slug, err := s.uniqueSlug(ctx, p.Name, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	p.Slug = slug

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.index(p)
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, rawID string, in ProductInput) (*models.Product, error) {
	p, err := s.ByID(ctx, rawID)
	if err != nil {
		return nil, err
	}
	oldSlug := p.Slug
	in.apply(p)

	slug, err := s.uniqueSlug(ctx, p.Name, p.ID)
	if err != nil {
		return nil, err
	}
	p.Slug = slug

	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	s.cache.Delete(ctx, cache.ProductKey(oldSlug), cache.ProductKey(p.Slug))
	s.index(p)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, rawID string) error {
	p, err := s.ByID(ctx, rawID)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, p.ID); err != nil {
		return err
	}
	s.cache.Delete(ctx, cache.ProductKey(p.Slug))
	if s.search != nil {
		go func(id string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.search.Delete(ctx, id); err != nil {
				log.Printf("❌ Erreur suppression index produit %s: %v", id, err)
			}
		}(p.ID.Hex())
	}
	return nil
}

// UploadImage envoie l'image dans MinIO et l'ajoute à la galerie du produit
func (s *CatalogService) UploadImage(ctx context.Context, rawID, filename string, r io.Reader, size int64, contentType string) (*models.Product, error) {
	if s.storage == nil {
		return nil, ErrNotConfigured
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: le fichier doit être une image", ErrInvalidInput)
	}
	p, err := s.ByID(ctx, rawID)
	if err != nil {
		return nil, err
	}

	link, err := s.storage.Upload(ctx, filename, r, size, contentType)
	if err != nil {
		return nil, err
	}
	if err := s.products.AddImage(ctx, p.ID, link); err != nil {
		return nil, err
	}
	p.Images = append(p.Images, link)
	s.cache.Delete(ctx, cache.ProductKey(p.Slug))
	return p, nil
}

// SignedImages retourne des URLs signées pour un bucket privé
func (s *CatalogService) SignedImages(ctx context.Context, rawID string, ttl time.Duration) ([]string, error) {
	if s.storage == nil {
		return nil, ErrNotConfigured
	}
	p, err := s.ByID(ctx, rawID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		signed, err := s.storage.PresignedURL(ctx, img, ttl)
		if err != nil {
			return nil, err
		}
		out = append(out, signed)
	}
	return out, nil
}

func (s *CatalogService) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	return s.products.LowStock(ctx, threshold, 20)
}

// index est asynchrone : l'indexation ne bloque pas la réponse admin
func (s *CatalogService) index(p *models.Product) {
	if s.search == nil {
		return
	}
	doc := *p
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.search.Index(ctx, &doc); err != nil {
			log.Printf("❌ Erreur indexation produit %s: %v", doc.Name, err)
		}
	}()
}
