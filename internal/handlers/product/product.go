package product

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

const (
	defaultRelated = 4
	maxRelated     = 12
)

type Catalog interface {
	List(ctx context.Context, values url.Values) (*services.ProductPage, error)
	Search(ctx context.Context, values url.Values) (*services.ProductPage, error)
	BySlug(ctx context.Context, slug string) (*models.Product, error)
	Related(ctx context.Context, slug string, limit int64) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type Handler struct {
	catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// GetProducts : filtres category, brand, color, size, min_price, max_price, featured, sort, page, limit
func (h *Handler) GetProducts(c *gin.Context) {
	page, err := h.catalog.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SearchProducts : sans q, équivaut à GetProducts
func (h *Handler) SearchProducts(c *gin.Context) {
	page, err := h.catalog.Search(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *Handler) GetRelated(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(defaultRelated)), 10, 64)
	if err != nil || limit <= 0 {
		limit = defaultRelated
	}
	if limit > maxRelated {
		limit = maxRelated
	}

	products, err := h.catalog.Related(c.Request.Context(), c.Param("slug"), limit)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
