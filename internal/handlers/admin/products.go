package admin

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

const (
	maxImageBytes    = 5 << 20
	defaultSignedTTL = 15 * time.Minute
	maxSignedTTL     = 24 * time.Hour
)

type Catalog interface {
	List(ctx context.Context, values url.Values) (*services.ProductPage, error)
	Create(ctx context.Context, in services.ProductInput) (*models.Product, error)
	Update(ctx context.Context, rawID string, in services.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, rawID string) error
	UploadImage(ctx context.Context, rawID, filename string, r io.Reader, size int64, contentType string) (*models.Product, error)
	SignedImages(ctx context.Context, rawID string, ttl time.Duration) ([]string, error)
}

type ProductHandler struct {
	catalog Catalog
}

func NewProductHandler(catalog Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, err := h.catalog.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input services.ProductInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	product, err := h.catalog.Create(c.Request.Context(), input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	log.Printf("🆕 Produit créé : %s (%s)", product.Name, product.Slug)
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var input services.ProductInput
	if !handlers.BindJSON(c, &input) {
		return
	}
	product, err := h.catalog.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// UploadImage attend un formulaire multipart avec le champ "image"
func (h *ProductHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<20)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image trop volumineuse (5 Mo max)"})
		return
	}

	product, err := h.catalog.UploadImage(c.Request.Context(), c.Param("id"), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// SignedImages : ?ttl=15m, borné à 24h
func (h *ProductHandler) SignedImages(c *gin.Context) {
	ttl, err := time.ParseDuration(c.DefaultQuery("ttl", defaultSignedTTL.String()))
	if err != nil || ttl <= 0 {
		ttl = defaultSignedTTL
	}
	if ttl > maxSignedTTL {
		ttl = maxSignedTTL
	}

	urls, err := h.catalog.SignedImages(c.Request.Context(), c.Param("id"), ttl)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": urls, "expiresIn": int(ttl.Seconds())})
}
