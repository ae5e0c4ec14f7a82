package payment

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

const maxWebhookBytes = int64(1 << 20)

type CheckoutService interface {
	Start(ctx context.Context, userID string, req services.CheckoutRequest) (*services.CheckoutResult, error)
	HandleWebhook(ctx context.Context, payload []byte, header http.Header) (*models.Order, error)
	Shipping(ctx context.Context, owner services.Owner, amount *float64) (*models.ShippingQuote, error)
}

type Handler struct {
	checkout CheckoutService
}

func NewHandler(checkout CheckoutService) *Handler {
	return &Handler{checkout: checkout}
}

// Checkout initialise le paiement ; la commande n'existe qu'après le webhook
func (h *Handler) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if c.Request.ContentLength != 0 {
		if !handlers.BindJSON(c, &req) {
			return
		}
	}

	result, err := h.checkout.Start(c.Request.Context(), handlers.UserID(c), req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	log.Printf("💳 Paiement %s initialisé : %s (%.2f %s)", result.Provider, result.Reference, result.Amount, result.Currency)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Webhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	order, err := h.checkout.HandleWebhook(c.Request.Context(), payload, c.Request.Header)
	if err != nil {
		log.Printf("❌ Webhook paiement rejeté: %v", err)
		handlers.RespondError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "orderId": order.ID.Hex()})
}

// GetShipping : ?amount=... sinon le panier courant
func (h *Handler) GetShipping(c *gin.Context) {
	var amount *float64
	if raw := c.Query("amount"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Montant invalide"})
			return
		}
		amount = &v
	}

	quote, err := h.checkout.Shipping(c.Request.Context(), handlers.Owner(c), amount)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
