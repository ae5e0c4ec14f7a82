package payment

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrInvalidSignature = errors.New("signature de paiement invalide")
	ErrMalformedEvent   = errors.New("événement de paiement illisible")
	ErrProvider         = errors.New("erreur du prestataire de paiement")
)

// InitRequest : Amount est exprimé en sous-unités (kobo, centimes)
type InitRequest struct {
	Reference   string
	Email       string
	Amount      int64
	Currency    string
	CallbackURL string
	Metadata    map[string]string
}

type InitResult struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl,omitempty"`
	ClientSecret     string `json:"clientSecret,omitempty"`
	AccessCode       string `json:"accessCode,omitempty"`
}

// PaymentEvent est la forme commune des webhooks Paystack et Stripe
type PaymentEvent struct {
	Provider  string
	Type      string
	Reference string
	Amount    int64
	Currency  string
	Email     string
	Metadata  map[string]string
	succeeded bool
}

func (e *PaymentEvent) Succeeded() bool {
	return e.succeeded
}

// Gateway est implémenté par chaque prestataire de paiement
type Gateway interface {
	Name() string
	Initialize(ctx context.Context, req InitRequest) (*InitResult, error)
	ParseWebhook(payload []byte, header http.Header) (*PaymentEvent, error)
}
