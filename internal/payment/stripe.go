package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"
)

const StripeSignatureHeader = "Stripe-Signature"

type Stripe struct {
	webhookSecret string
}

// NewStripe configure la clé globale du SDK
func NewStripe(secretKey, webhookSecret string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{webhookSecret: webhookSecret}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(req.Amount),
		Currency:     stripe.String(strings.ToLower(req.Currency)),
		ReceiptEmail: stripe.String(req.Email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("reference", req.Reference)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return &InitResult{Reference: req.Reference, ClientSecret: intent.ClientSecret}, nil
}

func (s *Stripe) ParseWebhook(payload []byte, header http.Header) (*PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, header.Get(StripeSignatureHeader), s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, ErrInvalidSignature
	}

	out := &PaymentEvent{Provider: s.Name(), Type: string(event.Type), Metadata: map[string]string{}}
	if event.Type != stripe.EventTypePaymentIntentSucceeded {
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	for k, v := range pi.Metadata {
		out.Metadata[k] = v
	}
	out.Reference = pi.Metadata["reference"]
	out.Amount = pi.AmountReceived
	if out.Amount == 0 {
		out.Amount = pi.Amount
	}
	out.Currency = strings.ToUpper(string(pi.Currency))
	out.Email = pi.ReceiptEmail
	out.succeeded = true
	return out, nil
}
