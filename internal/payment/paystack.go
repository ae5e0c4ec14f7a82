package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	PaystackSignatureHeader = "x-paystack-signature"
	paystackChargeSuccess   = "charge.success"
)

type Paystack struct {
	secret  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*InitResult]
}

func NewPaystack(secret, baseURL string, client *http.Client) *Paystack {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	settings := gobreaker.Settings{
		Name:        "paystack",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("⚡ Circuit %s: %s -> %s", name, from, to)
		},
	}
	return &Paystack{
		secret:  secret,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[*InitResult](settings),
	}
}

func (p *Paystack) Name() string { return "paystack" }

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize appelle POST /transaction/initialize
func (p *Paystack) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	metadata := map[string]string{"reference": req.Reference}
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	body, err := json.Marshal(map[string]interface{}{
		"email":        req.Email,
		"amount":       req.Amount,
		"currency":     req.Currency,
		"reference":    req.Reference,
		"callback_url": req.CallbackURL,
		"metadata":     metadata,
	})
	if err != nil {
		return nil, err
	}

	return p.breaker.Execute(func() (*InitResult, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+p.secret)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProvider, err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		var env paystackEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: réponse illisible (%d)", ErrProvider, resp.StatusCode)
		}
		if resp.StatusCode >= 300 || !env.Status {
			return nil, fmt.Errorf("%w: %s", ErrProvider, env.Message)
		}

		var data struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProvider, err)
		}
		return &InitResult{
			Reference:        data.Reference,
			AuthorizationURL: data.AuthorizationURL,
			AccessCode:       data.AccessCode,
		}, nil
	})
}

// Sign calcule la signature hex HMAC-SHA512 attendue dans x-paystack-signature
func (p *Paystack) Sign(payload []byte) string {
	mac := hmac.New(sha512.New, []byte(p.secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *Paystack) ParseWebhook(payload []byte, header http.Header) (*PaymentEvent, error) {
	signature, err := hex.DecodeString(strings.TrimSpace(header.Get(PaystackSignatureHeader)))
	if err != nil || len(signature) == 0 {
		return nil, ErrInvalidSignature
	}
	mac := hmac.New(sha512.New, []byte(p.secret))
	mac.Write(payload)
	if !hmac.Equal(signature, mac.Sum(nil)) {
		return nil, ErrInvalidSignature
	}

	var body struct {
		Event string `json:"event"`
		Data  struct {
			Reference string                 `json:"reference"`
			Amount    int64                  `json:"amount"`
			Currency  string                 `json:"currency"`
			Status    string                 `json:"status"`
			Metadata  map[string]interface{} `json:"metadata"`
			Customer  struct {
				Email string `json:"email"`
			} `json:"customer"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	metadata := map[string]string{}
	for k, v := range body.Data.Metadata {
		if s, ok := v.(string); ok {
			metadata[k] = s
		}
	}

	return &PaymentEvent{
		Provider:  p.Name(),
		Type:      body.Event,
		Reference: body.Data.Reference,
		Amount:    body.Data.Amount,
		Currency:  body.Data.Currency,
		Email:     body.Data.Customer.Email,
		Metadata:  metadata,
		succeeded: body.Event == paystackChargeSuccess && body.Data.Status == "success",
	}, nil
}
