package payment

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	dompayment "example.com/gameshop/internal/domain/payment"
)

type Amount struct {
	Currency string
	Value    string
}

// CreatePaymentRequest is what the provider is asked to create.
type CreatePaymentRequest struct {
	Amount      Amount
	Description string
	RedirectURL string
	CancelURL   string
	WebhookURL  string
	Metadata    dompayment.Metadata
	Locale      string
}

// ProviderPayment is the provider's answer for both create and lookup calls.
// CheckoutURL is empty when the response carried no checkout link.
type ProviderPayment struct {
	ID          string
	Status      string
	Amount      Amount
	Metadata    json.RawMessage
	CheckoutURL string
}

// Provider is the outbound port to the payment provider's REST API.
type Provider interface {
	CreatePayment(ctx context.Context, apiKey string, req CreatePaymentRequest) (*ProviderPayment, error)
	GetPayment(ctx context.Context, apiKey, paymentID string) (*ProviderPayment, error)
}

// Credentials yields the provider secret at call time.
type Credentials interface {
	APIKey() string
}

// EnvCredentials reads the named environment variable on every call.
type EnvCredentials string

func (e EnvCredentials) APIKey() string {
	return strings.TrimSpace(os.Getenv(string(e)))
}

// StaticCredentials is a fixed key, mostly for tests and tooling.
type StaticCredentials string

func (s StaticCredentials) APIKey() string { return string(s) }
