package payment

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Currency is the only currency the shop charges in.
const Currency = "EUR"

type Status string

const (
	StatusOpen       Status = "open"
	StatusCanceled   Status = "canceled"
	StatusPending    Status = "pending"
	StatusAuthorized Status = "authorized"
	StatusExpired    Status = "expired"
	StatusFailed     Status = "failed"
	StatusPaid       Status = "paid"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusCanceled, StatusPending, StatusAuthorized, StatusExpired, StatusFailed, StatusPaid:
		return true
	default:
		return false
	}
}

func (s Status) IsPaid() bool {
	return s == StatusPaid
}

// NormalizeID trims a payment id and rejects one that is empty or would change
// the provider URL path it is placed in.
func NormalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || id != url.PathEscape(id) {
		return "", ErrInvalidPaymentID
	}
	return id, nil
}

// LineItem is the client-declared description of one cart line. It is advisory:
// the charged amount is always recomputed from PriceCents and Quantity.
type LineItem struct {
	Title      string `json:"title"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int64  `json:"qty"`
	Image      string `json:"image"`
	Slug       string `json:"slug"`
	Category   string `json:"category"`
}

// Customer is round-tripped through the provider as opaque metadata.
type Customer map[string]any

// Email returns customer.email when it is a non-empty string.
func (c Customer) Email() string {
	if c == nil {
		return ""
	}
	if v, ok := c["email"].(string); ok {
		return v
	}
	return ""
}

type Metadata struct {
	Items    []LineItem `json:"items"`
	Customer Customer   `json:"customer"`
}

// DecodeMetadata reads metadata echoed back by the provider. Anything that does
// not have the expected shape yields empty metadata.
func DecodeMetadata(raw json.RawMessage) (Metadata, error) {
	md := Metadata{Items: []LineItem{}, Customer: Customer{}}
	if len(raw) == 0 || string(raw) == "null" {
		return md, nil
	}
	if err := json.Unmarshal(raw, &md); err != nil {
		return Metadata{Items: []LineItem{}, Customer: Customer{}}, err
	}
	if md.Items == nil {
		md.Items = []LineItem{}
	}
	if md.Customer == nil {
		md.Customer = Customer{}
	}
	return md, nil
}

type Session struct {
	PaymentID   string
	CheckoutURL string
	AmountCents int64
	Currency    string
	Metadata    Metadata
}

// Payment is the provider's current view of a payment.
type Payment struct {
	ID          string
	Status      Status
	AmountCents int64
	Currency    string
	Metadata    Metadata
}
