package order

import (
	"time"

	dompayment "example.com/gameshop/internal/domain/payment"
)

// Order is the durable record of a paid payment. PaymentID is its unique key.
type Order struct {
	PaymentID     string
	Status        dompayment.Status
	AmountCents   int64
	Currency      string
	Items         []dompayment.LineItem
	Customer      dompayment.Customer
	CustomerEmail string
	CreatedAt     time.Time
}

func FromPayment(p *dompayment.Payment, now time.Time) *Order {
	items := p.Metadata.Items
	if items == nil {
		items = []dompayment.LineItem{}
	}
	customer := p.Metadata.Customer
	if customer == nil {
		customer = dompayment.Customer{}
	}
	return &Order{
		PaymentID:     p.ID,
		Status:        p.Status,
		AmountCents:   p.AmountCents,
		Currency:      p.Currency,
		Items:         items,
		Customer:      customer,
		CustomerEmail: customer.Email(),
		CreatedAt:     now.UTC(),
	}
}
