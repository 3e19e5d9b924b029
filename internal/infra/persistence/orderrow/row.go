// Package orderrow is the flat, column-per-field form of an order shared by the
// SQL repositories.
package orderrow

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domorder "example.com/gameshop/internal/domain/order"
	dompayment "example.com/gameshop/internal/domain/payment"
)

type Row struct {
	PaymentID     string
	Status        string
	AmountCents   int64
	Currency      string
	Items         []byte
	Customer      []byte
	CustomerEmail string
	CreatedAt     time.Time
}

func FromOrder(o *domorder.Order) (Row, error) {
	if o.PaymentID == "" {
		return Row{}, domorder.ErrMissingPaymentID
	}
	items := o.Items
	if items == nil {
		items = []dompayment.LineItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return Row{}, fmt.Errorf("encode items: %w", err)
	}
	customer := o.Customer
	if customer == nil {
		customer = dompayment.Customer{}
	}
	customerJSON, err := json.Marshal(customer)
	if err != nil {
		return Row{}, fmt.Errorf("encode customer: %w", err)
	}
	return Row{
		PaymentID:     o.PaymentID,
		Status:        string(o.Status),
		AmountCents:   o.AmountCents,
		Currency:      o.Currency,
		Items:         itemsJSON,
		Customer:      customerJSON,
		CustomerEmail: o.CustomerEmail,
		CreatedAt:     o.CreatedAt.UTC(),
	}, nil
}

func (r Row) ToOrder() (*domorder.Order, error) {
	o := &domorder.Order{
		PaymentID:     r.PaymentID,
		Status:        dompayment.Status(r.Status),
		AmountCents:   r.AmountCents,
		Currency:      r.Currency,
		Items:         []dompayment.LineItem{},
		Customer:      dompayment.Customer{},
		CustomerEmail: r.CustomerEmail,
		CreatedAt:     r.CreatedAt.UTC(),
	}
	if len(r.Items) > 0 {
		if err := json.Unmarshal(r.Items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}
	if len(r.Customer) > 0 {
		if err := json.Unmarshal(r.Customer, &o.Customer); err != nil {
			return nil, fmt.Errorf("decode customer: %w", err)
		}
	}
	return o, nil
}

// NotFound maps database/sql's no-rows error to the domain error.
func NotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domorder.ErrOrderNotFound
	}
	return err
}
