package order

import "context"

type Repository interface {
	// SaveIfAbsent stores o unless an order with the same payment id exists.
	// It reports whether a new record was created.
	SaveIfAbsent(ctx context.Context, o *Order) (bool, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*Order, error)
	Ping(ctx context.Context) error
}
