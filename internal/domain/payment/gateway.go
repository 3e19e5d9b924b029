package payment

import "context"

// Gateway is the payment capability the checkout flow and the webhook rely on.
type Gateway interface {
	CreateSession(ctx context.Context, items []LineItem, customer Customer) (*Session, error)
	GetStatus(ctx context.Context, paymentID string) (*Payment, error)
}
