package checkout

import (
	"context"

	"go.uber.org/zap"

	domcart "example.com/gameshop/internal/domain/cart"
	dompayment "example.com/gameshop/internal/domain/payment"
	"example.com/gameshop/internal/logging"
)

type CartStore interface {
	Get(ctx context.Context, cartID string) domcart.Cart
	Clear(ctx context.Context, cartID string) (domcart.Cart, error)
}

type SessionCreator interface {
	CreateSession(ctx context.Context, items []dompayment.LineItem, customer dompayment.Customer) (*dompayment.Session, error)
}

type Service struct {
	carts    CartStore
	payments SessionCreator
}

func NewService(carts CartStore, payments SessionCreator) *Service {
	return &Service{
		carts:    carts,
		payments: payments,
	}
}

// Checkout turns the cart into a payment session. The cart is cleared only once
// the provider handed back a checkout URL; on any failure it is left untouched.
func (s *Service) Checkout(ctx context.Context, cartID string, customer dompayment.Customer) (*dompayment.Session, error) {
	c := s.carts.Get(ctx, cartID)
	if c.IsEmpty() {
		return nil, domcart.ErrEmptyCart
	}

	logger := logging.FromContext(ctx).With(zap.String("cart_id", cartID))

	session, err := s.payments.CreateSession(ctx, LineItems(c), customer)
	if err != nil {
		logger.Warn("checkout_failed", zap.Int("lines", len(c.Items)), zap.Error(err))
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, cartID); err != nil {
		logger.Warn("cart_clear_failed", zap.String("payment_id", session.PaymentID), zap.Error(err))
	}
	logger.Info("checkout_started",
		zap.String("payment_id", session.PaymentID),
		zap.Int64("amount_cents", session.AmountCents))

	return session, nil
}

func LineItems(c domcart.Cart) []dompayment.LineItem {
	items := make([]dompayment.LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, dompayment.LineItem{
			Title:      it.Title,
			PriceCents: it.PriceCents,
			Quantity:   it.Quantity,
			Image:      it.Image,
			Slug:       it.Slug,
			Category:   it.Category,
		})
	}
	return items
}
