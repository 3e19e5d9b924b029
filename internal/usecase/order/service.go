package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	domorder "example.com/gameshop/internal/domain/order"
	dompayment "example.com/gameshop/internal/domain/payment"
	"example.com/gameshop/internal/logging"
)

// Notifier tells the customer their order went through.
type Notifier interface {
	OrderPaid(ctx context.Context, o *domorder.Order) error
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithPersistTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

type Service struct {
	repo     domorder.Repository
	notifier Notifier
	now      func() time.Time
	timeout  time.Duration
}

func NewService(repo domorder.Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		now:     time.Now,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordPaid stores an order for a paid payment and notifies the customer the
// first time it is seen. Payments in any other status are ignored.
// The work is detached from ctx cancellation so a dropped provider connection
// does not abort a half-written order.
func (s *Service) RecordPaid(ctx context.Context, p *dompayment.Payment) (bool, error) {
	if p == nil || !p.Status.IsPaid() {
		return false, nil
	}
	if p.ID == "" {
		return false, domorder.ErrMissingPaymentID
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	o := domorder.FromPayment(p, s.now())
	created, err := s.repo.SaveIfAbsent(ctx, o)
	if err != nil {
		return false, err
	}

	logger := logging.FromContext(ctx).With(zap.String("payment_id", o.PaymentID))
	if !created {
		logger.Debug("order_already_recorded")
		return false, nil
	}
	logger.Info("order_recorded",
		zap.Int64("amount_cents", o.AmountCents),
		zap.Int("lines", len(o.Items)))

	if s.notifier != nil && o.CustomerEmail != "" {
		if err := s.notifier.OrderPaid(ctx, o); err != nil {
			logger.Warn("order_notify_failed", zap.Error(err))
		}
	}
	return true, nil
}

// Get returns the recorded order for a payment, or ErrOrderNotFound while the
// payment has not been confirmed as paid.
func (s *Service) Get(ctx context.Context, paymentID string) (*domorder.Order, error) {
	id, err := dompayment.NormalizeID(paymentID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByPaymentID(ctx, id)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
