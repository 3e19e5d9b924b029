package webhook

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	dompayment "example.com/gameshop/internal/domain/payment"
	"example.com/gameshop/internal/logging"
)

type StatusResolver interface {
	GetStatus(ctx context.Context, paymentID string) (*dompayment.Payment, error)
}

type OrderRecorder interface {
	RecordPaid(ctx context.Context, p *dompayment.Payment) (bool, error)
}

type Option func(*Service)

// WithTimeout bounds one shared notification run: the status lookup plus the
// order bookkeeping.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

type Service struct {
	payments StatusResolver
	orders   OrderRecorder
	group    singleflight.Group
	timeout  time.Duration
}

func NewService(payments StatusResolver, orders OrderRecorder, opts ...Option) *Service {
	s := &Service{
		payments: payments,
		orders:   orders,
		timeout:  20 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleNotification resolves the current status of a payment the provider told
// us about. Only a failed status lookup is returned as an error; order
// bookkeeping problems are logged so the provider is not asked to re-deliver.
//
// Concurrent deliveries for one payment share a single run. The run is detached
// from the caller that started it, so a cancelled request only ends its own wait.
func (s *Service) HandleNotification(ctx context.Context, paymentID string) (dompayment.Status, error) {
	ch := s.group.DoChan(paymentID, func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.handle(runCtx, paymentID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return "", res.Err
	}
	if res.Shared {
		logging.FromContext(ctx).Debug("webhook_delivery_collapsed", zap.String("payment_id", paymentID))
	}
	return res.Val.(dompayment.Status), nil
}

func (s *Service) handle(ctx context.Context, paymentID string) (dompayment.Status, error) {
	logger := logging.FromContext(ctx).With(zap.String("payment_id", paymentID))

	p, err := s.payments.GetStatus(ctx, paymentID)
	if err != nil {
		logger.Warn("webhook_status_lookup_failed", zap.Error(err))
		return "", err
	}
	logger.Info("webhook_status", zap.String("status", string(p.Status)))

	if p.Status.IsPaid() && s.orders != nil {
		if _, err := s.orders.RecordPaid(ctx, p); err != nil {
			logger.Error("order_record_failed", zap.Error(err))
		}
	}
	return p.Status, nil
}
