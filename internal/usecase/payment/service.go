package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	domcart "example.com/gameshop/internal/domain/cart"
	dompayment "example.com/gameshop/internal/domain/payment"
	"example.com/gameshop/internal/logging"
)

const tracerName = "example.com/gameshop/internal/usecase/payment"

var _ dompayment.Gateway = (*Service)(nil)

type Config struct {
	BaseURL      string
	Description  string
	Locale       string
	RedirectPath string
	CancelPath   string
	WebhookPath  string
}

type Service struct {
	provider Provider
	creds    Credentials
	cfg      Config
	tracer   trace.Tracer
}

func NewService(provider Provider, creds Credentials, cfg Config) *Service {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Service{
		provider: provider,
		creds:    creds,
		cfg:      cfg,
		tracer:   otel.Tracer(tracerName),
	}
}

// Ready reports ErrMissingAPIKey while the provider secret is not configured.
func (s *Service) Ready() error {
	if s.creds.APIKey() == "" {
		return dompayment.ErrMissingAPIKey
	}
	return nil
}

// TotalCents recomputes the amount to charge from the line items. Lines with a
// non-positive price or quantity contribute nothing. A sum that does not fit in
// int64 is reported as ErrInvalidTotal.
func TotalCents(items []dompayment.LineItem) (int64, error) {
	var total int64
	for _, it := range items {
		if it.PriceCents <= 0 || it.Quantity <= 0 {
			continue
		}
		if it.PriceCents > math.MaxInt64/it.Quantity {
			return 0, fmt.Errorf("%w: line %q overflows", dompayment.ErrInvalidTotal, it.Slug)
		}
		line := it.PriceCents * it.Quantity
		if total > math.MaxInt64-line {
			return 0, fmt.Errorf("%w: sum overflows", dompayment.ErrInvalidTotal)
		}
		total += line
	}
	return total, nil
}

// FormatAmount renders minor units as a two-decimal major-unit string (3500 -> "35.00").
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseAmount is the inverse of FormatAmount.
func ParseAmount(value string) (int64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, err
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// CreateSession opens a payment at the provider. The charged amount never comes
// from the caller: it is recomputed here from the line items.
func (s *Service) CreateSession(ctx context.Context, items []dompayment.LineItem, customer dompayment.Customer) (_ *dompayment.Session, err error) {
	ctx, span := s.tracer.Start(ctx, "payment.CreateSession",
		trace.WithAttributes(attribute.Int("payment.line_items", len(items))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	apiKey := s.creds.APIKey()
	if apiKey == "" {
		return nil, dompayment.ErrMissingAPIKey
	}
	if len(items) == 0 {
		return nil, domcart.ErrEmptyCart
	}

	total, err := TotalCents(items)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, dompayment.ErrInvalidTotal
	}
	span.SetAttributes(attribute.Int64("payment.amount_cents", total))

	if customer == nil {
		customer = dompayment.Customer{}
	}
	md := dompayment.Metadata{Items: items, Customer: customer}

	res, err := s.provider.CreatePayment(ctx, apiKey, CreatePaymentRequest{
		Amount:      Amount{Currency: dompayment.Currency, Value: FormatAmount(total)},
		Description: s.cfg.Description,
		RedirectURL: s.cfg.BaseURL + s.cfg.RedirectPath,
		CancelURL:   s.cfg.BaseURL + s.cfg.CancelPath,
		WebhookURL:  s.cfg.BaseURL + s.cfg.WebhookPath,
		Metadata:    md,
		Locale:      s.cfg.Locale,
	})
	if err != nil {
		return nil, err
	}
	if res.CheckoutURL == "" {
		return nil, &dompayment.GatewayError{Op: "create payment", Err: dompayment.ErrNoCheckoutURL}
	}
	span.SetAttributes(attribute.String("payment.id", res.ID))

	return &dompayment.Session{
		PaymentID:   res.ID,
		CheckoutURL: res.CheckoutURL,
		AmountCents: total,
		Currency:    dompayment.Currency,
		Metadata:    md,
	}, nil
}

// GetStatus looks a payment up by id. It has no side effects and can be repeated freely.
func (s *Service) GetStatus(ctx context.Context, paymentID string) (_ *dompayment.Payment, err error) {
	ctx, span := s.tracer.Start(ctx, "payment.GetStatus",
		trace.WithAttributes(attribute.String("payment.id", paymentID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	apiKey := s.creds.APIKey()
	if apiKey == "" {
		return nil, dompayment.ErrMissingAPIKey
	}
	if paymentID, err = dompayment.NormalizeID(paymentID); err != nil {
		return nil, err
	}

	res, err := s.provider.GetPayment(ctx, apiKey, paymentID)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	md, mdErr := dompayment.DecodeMetadata(res.Metadata)
	if mdErr != nil {
		logger.Warn("payment_metadata_unreadable", zap.String("payment_id", res.ID), zap.Error(mdErr))
	}
	var cents int64
	if res.Amount.Value != "" {
		if cents, err = ParseAmount(res.Amount.Value); err != nil {
			logger.Warn("payment_amount_unreadable", zap.String("payment_id", res.ID), zap.String("value", res.Amount.Value))
			cents, err = 0, nil
		}
	}

	status := dompayment.Status(res.Status)
	if !status.IsValid() {
		return nil, &dompayment.GatewayError{Op: "get payment", Err: errors.New("unknown payment status " + res.Status)}
	}
	span.SetAttributes(attribute.String("payment.status", res.Status))

	return &dompayment.Payment{
		ID:          res.ID,
		Status:      status,
		AmountCents: cents,
		Currency:    res.Amount.Currency,
		Metadata:    md,
	}, nil
}
