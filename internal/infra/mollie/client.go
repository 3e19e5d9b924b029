package mollie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	dompayment "example.com/gameshop/internal/domain/payment"
	"example.com/gameshop/internal/logging"
	uspayment "example.com/gameshop/internal/usecase/payment"
)

const (
	DefaultBaseURL = "https://api.mollie.com/v2"

	maxErrorBody    = 4 << 10
	maxResponseBody = 1 << 20
)

type BreakerSettings struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithBreaker(s BreakerSettings) Option {
	return func(c *Client) {
		c.breakerSettings = s
	}
}

// Client talks to the Mollie v2 payments API.
type Client struct {
	baseURL         string
	http            *http.Client
	timeout         time.Duration
	breakerSettings BreakerSettings
	breaker         *gobreaker.CircuitBreaker[*response]
}

type response struct {
	status int
	body   []byte
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout: 10 * time.Second,
		breakerSettings: BreakerSettings{
			MaxRequests:         1,
			Interval:            time.Minute,
			Timeout:             30 * time.Second,
			ConsecutiveFailures: 5,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[*response](c.settings())
	return c
}

func (c *Client) settings() gobreaker.Settings {
	bs := c.breakerSettings
	threshold := bs.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.Settings{
		Name:        "mollie",
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A rejected request is the caller's problem, not an outage.
		IsSuccessful: func(err error) bool {
			var gwErr *dompayment.GatewayError
			if errors.As(err, &gwErr) && gwErr.StatusCode >= 400 && gwErr.StatusCode < 500 {
				return true
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerState.WithLabelValues(name).Set(float64(to))
			zap.L().Warn("circuit_breaker_state_changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
}

type amount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type createPaymentBody struct {
	Amount      amount              `json:"amount"`
	Description string              `json:"description"`
	RedirectURL string              `json:"redirectUrl"`
	CancelURL   string              `json:"cancelUrl,omitempty"`
	WebhookURL  string              `json:"webhookUrl,omitempty"`
	Metadata    dompayment.Metadata `json:"metadata"`
	Locale      string              `json:"locale,omitempty"`
}

type link struct {
	Href string `json:"href"`
}

type paymentResource struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	Amount   amount          `json:"amount"`
	Metadata json.RawMessage `json:"metadata"`
	Links    struct {
		Checkout *link `json:"checkout"`
	} `json:"_links"`
}

func (p paymentResource) toProvider() *uspayment.ProviderPayment {
	out := &uspayment.ProviderPayment{
		ID:       p.ID,
		Status:   p.Status,
		Amount:   uspayment.Amount{Currency: p.Amount.Currency, Value: p.Amount.Value},
		Metadata: p.Metadata,
	}
	if p.Links.Checkout != nil {
		out.CheckoutURL = p.Links.Checkout.Href
	}
	return out
}

func (c *Client) CreatePayment(ctx context.Context, apiKey string, req uspayment.CreatePaymentRequest) (*uspayment.ProviderPayment, error) {
	body, err := json.Marshal(createPaymentBody{
		Amount:      amount{Currency: req.Amount.Currency, Value: req.Amount.Value},
		Description: req.Description,
		RedirectURL: req.RedirectURL,
		CancelURL:   req.CancelURL,
		WebhookURL:  req.WebhookURL,
		Metadata:    req.Metadata,
		Locale:      req.Locale,
	})
	if err != nil {
		return nil, fmt.Errorf("encode payment: %w", err)
	}

	var res paymentResource
	if err := c.call(ctx, "create_payment", http.MethodPost, "/payments", apiKey, body, &res); err != nil {
		return nil, err
	}
	return res.toProvider(), nil
}

func (c *Client) GetPayment(ctx context.Context, apiKey, paymentID string) (*uspayment.ProviderPayment, error) {
	var res paymentResource
	if err := c.call(ctx, "get_payment", http.MethodGet, "/payments/"+url.PathEscape(paymentID), apiKey, nil, &res); err != nil {
		return nil, err
	}
	return res.toProvider(), nil
}

func (c *Client) call(ctx context.Context, op, method, path, apiKey string, body []byte, out any) error {
	start := time.Now()
	res, err := c.breaker.Execute(func() (*response, error) {
		return c.do(ctx, op, method, path, apiKey, body)
	})
	observe(op, start, err)

	logger := logging.FromContext(ctx)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &dompayment.GatewayError{Op: op, Err: err}
		}
		logger.Warn("payment_provider_call_failed", zap.String("op", op), zap.Error(err))
		return err
	}

	if err := json.Unmarshal(res.body, out); err != nil {
		logger.Warn("payment_provider_bad_response", zap.String("op", op), zap.Error(err))
		return &dompayment.GatewayError{Op: op, StatusCode: res.status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path, apiKey string, body []byte) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &dompayment.GatewayError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &dompayment.GatewayError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &dompayment.GatewayError{Op: op, StatusCode: resp.StatusCode, Body: string(b)}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &dompayment.GatewayError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return &response{status: resp.StatusCode, body: b}, nil
}
