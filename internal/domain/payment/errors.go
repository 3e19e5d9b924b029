package payment

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey    = errors.New("payment provider API key is not configured")
	ErrInvalidTotal     = errors.New("invalid total")
	ErrInvalidPaymentID = errors.New("invalid payment id")
	ErrGateway          = errors.New("payment gateway error")
	ErrNoCheckoutURL    = errors.New("no checkout URL")
)

// GatewayError describes a failed exchange with the payment provider. StatusCode
// is zero when no HTTP response was received.
type GatewayError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	msg := "payment gateway: " + e.Op
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}
