package order

import "errors"

var (
	ErrMissingPaymentID = errors.New("order requires a payment id")
	ErrOrderNotFound    = errors.New("order not found")
)
