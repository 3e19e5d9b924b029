package cart

import "errors"

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrItemNotFound = errors.New("cart item not found")
	ErrInvalidItem  = errors.New("invalid cart item")
	ErrCorruptCart  = errors.New("stored cart is malformed")
	ErrCartMissing  = errors.New("no stored cart")
	ErrPersist      = errors.New("cart could not be saved")

	ErrLimitExceeded = errors.New("cart limit exceeded")
)
