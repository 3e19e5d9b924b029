package cart

import "context"

// Storage is the key-value store a cart is serialised into. Load returns
// ErrCartMissing when nothing is stored under key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
