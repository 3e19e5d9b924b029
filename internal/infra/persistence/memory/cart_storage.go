package memory

import (
	"context"
	"sync"

	domcart "example.com/gameshop/internal/domain/cart"
)

// CartStorage is a process-local cart store. Carts do not survive a restart.
type CartStorage struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewCartStorage() *CartStorage {
	return &CartStorage{carts: make(map[string][]byte)}
}

func (s *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.carts[key]
	if !ok {
		return nil, domcart.ErrCartMissing
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *CartStorage) Save(ctx context.Context, key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)
	s.mu.Lock()
	s.carts[key] = stored
	s.mu.Unlock()
	return nil
}
