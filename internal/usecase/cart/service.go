package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	domcart "example.com/gameshop/internal/domain/cart"
	"example.com/gameshop/internal/logging"
)

const defaultKeyPrefix = "gse_cart"

// Observer is told the new item count after every cart mutation.
type Observer func(ctx context.Context, cartID string, totalCount int64)

type Option func(*Service)

func WithKeyPrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

type Service struct {
	storage   domcart.Storage
	keyPrefix string
	observers []Observer
}

func NewService(storage domcart.Storage, opts ...Option) *Service {
	s := &Service{
		storage:   storage,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get never fails: a missing, unreadable or malformed cart reads as empty.
func (s *Service) Get(ctx context.Context, cartID string) domcart.Cart {
	data, err := s.storage.Load(ctx, s.key(cartID))
	if err != nil {
		if !errors.Is(err, domcart.ErrCartMissing) {
			logging.FromContext(ctx).Warn("cart_read_failed", zap.String("cart_id", cartID), zap.Error(err))
		}
		return domcart.New()
	}
	c, err := domcart.Decode(data)
	if err != nil {
		logging.FromContext(ctx).Warn("cart_decode_failed", zap.String("cart_id", cartID), zap.Error(err))
		return domcart.New()
	}
	return c
}

// Add increments the matching (slug, price) line or appends a new one.
// When saving fails the updated cart is still returned with an ErrPersist error.
func (s *Service) Add(ctx context.Context, cartID string, in domcart.Input) (domcart.Cart, error) {
	if err := in.Validate(); err != nil {
		return s.Get(ctx, cartID), err
	}
	c := s.Get(ctx, cartID)
	if err := c.Add(in); err != nil {
		return c, err
	}
	return c, s.commit(ctx, cartID, c)
}

func (s *Service) SetQuantity(ctx context.Context, cartID string, index int, delta int64) (domcart.Cart, error) {
	c := s.Get(ctx, cartID)
	if err := c.Adjust(index, delta); err != nil {
		return c, err
	}
	return c, s.commit(ctx, cartID, c)
}

func (s *Service) Remove(ctx context.Context, cartID string, index int) (domcart.Cart, error) {
	c := s.Get(ctx, cartID)
	if err := c.Remove(index); err != nil {
		return c, err
	}
	return c, s.commit(ctx, cartID, c)
}

func (s *Service) Clear(ctx context.Context, cartID string) (domcart.Cart, error) {
	c := domcart.New()
	return c, s.commit(ctx, cartID, c)
}

func (s *Service) commit(ctx context.Context, cartID string, c domcart.Cart) error {
	var saveErr error
	data, err := domcart.Encode(c)
	if err != nil {
		saveErr = fmt.Errorf("%w: %w", domcart.ErrPersist, err)
	} else if err := s.storage.Save(ctx, s.key(cartID), data); err != nil {
		saveErr = fmt.Errorf("%w: %w", domcart.ErrPersist, err)
	}

	count := c.TotalCount()
	for _, o := range s.observers {
		o(ctx, cartID, count)
	}
	return saveErr
}

func (s *Service) key(cartID string) string {
	return s.keyPrefix + ":" + cartID
}
