package memory

import (
	"context"
	"sync"

	domorder "example.com/gameshop/internal/domain/order"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domorder.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]domorder.Order)}
}

func (r *OrderRepository) SaveIfAbsent(ctx context.Context, o *domorder.Order) (bool, error) {
	if o.PaymentID == "" {
		return false, domorder.ErrMissingPaymentID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.PaymentID]; ok {
		return false, nil
	}
	r.orders[o.PaymentID] = *o
	return true, nil
}

func (r *OrderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domorder.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[paymentID]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	return &o, nil
}

func (r *OrderRepository) Ping(ctx context.Context) error {
	return nil
}
