package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domorder "example.com/gameshop/internal/domain/order"
	"example.com/gameshop/internal/infra/persistence/orderrow"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) SaveIfAbsent(ctx context.Context, o *domorder.Order) (bool, error) {
	row, err := orderrow.FromOrder(o)
	if err != nil {
		return false, err
	}

	tag, err := r.pool.Exec(ctx, `
        INSERT INTO orders (payment_id, status, amount_cents, currency, items, customer, customer_email, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (payment_id) DO NOTHING
    `, row.PaymentID, row.Status, row.AmountCents, row.Currency, row.Items, row.Customer, row.CustomerEmail, row.CreatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domorder.Order, error) {
	var row orderrow.Row
	err := r.pool.QueryRow(ctx, `
        SELECT payment_id, status, amount_cents, currency, items, customer, customer_email, created_at
        FROM orders
        WHERE payment_id = $1
    `, paymentID).Scan(&row.PaymentID, &row.Status, &row.AmountCents, &row.Currency, &row.Items, &row.Customer, &row.CustomerEmail, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domorder.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToOrder()
}

func (r *OrderRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
