package mysql

import (
	"context"
	"database/sql"

	domorder "example.com/gameshop/internal/domain/order"
	"example.com/gameshop/internal/infra/persistence/orderrow"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// SaveIfAbsent relies on the payment_id primary key. The no-op update leaves an
// existing row untouched and reports zero affected rows, which holds only for
// connections opened without clientFoundRows (see Open).
func (r *OrderRepository) SaveIfAbsent(ctx context.Context, o *domorder.Order) (bool, error) {
	row, err := orderrow.FromOrder(o)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, `
        INSERT INTO orders (payment_id, status, amount_cents, currency, items, customer, customer_email, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE payment_id = payment_id
    `, row.PaymentID, row.Status, row.AmountCents, row.Currency, row.Items, row.Customer, row.CustomerEmail, row.CreatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *OrderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domorder.Order, error) {
	var row orderrow.Row
	err := r.db.QueryRowContext(ctx, `
        SELECT payment_id, status, amount_cents, currency, items, customer, customer_email, created_at
        FROM orders
        WHERE payment_id = ?
    `, paymentID).Scan(&row.PaymentID, &row.Status, &row.AmountCents, &row.Currency, &row.Items, &row.Customer, &row.CustomerEmail, &row.CreatedAt)
	if err != nil {
		return nil, orderrow.NotFound(err)
	}
	return row.ToOrder()
}

func (r *OrderRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
