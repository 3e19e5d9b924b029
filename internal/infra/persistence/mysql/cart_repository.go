package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domcart "example.com/gameshop/internal/domain/cart"
)

// CartRepository stores encoded carts in the carts table, one row per key.
type CartRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db, now: time.Now}
}

func (r *CartRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `
        SELECT data
        FROM carts
        WHERE cart_key = ?
    `, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domcart.ErrCartMissing
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *CartRepository) Save(ctx context.Context, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO carts (cart_key, data, updated_at)
        VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)
    `, key, data, r.now().UTC())
	return err
}
