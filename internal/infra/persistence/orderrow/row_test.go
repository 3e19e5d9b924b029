package orderrow

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domorder "example.com/gameshop/internal/domain/order"
	dompayment "example.com/gameshop/internal/domain/payment"
)

func TestFromOrder_ToOrder(t *testing.T) {
	created := time.Date(2024, 5, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	o := &domorder.Order{
		PaymentID:     "tr_1",
		Status:        dompayment.StatusPaid,
		AmountCents:   5500,
		Currency:      "EUR",
		Items:         []dompayment.LineItem{{Title: "Game A", PriceCents: 2000, Quantity: 2, Slug: "game-a"}},
		Customer:      dompayment.Customer{"email": "a@b.c"},
		CustomerEmail: "a@b.c",
		CreatedAt:     created,
	}

	row, err := FromOrder(o)
	require.NoError(t, err)
	require.JSONEq(t, `[{"title":"Game A","priceCents":2000,"qty":2,"image":"","slug":"game-a","category":""}]`, string(row.Items))
	require.Equal(t, time.UTC, row.CreatedAt.Location())

	back, err := row.ToOrder()
	require.NoError(t, err)
	require.Equal(t, o.Items, back.Items)
	require.Equal(t, "a@b.c", back.Customer.Email())
	require.True(t, created.Equal(back.CreatedAt))
	require.Equal(t, dompayment.StatusPaid, back.Status)
}

func TestFromOrder_NilCollections(t *testing.T) {
	row, err := FromOrder(&domorder.Order{PaymentID: "tr_1"})
	require.NoError(t, err)
	require.Equal(t, "[]", string(row.Items))
	require.Equal(t, "{}", string(row.Customer))
}

func TestFromOrder_MissingPaymentID(t *testing.T) {
	_, err := FromOrder(&domorder.Order{})
	require.ErrorIs(t, err, domorder.ErrMissingPaymentID)
}

func TestToOrder_BadJSON(t *testing.T) {
	_, err := Row{PaymentID: "tr_1", Items: []byte("{")}.ToOrder()
	require.Error(t, err)
}

func TestNotFound(t *testing.T) {
	require.ErrorIs(t, NotFound(sql.ErrNoRows), domorder.ErrOrderNotFound)
	other := errors.New("boom")
	require.Equal(t, other, NotFound(other))
}
