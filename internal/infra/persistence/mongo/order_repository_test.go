package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	domorder "example.com/gameshop/internal/domain/order"
	dompayment "example.com/gameshop/internal/domain/payment"
)

func TestOrderDoc_BSONRoundTrip(t *testing.T) {
	o := &domorder.Order{
		PaymentID:     "tr_1",
		Status:        dompayment.StatusPaid,
		AmountCents:   5500,
		Currency:      "EUR",
		Items:         []dompayment.LineItem{{Title: "Game A", PriceCents: 2000, Quantity: 2, Slug: "game-a"}},
		Customer:      dompayment.Customer{"email": "a@b.c"},
		CustomerEmail: "a@b.c",
		CreatedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := bson.Marshal(toDoc(o))
	require.NoError(t, err)

	var decoded bson.M
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	require.Equal(t, "tr_1", decoded["_id"])
	require.Equal(t, int64(5500), decoded["amount_cents"])

	var doc orderDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	back := doc.toOrder()
	require.Equal(t, o.Items, back.Items)
	require.Equal(t, "a@b.c", back.Customer.Email())
	require.True(t, o.CreatedAt.Equal(back.CreatedAt))
}

func TestToDoc_NilCustomer(t *testing.T) {
	doc := toDoc(&domorder.Order{PaymentID: "tr_1"})
	require.NotNil(t, doc.Customer)
	require.Empty(t, doc.Items)
}
