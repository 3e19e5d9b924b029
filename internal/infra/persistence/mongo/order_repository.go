package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	domorder "example.com/gameshop/internal/domain/order"
	dompayment "example.com/gameshop/internal/domain/payment"
)

const collectionName = "orders"

type lineItemDoc struct {
	Title      string `bson:"title"`
	PriceCents int64  `bson:"price_cents"`
	Quantity   int64  `bson:"qty"`
	Image      string `bson:"image,omitempty"`
	Slug       string `bson:"slug"`
	Category   string `bson:"category,omitempty"`
}

type orderDoc struct {
	PaymentID     string         `bson:"_id"`
	Status        string         `bson:"status"`
	AmountCents   int64          `bson:"amount_cents"`
	Currency      string         `bson:"currency"`
	Items         []lineItemDoc  `bson:"items"`
	Customer      map[string]any `bson:"customer"`
	CustomerEmail string         `bson:"customer_email,omitempty"`
	CreatedAt     time.Time      `bson:"created_at"`
}

func toDoc(o *domorder.Order) orderDoc {
	items := make([]lineItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, lineItemDoc(it))
	}
	customer := map[string]any(o.Customer)
	if customer == nil {
		customer = map[string]any{}
	}
	return orderDoc{
		PaymentID:     o.PaymentID,
		Status:        string(o.Status),
		AmountCents:   o.AmountCents,
		Currency:      o.Currency,
		Items:         items,
		Customer:      customer,
		CustomerEmail: o.CustomerEmail,
		CreatedAt:     o.CreatedAt.UTC(),
	}
}

func (d orderDoc) toOrder() *domorder.Order {
	items := make([]dompayment.LineItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, dompayment.LineItem(it))
	}
	customer := dompayment.Customer(d.Customer)
	if customer == nil {
		customer = dompayment.Customer{}
	}
	return &domorder.Order{
		PaymentID:     d.PaymentID,
		Status:        dompayment.Status(d.Status),
		AmountCents:   d.AmountCents,
		Currency:      d.Currency,
		Items:         items,
		Customer:      customer,
		CustomerEmail: d.CustomerEmail,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

// OrderRepository keeps one document per payment, keyed by the payment id.
type OrderRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewOrderRepository(client *mongo.Client, database string) *OrderRepository {
	return &OrderRepository{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
	}
}

// SaveIfAbsent upserts with $setOnInsert, so a redelivered payment never
// overwrites the stored order.
func (r *OrderRepository) SaveIfAbsent(ctx context.Context, o *domorder.Order) (bool, error) {
	if o.PaymentID == "" {
		return false, domorder.ErrMissingPaymentID
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": o.PaymentID},
		bson.M{"$setOnInsert": toDoc(o)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

func (r *OrderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domorder.Order, error) {
	var doc orderDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": paymentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domorder.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toOrder(), nil
}

func (r *OrderRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}
