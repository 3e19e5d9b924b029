package cart

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Limits on a single cart. With them the total of a full cart stays far below
// the int64 range, so TotalMinorUnits cannot wrap.
const (
	MaxQuantity   int64 = 999
	MaxPriceCents int64 = 100_000_000
	MaxLines            = 100
)

// Item is one cart line. Slug and PriceCents together identify the line, so a
// product whose price changed since it was added shows up as a separate line.
type Item struct {
	Title      string `json:"title"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int64  `json:"qty"`
	Image      string `json:"image"`
	Slug       string `json:"slug"`
	Category   string `json:"category"`
}

type Input struct {
	Slug       string
	Title      string
	PriceCents int64
	Image      string
	Category   string
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.Slug) == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidItem)
	}
	if in.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidItem)
	}
	if in.PriceCents > MaxPriceCents {
		return fmt.Errorf("%w: price exceeds %d", ErrInvalidItem, MaxPriceCents)
	}
	return nil
}

// Cart keeps items in insertion order, which is also display order.
type Cart struct {
	Items []Item `json:"items"`
}

func New() Cart {
	return Cart{Items: []Item{}}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) TotalCount() int64 {
	var n int64
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) TotalMinorUnits() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.PriceCents * it.Quantity
	}
	return total
}

// Add increments the line matching (slug, price) or appends a new line with
// quantity 1. The cart is left unchanged when a limit would be exceeded.
func (c *Cart) Add(in Input) error {
	for i := range c.Items {
		if c.Items[i].Slug == in.Slug && c.Items[i].PriceCents == in.PriceCents {
			if c.Items[i].Quantity >= MaxQuantity {
				return fmt.Errorf("%w: at most %d per line", ErrLimitExceeded, MaxQuantity)
			}
			c.Items[i].Quantity++
			return nil
		}
	}
	if len(c.Items) >= MaxLines {
		return fmt.Errorf("%w: at most %d lines", ErrLimitExceeded, MaxLines)
	}
	c.Items = append(c.Items, Item{
		Title:      in.Title,
		PriceCents: in.PriceCents,
		Quantity:   1,
		Image:      in.Image,
		Slug:       in.Slug,
		Category:   in.Category,
	})
	return nil
}

// Adjust applies a relative quantity change; a line that drops to zero or below
// is removed. A change that would push the line past MaxQuantity is rejected.
func (c *Cart) Adjust(index int, delta int64) error {
	if index < 0 || index >= len(c.Items) {
		return ErrItemNotFound
	}
	qty := c.Items[index].Quantity
	if delta > MaxQuantity-qty {
		return fmt.Errorf("%w: at most %d per line", ErrLimitExceeded, MaxQuantity)
	}
	if delta <= -qty {
		c.removeAt(index)
		return nil
	}
	c.Items[index].Quantity = qty + delta
	return nil
}

func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.Items) {
		return ErrItemNotFound
	}
	c.removeAt(index)
	return nil
}

func (c *Cart) Reset() {
	c.Items = []Item{}
}

func (c *Cart) removeAt(index int) {
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
}

func (c Cart) Clone() Cart {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

func Encode(c Cart) ([]byte, error) {
	if c.Items == nil {
		c.Items = []Item{}
	}
	return json.Marshal(c)
}

// Decode parses the stored form of a cart. Lines that break the quantity or
// price invariants, or exceed the cart limits, are dropped rather than failing
// the whole cart.
func Decode(data []byte) (Cart, error) {
	var stored Cart
	if err := json.Unmarshal(data, &stored); err != nil {
		return New(), fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	out := New()
	for _, it := range stored.Items {
		if it.Quantity < 1 || it.Quantity > MaxQuantity || it.PriceCents < 0 || it.PriceCents > MaxPriceCents || it.Slug == "" {
			continue
		}
		if len(out.Items) == MaxLines {
			break
		}
		out.Items = append(out.Items, it)
	}
	return out, nil
}
