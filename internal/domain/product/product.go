package product

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is shown for catalog entries without a picture.
const PlaceholderImage = "images/products/IMG_6131.jpeg"

// UncategorizedLabel groups products that carry no category.
const UncategorizedLabel = "Overig"

var absoluteURL = regexp.MustCompile(`(?i)^(https?:)?//`)

type Product struct {
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	Category string          `json:"category,omitempty"`
}

type ListFilter struct {
	Search   string
	Category string
}

// Matches reports whether p passes the filter. Search is a case-insensitive
// substring of the title, category must match exactly.
func (f ListFilter) Matches(p Product) bool {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q != "" && !strings.Contains(strings.ToLower(p.Title), q) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

func (p Product) Slug() string {
	return Slugify(p.Title)
}

// PriceCents converts the major-unit price to minor units, rounding half away from zero.
func (p Product) PriceCents() int64 {
	cents := p.Price.Shift(2).Round(0).IntPart()
	if cents < 0 {
		return 0
	}
	return cents
}

func (p Product) ImageRef() string {
	t := strings.TrimSpace(p.Image)
	if t == "" {
		return PlaceholderImage
	}
	if absoluteURL.MatchString(t) {
		return t
	}
	return strings.TrimLeft(t, "/")
}

func (p Product) CategoryLabel() string {
	if p.Category == "" {
		return UncategorizedLabel
	}
	return p.Category
}
