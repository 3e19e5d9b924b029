package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dom "example.com/gameshop/internal/domain/product"
)

type mockRepository struct {
	products []dom.Product
	listErr  error
	calls    int
}

func (m *mockRepository) List(ctx context.Context) ([]dom.Product, error) {
	m.calls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]dom.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func newCatalog() *mockRepository {
	return &mockRepository{products: []dom.Product{
		{Title: "Super Mario Odyssey", Price: decimal.RequireFromString("39.99"), Category: "Switch"},
		{Title: "Pokémon Sword", Price: decimal.RequireFromString("35"), Category: "Switch"},
		{Title: "The Last of Us", Price: decimal.RequireFromString("15"), Category: "PS4"},
		{Title: "Controller", Price: decimal.RequireFromString("20")},
	}}
}

func TestList_FetchesFreshEachTime(t *testing.T) {
	repo := newCatalog()
	svc := NewService(repo)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, repo.calls)
}

func TestList_PropagatesErrors(t *testing.T) {
	repo := &mockRepository{listErr: errors.New("404 not found")}
	svc := NewService(repo)

	products, err := svc.List(context.Background())

	require.Error(t, err)
	require.Contains(t, err.Error(), "load catalog")
	require.Nil(t, products)
}

func TestFindBySlug(t *testing.T) {
	svc := NewService(newCatalog())

	p, err := svc.FindBySlug(context.Background(), "pokemon-sword")
	require.NoError(t, err)
	require.Equal(t, "Pokémon Sword", p.Title)

	_, err = svc.FindBySlug(context.Background(), "zelda")
	require.ErrorIs(t, err, dom.ErrProductNotFound)

	_, err = svc.FindBySlug(context.Background(), "")
	require.ErrorIs(t, err, dom.ErrProductNotFound)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter dom.ListFilter
		want   []string
	}{
		{name: "empty matches all", filter: dom.ListFilter{}, want: []string{"Super Mario Odyssey", "Pokémon Sword", "The Last of Us", "Controller"}},
		{name: "query case insensitive", filter: dom.ListFilter{Search: "MARIO"}, want: []string{"Super Mario Odyssey"}},
		{name: "category exact", filter: dom.ListFilter{Category: "Switch"}, want: []string{"Super Mario Odyssey", "Pokémon Sword"}},
		{name: "query and category", filter: dom.ListFilter{Search: "the", Category: "PS4"}, want: []string{"The Last of Us"}},
		{name: "no match", filter: dom.ListFilter{Search: "mario", Category: "PS4"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newCatalog())

			products, err := svc.Filter(context.Background(), tt.filter)

			require.NoError(t, err)
			titles := make([]string, 0, len(products))
			for _, p := range products {
				titles = append(titles, p.Title)
			}
			require.Equal(t, tt.want, titles)
		})
	}
}

func TestCategories_SortedWithFallbackLabel(t *testing.T) {
	svc := NewService(newCatalog())

	cats, err := svc.Categories(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"Overig", "PS4", "Switch"}, cats)
}
