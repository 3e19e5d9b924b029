package catalog

import (
	"context"
	"fmt"
	"sort"

	dom "example.com/gameshop/internal/domain/product"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

// List fetches the catalog fresh. Without a catalog nothing else works, so errors propagate.
func (s *Service) List(ctx context.Context) ([]dom.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return products, nil
}

func (s *Service) FindBySlug(ctx context.Context, slug string) (*dom.Product, error) {
	if slug == "" {
		return nil, dom.ErrProductNotFound
	}
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Slug() == slug {
			p := products[i]
			return &p, nil
		}
	}
	return nil, dom.ErrProductNotFound
}

func (s *Service) Filter(ctx context.Context, filter dom.ListFilter) ([]dom.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dom.Product, 0, len(products))
	for _, p := range products {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Categories returns the sorted, de-duplicated category labels of the catalog.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		label := p.CategoryLabel()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return out, nil
}
