package product

import "context"

// Repository loads the full catalog. Implementations read the source on every call.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
}
