package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrCatalogFormat   = errors.New("catalog is not a JSON array of products")
)
