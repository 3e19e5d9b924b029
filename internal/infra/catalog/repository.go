package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	domproduct "example.com/gameshop/internal/domain/product"
)

const maxCatalogBytes = 8 << 20

// NewRepository picks an HTTP source for http(s) URLs and a file source otherwise.
func NewRepository(source string, client *http.Client, timeout time.Duration) domproduct.Repository {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewHTTPRepository(source, client, timeout)
	}
	return NewFileRepository(source)
}

type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) List(ctx context.Context) ([]domproduct.Product, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", r.path, err)
	}
	return decode(data)
}

type HTTPRepository struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

func NewHTTPRepository(url string, client *http.Client, timeout time.Duration) *HTTPRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRepository{client: client, url: url, timeout: timeout}
}

func (r *HTTPRepository) List(ctx context.Context) ([]domproduct.Product, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}
	return decode(data)
}

func decode(data []byte) ([]domproduct.Product, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return nil, domproduct.ErrCatalogFormat
	}
	var products []domproduct.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", domproduct.ErrCatalogFormat, err)
	}
	return products, nil
}
