package catalog

import (
	"context"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
)

// Source loads a whole catalog.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]product.Product, error)
}
