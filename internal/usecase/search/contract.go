package search

import (
	"context"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/product"
)

// Catalog returns the current immutable product snapshot.
type Catalog interface {
	Snapshot() []product.Product
}

// Classifier labels free-text queries.
type Classifier interface {
	Predict(ctx context.Context, text string) (domain.Prediction, error)
}
