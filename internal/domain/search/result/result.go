package result

import "github.com/kailas-cloud/tagrank/internal/domain/product"

// Result is a single ranked product.
type Result struct {
	product product.Product
	score   float64
	reasons []string
}

// New creates a ranked result.
func New(p product.Product, score float64, reasons []string) Result {
	return Result{product: p, score: score, reasons: reasons}
}

// Product returns the ranked catalog entry.
func (r *Result) Product() product.Product { return r.product }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// Reasons returns the signals that contributed to the score.
func (r *Result) Reasons() []string { return r.reasons }
