package ranking

import (
	"sort"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
	"github.com/kailas-cloud/tagrank/internal/domain/search/result"
)

// ScoreFunc scores one product and names the signals behind the score.
type ScoreFunc func(p *product.Product) (float64, []string)

// Options controls candidate selection and truncation.
type Options struct {
	TopK int
	// PreferCategory, when set, restricts ranking to products of that category
	// tag, but only if at least TopK of them exist.
	PreferCategory string
}

// Rank scores every candidate and returns the best TopK, highest score first.
// Equal scores keep catalog order. TopK <= 0 returns an empty slice.
func Rank(products []product.Product, score ScoreFunc, opts Options) []result.Result {
	if opts.TopK <= 0 || len(products) == 0 {
		return []result.Result{}
	}

	candidates := products
	if opts.PreferCategory != "" {
		if sub := inCategory(products, opts.PreferCategory); len(sub) >= opts.TopK {
			candidates = sub
		}
	}

	out := make([]result.Result, len(candidates))
	for i := range candidates {
		s, reasons := score(&candidates[i])
		out[i] = result.New(candidates[i], s, reasons)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})

	if len(out) > opts.TopK {
		out = out[:opts.TopK]
	}
	return out
}

// Head returns the first topK products unscored, in catalog order.
func Head(products []product.Product, topK int) []result.Result {
	if topK <= 0 {
		return []result.Result{}
	}
	if topK > len(products) {
		topK = len(products)
	}
	out := make([]result.Result, topK)
	for i := 0; i < topK; i++ {
		out[i] = result.New(products[i], 0, nil)
	}
	return out
}

func inCategory(products []product.Product, category string) []product.Product {
	var sub []product.Product
	for i := range products {
		if products[i].CategoryTag() == category {
			sub = append(sub, products[i])
		}
	}
	return sub
}
