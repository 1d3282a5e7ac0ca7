package tagrank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
	"github.com/kailas-cloud/tagrank/internal/domain/query"
	"github.com/kailas-cloud/tagrank/internal/domain/ranking"
	"github.com/kailas-cloud/tagrank/internal/domain/search/request"
	"github.com/kailas-cloud/tagrank/internal/domain/search/result"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
	catalogrepo "github.com/kailas-cloud/tagrank/internal/repository/catalog"
	cataloguc "github.com/kailas-cloud/tagrank/internal/usecase/catalog"
	classifyuc "github.com/kailas-cloud/tagrank/internal/usecase/classify"
	searchuc "github.com/kailas-cloud/tagrank/internal/usecase/search"
)

// Engine is the tagrank entry point. It is safe for concurrent use;
// Reload swaps the catalog without blocking searches.
type Engine struct {
	catalog        *cataloguc.Service
	search         *searchuc.Service
	topK           int
	preferCategory bool
	obs            *observer
}

// New creates an Engine and loads its catalog.
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{
		preset: ranking.PresetDefault,
		topK:   request.DefaultTopK,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	source, err := catalogSource(cfg)
	if err != nil {
		return nil, err
	}
	weights, err := ranking.Preset(cfg.preset)
	if err != nil {
		return nil, fmt.Errorf("tagrank: %w", err)
	}
	policy, err := tag.ParseCollisionPolicy(cfg.policy)
	if err != nil {
		return nil, fmt.Errorf("tagrank: %w", err)
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var classifier searchuc.Classifier
	if cfg.classifier != nil {
		classifier = classifyuc.NewInstrumentedClassifier(
			toDomain(cfg.classifier), "engine", "", cfg.timeout, nil, zap.NewNop(),
		)
	}

	catalog := cataloguc.New(source, nil, zap.NewNop())
	e := &Engine{
		catalog: catalog,
		search: searchuc.New(catalog, classifier,
			ranking.NewScorer(weights, ranking.DefaultKeywordRules()),
			ranking.NewFallbackScorer(ranking.DefaultFallbackWeights()),
			policy,
		),
		topK:           cfg.topK,
		preferCategory: cfg.preferCategory,
		obs:            obs,
	}

	if _, err := e.Reload(context.Background()); err != nil {
		return nil, err
	}
	return e, nil
}

func catalogSource(cfg *engineConfig) (cataloguc.Source, error) {
	if cfg.static {
		products := make([]product.Product, 0, len(cfg.products))
		for i, p := range cfg.products {
			dp, err := product.New(product.Fields(p))
			if err != nil {
				return nil, fmt.Errorf("tagrank: product %d (%s): %w", i, p.ID, err)
			}
			products = append(products, dp)
		}
		return staticSource(products), nil
	}
	if cfg.catalog.Kind == "" {
		return nil, errors.New("tagrank: catalog required " +
			"(use WithProducts, WithCatalogFile, WithPostgresCatalog or WithSampleCatalog)")
	}
	src, err := catalogrepo.Open(cfg.catalog, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("tagrank: %w", err)
	}
	return src, nil
}

// Search ranks the catalog against q.
func (e *Engine) Search(ctx context.Context, q Query) (Response, error) {
	start := time.Now()
	resp, err := e.doSearch(ctx, q)
	e.obs.observe("search", start, err, "mode", string(resp.Mode), "results", len(resp.Results))
	if err == nil {
		e.obs.searched(resp.Mode)
	}
	return resp, err
}

func (e *Engine) doSearch(ctx context.Context, q Query) (Response, error) {
	topK := e.topK
	if q.TopK != nil {
		topK = *q.TopK
	}
	req, err := request.New(q.Text, topK, query.Parsed{
		Category:   q.Category,
		Intent:     q.Intent,
		Brand:      q.Brand,
		Attributes: q.Attributes,
	}, q.PreferCategory || e.preferCategory)
	if err != nil {
		return Response{}, fmt.Errorf("tagrank: %w", err)
	}

	resp, err := e.search.Search(ctx, &req)
	if err != nil {
		return Response{}, fmt.Errorf("tagrank: search: %w", err)
	}

	results := make([]Result, len(resp.Results))
	for i := range resp.Results {
		results[i] = resultFromDomain(&resp.Results[i])
	}
	return Response{
		Mode:           Mode(resp.Mode),
		Results:        results,
		Labels:         labelsFromWeights(resp.Labels),
		HighConfidence: fromScores(resp.HighConfidence),
	}, nil
}

// Reload reads the catalog source again and returns the new size.
// On failure the previous catalog keeps serving.
func (e *Engine) Reload(ctx context.Context) (int, error) {
	start := time.Now()
	info, err := e.catalog.Reload(ctx)
	e.obs.observe("reload", start, err, "products", info.Size)
	if err != nil {
		return 0, fmt.Errorf("tagrank: %w", err)
	}
	e.obs.catalogSize(info.Size)
	return info.Size, nil
}

// Size returns the number of products in the current catalog.
func (e *Engine) Size() int {
	return len(e.catalog.Snapshot())
}

// Products returns a copy of the current catalog.
func (e *Engine) Products() []Product {
	snap := e.catalog.Snapshot()
	out := make([]Product, len(snap))
	for i := range snap {
		out[i] = productFromDomain(&snap[i])
	}
	return out
}

func resultFromDomain(r *result.Result) Result {
	p := r.Product()
	return Result{
		Product: productFromDomain(&p),
		Score:   r.Score(),
		Reasons: r.Reasons(),
	}
}

func productFromDomain(p *product.Product) Product {
	return Product{
		ID:            p.ID(),
		Title:         p.Title(),
		Brand:         p.Brand(),
		Categories:    append([]string(nil), p.Categories()...),
		CategoryTag:   p.CategoryTag(),
		IntentTag:     p.IntentTag(),
		AttributeTags: append([]string(nil), p.AttributeTags()...),
		ListPrice:     p.ListPrice(),
		SalePrice:     p.SalePrice(),
	}
}

// staticSource serves products supplied in memory.
type staticSource []product.Product

func (staticSource) Name() string { return "static" }

func (s staticSource) Load(_ context.Context) ([]product.Product, error) {
	return s, nil
}
