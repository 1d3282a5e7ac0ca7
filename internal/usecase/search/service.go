package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
	"github.com/kailas-cloud/tagrank/internal/domain/ranking"
	"github.com/kailas-cloud/tagrank/internal/domain/search/mode"
	"github.com/kailas-cloud/tagrank/internal/domain/search/request"
	"github.com/kailas-cloud/tagrank/internal/domain/search/result"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
	"github.com/kailas-cloud/tagrank/internal/logger"
	"github.com/kailas-cloud/tagrank/internal/metrics"
)

// HighConfidenceThreshold separates the labels reported as high-confidence.
const HighConfidenceThreshold = 0.5

// Fallback reasons.
const (
	reasonDisabled = "disabled"
	reasonError    = "error"
	reasonEmpty    = "empty"
)

// Response is the outcome of one search.
type Response struct {
	Results []result.Result
	Mode    mode.Mode
	// Labels are the normalized classifier weights; nil outside classifier mode.
	Labels tag.Weights
	// HighConfidence lists labels above HighConfidenceThreshold, strongest first.
	HighConfidence []tag.Score
}

// Service ranks the catalog against a query.
type Service struct {
	catalog    Catalog
	classifier Classifier
	scorer     *ranking.Scorer
	fallback   *ranking.FallbackScorer
	policy     tag.CollisionPolicy
}

// New creates a search service. classifier may be nil, in which case every
// search uses substring matching.
func New(
	catalog Catalog, classifier Classifier,
	scorer *ranking.Scorer, fallback *ranking.FallbackScorer, policy tag.CollisionPolicy,
) *Service {
	return &Service{
		catalog:    catalog,
		classifier: classifier,
		scorer:     scorer,
		fallback:   fallback,
		policy:     policy,
	}
}

// ClassifierEnabled reports whether a classifier is wired in.
func (s *Service) ClassifierEnabled() bool { return s.classifier != nil }

// Search ranks the current catalog snapshot. Classifier failures never reach
// the caller: they degrade the search to substring matching.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	start := time.Now()
	products := s.catalog.Snapshot()

	resp := s.search(ctx, req, products)

	m := string(resp.Mode)
	metrics.SearchesTotal.WithLabelValues(m).Inc()
	metrics.SearchDuration.WithLabelValues(m).Observe(time.Since(start).Seconds())

	logger.FromContext(ctx).Debug("Search completed",
		zap.String("mode", m),
		zap.Int("catalog_size", len(products)),
		zap.Int("results", len(resp.Results)),
		zap.Int("labels", len(resp.Labels)),
	)
	return resp, nil
}

func (s *Service) search(ctx context.Context, req *request.Request, products []product.Product) Response {
	if req.IsBlank() {
		return Response{Results: ranking.Head(products, req.TopK()), Mode: mode.Unranked}
	}

	opts := ranking.Options{TopK: req.TopK()}
	constraints := req.Constraints()
	if req.PreferCategory() {
		opts.PreferCategory = constraints.CategoryTag
	}

	if s.classifier == nil {
		return s.fallbackSearch(req, products, opts, reasonDisabled)
	}

	pred, err := s.classifier.Predict(ctx, req.Query())
	if err != nil {
		logger.FromContext(ctx).Warn("Classifier failed, using text matching", zap.Error(err))
		return s.fallbackSearch(req, products, opts, reasonError)
	}

	weights := tag.NormalizePredictions(pred.Scores, s.policy)
	if len(weights) == 0 {
		return s.fallbackSearch(req, products, opts, reasonEmpty)
	}

	results := ranking.Rank(products, func(p *product.Product) (float64, []string) {
		b := s.scorer.Explain(p, weights, constraints)
		return b.Total(), b.Reasons()
	}, opts)

	return Response{
		Results:        results,
		Mode:           mode.Classifier,
		Labels:         weights,
		HighConfidence: weights.Above(HighConfidenceThreshold),
	}
}

func (s *Service) fallbackSearch(
	req *request.Request, products []product.Product, opts ranking.Options, reason string,
) Response {
	metrics.ClassifierFallbacksTotal.WithLabelValues(reason).Inc()

	q := strings.TrimSpace(req.Query())
	results := ranking.Rank(products, func(p *product.Product) (float64, []string) {
		v := s.fallback.Score(p, q)
		if v == 0 {
			return 0, nil
		}
		return v, []string{"text_match"}
	}, opts)

	return Response{Results: results, Mode: mode.Fallback}
}
