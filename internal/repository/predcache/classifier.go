package predcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/db"
	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
)

// store is the consumer interface for the prediction cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedClassifier caches classifier predictions in a key-value store.
// Queries are keyed by their trimmed, lowercased text plus a namespace
// identifying the provider and model, so switching models never serves stale labels.
type CachedClassifier struct {
	inner      domain.Classifier
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// keyPrefix is the storage prefix (e.g. "tagrank:"), namespace distinguishes
// provider and model. cacheTotal has label "result" ("hit"/"miss") and may be nil.
func New(
	inner domain.Classifier,
	s store,
	keyPrefix, namespace string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedClassifier {
	return &CachedClassifier{
		inner:      inner,
		store:      s,
		prefix:     keyPrefix + "pred:" + namespace + ":",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Predict returns cached scores or calls the inner classifier.
// A hit carries no token usage. Empty predictions are not cached.
func (c *CachedClassifier) Predict(ctx context.Context, text string) (domain.Prediction, error) {
	key := c.cacheKey(text)

	if scores, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.Prediction{Scores: scores, Cached: true}, nil
	}

	c.incCache("miss")

	pred, err := c.inner.Predict(ctx, text)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("predict: %w", err)
	}

	if len(pred.Scores) > 0 {
		c.putToCache(ctx, key, pred.Scores)
	}
	return pred, nil
}

func (c *CachedClassifier) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedClassifier) cacheKey(text string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return c.prefix + hex.EncodeToString(h[:])
}

func (c *CachedClassifier) getFromCache(ctx context.Context, key string) ([]tag.Score, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached prediction", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var scores []tag.Score
	if err := json.Unmarshal(data, &scores); err != nil {
		c.logger.Warn("Failed to parse cached prediction", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if len(scores) == 0 {
		return nil, false
	}
	return scores, true
}

func (c *CachedClassifier) putToCache(ctx context.Context, key string, scores []tag.Score) {
	data, err := json.Marshal(scores)
	if err != nil {
		c.logger.Warn("Failed to encode prediction", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache prediction", zap.String("key", key), zap.Error(err))
	}
}
