package predcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/db"
	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
)

func TestPredict_CacheMiss(t *testing.T) {
	inner := &mockClassifier{result: domain.Prediction{
		Scores:      []tag.Score{{Label: "CAT_NOTEBOOK", Weight: 0.9}},
		TotalTokens: 42,
	}}
	cc, ms := newTestCachedClassifier(t, inner)

	var setKey string
	var setTTL time.Duration
	var setData []byte
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setData, setTTL = key, value, ttl
		return nil
	}

	pred, err := cc.Predict(context.Background(), "notebook gamer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Cached || pred.TotalTokens != 42 {
		t.Errorf("unexpected prediction: %+v", pred)
	}
	if !strings.HasPrefix(setKey, "tagrank:pred:openai:gpt-4o-mini:") {
		t.Errorf("unexpected key %q", setKey)
	}
	if setTTL != time.Hour {
		t.Errorf("ttl = %v", setTTL)
	}
	if string(setData) != `[{"label":"CAT_NOTEBOOK","score":0.9}]` {
		t.Errorf("stored %s", setData)
	}
}

func TestPredict_CacheHit(t *testing.T) {
	inner := &mockClassifier{}
	cc, ms := newTestCachedClassifier(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte(`[{"label":"INT_GAMING","score":0.8}]`), nil
	}

	pred, err := cc.Predict(context.Background(), "gaming")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pred.Cached || pred.TotalTokens != 0 {
		t.Errorf("expected cached prediction without tokens, got %+v", pred)
	}
	if len(pred.Scores) != 1 || pred.Scores[0].Label != "INT_GAMING" {
		t.Errorf("scores = %+v", pred.Scores)
	}
	if inner.calls != 0 {
		t.Errorf("inner called %d times on hit", inner.calls)
	}
}

func TestPredict_KeyIgnoresCaseAndSpace(t *testing.T) {
	cc, _ := newTestCachedClassifier(t, &mockClassifier{})
	if cc.cacheKey("  Notebook Gamer ") != cc.cacheKey("notebook gamer") {
		t.Error("expected equal keys")
	}
	other := New(&mockClassifier{}, &mockKVStore{}, "tagrank:", "keyword", time.Hour, nil, zap.NewNop())
	if cc.cacheKey("x") == other.cacheKey("x") {
		t.Error("namespaces must not share keys")
	}
}

func TestPredict_InnerError(t *testing.T) {
	inner := &mockClassifier{err: domain.ErrClassifierProviderError}
	cc, ms := newTestCachedClassifier(t, inner)
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		t.Fatal("SET must not be called on error")
		return nil
	}

	_, err := cc.Predict(context.Background(), "q")
	if !errors.Is(err, domain.ErrClassifierProviderError) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestPredict_EmptyNotCached(t *testing.T) {
	cc, ms := newTestCachedClassifier(t, &mockClassifier{})
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		t.Fatal("empty predictions must not be cached")
		return nil
	}
	if _, err := cc.Predict(context.Background(), "???"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPredict_StoreErrorsAreSoft(t *testing.T) {
	inner := &mockClassifier{result: domain.Prediction{Scores: []tag.Score{{Label: "CAT_MONITOR", Weight: 1}}}}
	cc, ms := newTestCachedClassifier(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return nil, &db.Error{Op: db.OpGet, Err: errors.New("connection reset")}
	}
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		return errors.New("READONLY")
	}

	pred, err := cc.Predict(context.Background(), "monitor")
	if err != nil {
		t.Fatalf("store failures must not fail the prediction: %v", err)
	}
	if len(pred.Scores) != 1 {
		t.Errorf("scores = %+v", pred.Scores)
	}
}

func TestPredict_CorruptEntryFallsThrough(t *testing.T) {
	inner := &mockClassifier{result: domain.Prediction{Scores: []tag.Score{{Label: "CAT_MOUSE", Weight: 1}}}}
	cc, ms := newTestCachedClassifier(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return []byte("not json"), nil
	}

	if _, err := cc.Predict(context.Background(), "mouse"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner call, got %d", inner.calls)
	}
}

func TestPredict_CountsHitsAndMisses(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_prediction_cache_total"}, []string{"result"})
	ms := &mockKVStore{}
	inner := &mockClassifier{result: domain.Prediction{Scores: []tag.Score{{Label: "CAT_X", Weight: 1}}}}
	cc := New(inner, ms, "tagrank:", "keyword", time.Hour, counter, zap.NewNop())

	if _, err := cc.Predict(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return []byte(`[{"label":"CAT_X","score":1}]`), nil
	}
	if _, err := cc.Predict(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("misses = %v", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("hits = %v", got)
	}
}
