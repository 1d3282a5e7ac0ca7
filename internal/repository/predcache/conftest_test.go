package predcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/db"
	"github.com/kailas-cloud/tagrank/internal/domain"
)

type mockClassifier struct {
	result domain.Prediction
	err    error
	calls  int
}

func (m *mockClassifier) Predict(_ context.Context, _ string) (domain.Prediction, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedClassifier(t *testing.T, inner *mockClassifier) (*CachedClassifier, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cc := New(inner, ms, "tagrank:", "openai:gpt-4o-mini", time.Hour, nil, zap.NewNop())
	return cc, ms
}
