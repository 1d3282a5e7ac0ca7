package classify

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterClassifierMetrics()
	os.Exit(m.Run())
}

type mockClassifier struct {
	result   domain.Prediction
	err      error
	calls    int
	deadline time.Time
	hasDL    bool
}

func (m *mockClassifier) Predict(ctx context.Context, _ string) (domain.Prediction, error) {
	m.calls++
	m.deadline, m.hasDL = ctx.Deadline()
	return m.result, m.err
}

type mockBudgetStore struct {
	mu     sync.Mutex
	data   map[string]int64
	getErr error
	setErr error
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{data: make(map[string]int64)}
}

func (m *mockBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] += val
	return nil
}

func (m *mockBudgetStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.data[key], nil
}

func (m *mockBudgetStore) value(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}
