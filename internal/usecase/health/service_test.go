package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockChecker{}, &mockCachePinger{}, &mockChecker{}, true)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"catalog", "cache", "classifier"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
	if !r.ClassifierAvailable {
		t.Error("expected classifier available")
	}
}

func TestCheck_CatalogMissing(t *testing.T) {
	svc := New(&mockChecker{err: errors.New("no snapshot")}, nil, nil, false)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["catalog"] != CheckError {
		t.Errorf("expected catalog %q, got %q", CheckError, r.Checks["catalog"])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockChecker{}, &mockCachePinger{err: errors.New("conn refused")}, &mockChecker{}, true)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
	if !r.ClassifierAvailable {
		t.Error("cache failure must not hide the classifier")
	}
}

func TestCheck_ClassifierError(t *testing.T) {
	svc := New(&mockChecker{}, nil, &mockChecker{err: errors.New("timeout")}, true)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["classifier"] != CheckError {
		t.Errorf("expected classifier %q, got %q", CheckError, r.Checks["classifier"])
	}
	if r.ClassifierAvailable {
		t.Error("expected classifier unavailable")
	}
}

func TestCheck_CatalogAndClassifierFail(t *testing.T) {
	svc := New(&mockChecker{err: errors.New("empty")}, nil, &mockChecker{err: errors.New("down")}, true)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoClassifier(t *testing.T) {
	svc := New(&mockChecker{}, nil, nil, false)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["classifier"]; ok {
		t.Error("classifier check should be absent when classifier is nil")
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
	if r.ClassifierAvailable {
		t.Error("expected classifier unavailable")
	}
}

func TestCheck_ClassifierWithoutHealthCheck(t *testing.T) {
	// keyword classifier: configured, nothing to probe
	svc := New(&mockChecker{}, nil, nil, true)
	r := svc.Check(context.Background())

	if !r.ClassifierAvailable {
		t.Error("expected classifier available")
	}
}
