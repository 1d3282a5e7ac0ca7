package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/product"
	"github.com/kailas-cloud/tagrank/internal/metrics"
)

// Info describes the active snapshot.
type Info struct {
	Source   string
	Size     int
	LoadedAt time.Time
}

type snapshot struct {
	products []product.Product
	info     Info
}

// Service owns the catalog snapshot. Readers get an immutable slice; reloads
// replace the whole snapshot at once so in-flight searches never see a mix.
type Service struct {
	source   Source
	fallback Source
	current  atomic.Pointer[snapshot]
	reloadMu sync.Mutex
	logger   *zap.Logger
}

// New creates a catalog service. fallback is used only when the first load
// fails and may be nil.
func New(source, fallback Source, logger *zap.Logger) *Service {
	return &Service{source: source, fallback: fallback, logger: logger}
}

// Load performs the startup load, falling back when the primary source fails.
func (s *Service) Load(ctx context.Context) error {
	_, err := s.Reload(ctx)
	if err == nil {
		return nil
	}
	if s.fallback == nil {
		return err
	}

	s.logger.Warn("Primary catalog unavailable, serving fallback",
		zap.String("source", s.source.Name()),
		zap.String("fallback", s.fallback.Name()),
		zap.Error(err),
	)
	if _, ferr := s.load(ctx, s.fallback); ferr != nil {
		return fmt.Errorf("%w: %w", err, ferr)
	}
	return nil
}

// Reload reads the primary source again. On failure the previous snapshot stays.
func (s *Service) Reload(ctx context.Context) (Info, error) {
	return s.load(ctx, s.source)
}

func (s *Service) load(ctx context.Context, src Source) (Info, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	products, err := src.Load(ctx)
	if err != nil {
		metrics.CatalogReloadsTotal.WithLabelValues(src.Name(), "error").Inc()
		return Info{}, fmt.Errorf("%w: %s: %w", domain.ErrCatalogUnavailable, src.Name(), err)
	}

	info := Info{Source: src.Name(), Size: len(products), LoadedAt: time.Now().UTC()}
	s.current.Store(&snapshot{products: products, info: info})

	metrics.CatalogReloadsTotal.WithLabelValues(src.Name(), "ok").Inc()
	metrics.CatalogProducts.Set(float64(len(products)))
	s.logger.Info("Catalog loaded",
		zap.String("source", info.Source),
		zap.Int("products", info.Size),
		zap.Duration("duration", time.Since(start)),
	)
	return info, nil
}

// Snapshot returns the current products. Callers must not modify the slice.
func (s *Service) Snapshot() []product.Product {
	if snap := s.current.Load(); snap != nil {
		return snap.products
	}
	return nil
}

// Info describes the current snapshot; zero before the first load.
func (s *Service) Info() Info {
	if snap := s.current.Load(); snap != nil {
		return snap.info
	}
	return Info{}
}

// HealthCheck fails until a snapshot has been loaded.
func (s *Service) HealthCheck(_ context.Context) error {
	if s.current.Load() == nil {
		return domain.ErrCatalogUnavailable
	}
	return nil
}

// Run reloads every interval until ctx is done. Failures are logged and the
// previous snapshot keeps serving.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil {
				s.logger.Warn("Periodic catalog reload failed", zap.Error(err))
			}
		}
	}
}
