package tagrank

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	catalogrepo "github.com/kailas-cloud/tagrank/internal/repository/catalog"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

type engineConfig struct {
	catalog  catalogrepo.Spec
	products []Product
	static   bool

	classifier Classifier
	timeout    time.Duration

	preset         string
	policy         string
	topK           int
	preferCategory bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithProducts serves an in-memory catalog. Reload keeps it as is.
func WithProducts(products []Product) Option {
	return optionFunc(func(c *engineConfig) {
		c.products = products
		c.static = true
	})
}

// WithCatalogFile loads the catalog from a CSV file, or JSON / JSON Lines
// when the extension is .json or .jsonl. Reload reads the file again.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *engineConfig) {
		kind := catalogrepo.KindCSV
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".jsonl", ".ndjson":
			kind = catalogrepo.KindJSON
		}
		c.catalog = catalogrepo.Spec{Kind: kind, Path: path}
		c.static = false
	})
}

// WithPostgresCatalog loads the catalog with a SELECT on a Postgres database.
// An empty query uses the default products table layout.
func WithPostgresCatalog(dsn, query string) Option {
	return optionFunc(func(c *engineConfig) {
		c.catalog = catalogrepo.Spec{Kind: catalogrepo.KindPostgres, DSN: dsn, Query: query}
		c.static = false
	})
}

// WithSampleCatalog serves the built-in five-product demo catalog.
func WithSampleCatalog() Option {
	return optionFunc(func(c *engineConfig) {
		c.catalog = catalogrepo.Spec{Kind: catalogrepo.KindSample}
		c.static = false
	})
}

// WithClassifier sets the query classifier. Without one every search uses text matching.
func WithClassifier(cl Classifier) Option {
	return optionFunc(func(c *engineConfig) {
		c.classifier = cl
	})
}

// WithClassifierTimeout bounds each classifier call. Default: no deadline
// beyond the caller's context.
func WithClassifierTimeout(d time.Duration) Option {
	return optionFunc(func(c *engineConfig) {
		c.timeout = d
	})
}

// WithPreset selects the scoring weights: default, recommender, storefront or combined.
func WithPreset(name string) Option {
	return optionFunc(func(c *engineConfig) {
		c.preset = name
	})
}

// WithCollisionPolicy decides how labels that normalize alike are merged:
// last_wins (default), max or sum.
func WithCollisionPolicy(policy string) Option {
	return optionFunc(func(c *engineConfig) {
		c.policy = policy
	})
}

// WithDefaultTopK sets the result count for queries that leave TopK unset. Default: 5.
func WithDefaultTopK(k int) Option {
	return optionFunc(func(c *engineConfig) {
		c.topK = k
	})
}

// WithPreferCategory turns category preference on for every query.
func WithPreferCategory() Option {
	return optionFunc(func(c *engineConfig) {
		c.preferCategory = true
	})
}

// WithLogger enables structured logging for engine operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *engineConfig) {
		c.logger = l
	})
}

// WithPrometheus registers engine metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *engineConfig) {
		c.metricsReg = reg
	})
}
