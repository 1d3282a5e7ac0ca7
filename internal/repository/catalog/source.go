package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
)

// Source names.
const (
	KindCSV      = "csv"
	KindJSON     = "json"
	KindPostgres = "postgres"
	KindSample   = "sample"
)

// maxLoggedIssues caps per-row warnings; the total is always logged.
const maxLoggedIssues = 20

// Source loads a whole catalog.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]product.Product, error)
}

// Spec selects and configures a Source.
type Spec struct {
	Kind  string
	Path  string
	DSN   string
	Query string
}

// Open builds the source described by spec.
func Open(spec Spec, logger *zap.Logger) (Source, error) {
	switch spec.Kind {
	case KindCSV:
		return NewCSVSource(spec.Path, logger), nil
	case KindJSON:
		return NewJSONSource(spec.Path, logger), nil
	case KindPostgres:
		return NewPostgresSource(spec.DSN, spec.Query, logger), nil
	case KindSample, "":
		return SampleSource{}, nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", spec.Kind)
	}
}

// decodeAll decodes rows in order and logs what had to be defaulted.
func decodeAll(source string, rows []Row, logger *zap.Logger) []product.Product {
	products := make([]product.Product, 0, len(rows))
	issues := 0
	for i, r := range rows {
		p, errs := Decode(i+1, r)
		for _, err := range errs {
			if issues < maxLoggedIssues {
				logger.Warn("Catalog row defaulted", zap.String("source", source), zap.Error(err))
			}
			issues++
		}
		products = append(products, p)
	}
	if issues > 0 {
		logger.Warn("Catalog loaded with defaulted fields",
			zap.String("source", source),
			zap.Int("rows", len(rows)),
			zap.Int("issues", issues),
		)
	}
	return products
}
