package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
)

// DefaultPostgresQuery reads the products table. Custom queries must return
// the same column names; every column is read as text.
const DefaultPostgresQuery = `SELECT
	sku_id::text                            AS id,
	title                                   AS title,
	COALESCE(brand_name, '')                AS brand,
	COALESCE(categories::text, '')          AS categories,
	COALESCE(category_tag, '')              AS category_tag,
	COALESCE(intent_tag, '')                AS intent_tag,
	COALESCE(attribute_tags::text, '')      AS attribute_tags,
	COALESCE(atributos_correctos::text, '') AS attribute_record,
	COALESCE(list_price::text, '')          AS list_price,
	COALESCE(sale_price::text, '')          AS sale_price
FROM products
ORDER BY sku_id`

type pgRow struct {
	ID              sql.NullString `db:"id"`
	Title           sql.NullString `db:"title"`
	Brand           sql.NullString `db:"brand"`
	Categories      sql.NullString `db:"categories"`
	CategoryTag     sql.NullString `db:"category_tag"`
	IntentTag       sql.NullString `db:"intent_tag"`
	AttributeTags   sql.NullString `db:"attribute_tags"`
	AttributeRecord sql.NullString `db:"attribute_record"`
	ListPrice       sql.NullString `db:"list_price"`
	SalePrice       sql.NullString `db:"sale_price"`
}

func (r pgRow) row() Row {
	return Row{
		ID:              r.ID.String,
		Title:           r.Title.String,
		Brand:           r.Brand.String,
		Categories:      r.Categories.String,
		CategoryTag:     r.CategoryTag.String,
		IntentTag:       r.IntentTag.String,
		Attributes:      r.AttributeTags.String,
		AttributeRecord: r.AttributeRecord.String,
		ListPrice:       r.ListPrice.String,
		SalePrice:       r.SalePrice.String,
	}
}

// querier is the subset of *sqlx.DB the source needs.
type querier interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	Close() error
}

// PostgresSource reads a catalog table. It connects per load: reloads are rare
// and the service holds no connection between them.
type PostgresSource struct {
	dsn     string
	query   string
	connect func(ctx context.Context, dsn string) (querier, error)
	logger  *zap.Logger
}

// NewPostgresSource creates a Postgres source. An empty query uses DefaultPostgresQuery.
func NewPostgresSource(dsn, query string, logger *zap.Logger) *PostgresSource {
	if query == "" {
		query = DefaultPostgresQuery
	}
	return &PostgresSource{
		dsn:   dsn,
		query: query,
		connect: func(ctx context.Context, dsn string) (querier, error) {
			db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
			if err != nil {
				return nil, err
			}
			// Custom queries may select extra columns.
			return db.Unsafe(), nil
		},
		logger: logger,
	}
}

// Name implements Source.
func (s *PostgresSource) Name() string { return KindPostgres }

// Load implements Source. Columns a custom query omits stay blank.
func (s *PostgresSource) Load(ctx context.Context) ([]product.Product, error) {
	db, err := s.connect(ctx, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect catalog database: %w", err)
	}
	defer func() { _ = db.Close() }()

	var rows []pgRow
	if err := db.SelectContext(ctx, &rows, s.query); err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}

	raw := make([]Row, len(rows))
	for i, r := range rows {
		raw[i] = r.row()
	}
	return decodeAll(KindPostgres, raw, s.logger), nil
}
