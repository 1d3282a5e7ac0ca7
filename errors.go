package tagrank

import "github.com/kailas-cloud/tagrank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest          = domain.ErrInvalidRequest
	ErrCatalogUnavailable      = domain.ErrCatalogUnavailable
	ErrMalformedCatalogRow     = domain.ErrMalformedCatalogRow
	ErrClassifierProviderError = domain.ErrClassifierProviderError
	ErrClassifierQuotaExceeded = domain.ErrClassifierQuotaExceeded
)
