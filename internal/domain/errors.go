package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals invalid search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrClassifierProviderError signals a classifier provider failure.
	ErrClassifierProviderError = errors.New("classifier provider error")
	// ErrClassifierQuotaExceeded signals that the classifier token budget is spent.
	ErrClassifierQuotaExceeded = errors.New("classifier quota exceeded")
	// ErrMalformedCatalogRow signals a catalog record with missing or invalid fields.
	ErrMalformedCatalogRow = errors.New("malformed catalog row")
	// ErrMalformedAttributeEncoding signals an attribute list that cannot be parsed.
	ErrMalformedAttributeEncoding = errors.New("malformed attribute encoding")
	// ErrCatalogUnavailable signals that no catalog source could be loaded.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)

// RowError wraps ErrMalformedCatalogRow with the offending row and field.
type RowError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: row %d, field %q", ErrMalformedCatalogRow.Error(), e.Row, e.Field)
	}
	return fmt.Sprintf("%s: row %d, field %q: %v", ErrMalformedCatalogRow.Error(), e.Row, e.Field, e.Err)
}

// Is reports ErrMalformedCatalogRow so callers can match on the sentinel.
func (e *RowError) Is(target error) bool { return target == ErrMalformedCatalogRow }

func (e *RowError) Unwrap() error { return e.Err }

// NewRowError creates a malformed row error.
func NewRowError(row int, field string, err error) error {
	return &RowError{Row: row, Field: field, Err: err}
}
