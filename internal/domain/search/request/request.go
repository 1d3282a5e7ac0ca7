package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/query"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 5
	MaxTopK        = 500
)

// Request is a validated search query.
type Request struct {
	text           string
	topK           int
	parsed         query.Parsed
	preferCategory bool
}

// New validates search parameters.
// A blank query is valid (unranked listing). topK <= 0 yields no results;
// values above MaxTopK are clamped.
func New(text string, topK int, parsed query.Parsed, preferCategory bool) (Request, error) {
	if len(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if topK < 0 {
		topK = 0
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	return Request{
		text:           text,
		topK:           topK,
		parsed:         parsed,
		preferCategory: preferCategory,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.text }

// IsBlank reports whether the query is empty or whitespace only.
func (r *Request) IsBlank() bool { return strings.TrimSpace(r.text) == "" }

// TopK returns the maximum number of results.
func (r *Request) TopK() int { return r.topK }

// Parsed returns the structured query fields.
func (r *Request) Parsed() query.Parsed { return r.parsed }

// Constraints returns the soft ranking constraints built from Parsed.
func (r *Request) Constraints() query.Constraints { return query.BuildConstraints(r.parsed) }

// PreferCategory reports whether ranking is restricted to the requested category
// when it has enough products.
func (r *Request) PreferCategory() bool { return r.preferCategory }
