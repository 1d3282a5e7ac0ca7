package chi

import (
	"time"

	"github.com/kailas-cloud/tagrank/internal/domain/query"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeCatalogUnavailable ErrorCode = "catalog_unavailable"
	ErrorCodeClassifierError    ErrorCode = "classifier_provider_error"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchParams are the GET /search query parameters.
type SearchParams struct {
	Q              *string   `form:"q" json:"q,omitempty"`
	TopK           *int      `form:"top_k" json:"top_k,omitempty"`
	Categoria      *string   `form:"categoria" json:"categoria,omitempty"`
	Intencion      *string   `form:"intencion" json:"intencion,omitempty"`
	Marca          *string   `form:"marca" json:"marca,omitempty"`
	Atributos      *[]string `form:"atributos" json:"atributos,omitempty"`
	PreferCategory *bool     `form:"prefer_category" json:"prefer_category,omitempty"`
}

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Query          string        `json:"query"`
	TopK           *int          `json:"top_k,omitempty"`
	Parsed         *query.Parsed `json:"parsed,omitempty"`
	PreferCategory *bool         `json:"prefer_category,omitempty"`
}

// SearchResultItem is one ranked product.
type SearchResultItem struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Brand         string   `json:"brand,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	CategoryTag   string   `json:"category_tag,omitempty"`
	IntentTag     string   `json:"intent_tag,omitempty"`
	AttributeTags []string `json:"attribute_tags,omitempty"`
	ListPrice     float64  `json:"list_price,omitempty"`
	SalePrice     float64  `json:"sale_price,omitempty"`
	Score         float64  `json:"score"`
	Reasons       []string `json:"reasons,omitempty"`
}

// Label is a normalized classifier label.
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Mode           string             `json:"mode"`
	Items          []SearchResultItem `json:"items"`
	Total          int                `json:"total"`
	Labels         []Label            `json:"labels,omitempty"` // every normalized label, strongest first
	HighConfidence []Label            `json:"high_confidence,omitempty"`
}

// CatalogResponse describes the active catalog snapshot.
type CatalogResponse struct {
	Source   string    `json:"source"`
	Products int       `json:"products"`
	LoadedAt time.Time `json:"loaded_at"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status              string            `json:"status"`
	Checks              map[string]string `json:"checks"`
	ClassifierAvailable bool              `json:"classifier_available"`
}

// UsageParams defines parameters for GET /usage.
type UsageParams struct {
	Period *string `form:"period" json:"period,omitempty"`
}

// UsageResponse reports classifier token usage. Limit and remaining are
// omitted when the budget is unlimited.
type UsageResponse struct {
	Period          string    `json:"period"`
	Provider        string    `json:"provider"`
	PeriodStart     time.Time `json:"period_start"`
	ResetsAt        time.Time `json:"resets_at"`
	TokensUsed      int64     `json:"tokens_used"`
	TokensLimit     *int64    `json:"tokens_limit,omitempty"`
	TokensRemaining *int64    `json:"tokens_remaining,omitempty"`
	Exhausted       bool      `json:"exhausted"`
}
