package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/query"
	"github.com/kailas-cloud/tagrank/internal/domain/search/request"
	"github.com/kailas-cloud/tagrank/internal/domain/search/result"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
	domusage "github.com/kailas-cloud/tagrank/internal/domain/usage"
	"github.com/kailas-cloud/tagrank/internal/logger"
	cataloguc "github.com/kailas-cloud/tagrank/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/tagrank/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tagrank/internal/usecase/search"
	usageuc "github.com/kailas-cloud/tagrank/internal/usecase/usage"
)

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchDefaults apply when a request leaves a parameter out.
type SearchDefaults struct {
	TopK           int
	PreferCategory bool
}

// Server serves the search API.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	usage         *usageuc.Service
	defaults      SearchDefaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	usage *usageuc.Service,
	defaults SearchDefaults,
	logger *zap.Logger,
) *Server {
	if defaults.TopK <= 0 {
		defaults.TopK = request.DefaultTopK
	}
	s := &Server{
		search:   search,
		catalog:  catalog,
		health:   health,
		usage:    usage,
		defaults: defaults,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, ErrorCodeCatalogUnavailable),
		sentinelHandler(domain.ErrClassifierProviderError, http.StatusBadGateway, ErrorCodeClassifierError),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
	}
	return s
}

// SearchGet handles GET /search.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request, params SearchParams) {
	parsed := query.Parsed{
		Category: deref(params.Categoria),
		Intent:   deref(params.Intencion),
		Brand:    deref(params.Marca),
	}
	if params.Atributos != nil {
		parsed.Attributes = *params.Atributos
	}
	s.runSearch(w, r, deref(params.Q), params.TopK, parsed, params.PreferCategory)
}

// SearchPost handles POST /search.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var parsed query.Parsed
	if req.Parsed != nil {
		parsed = *req.Parsed
	}
	s.runSearch(w, r, req.Query, req.TopK, parsed, req.PreferCategory)
}

func (s *Server) runSearch(
	w http.ResponseWriter, r *http.Request,
	text string, topK *int, parsed query.Parsed, preferCategory *bool,
) {
	k := s.defaults.TopK
	if topK != nil {
		if *topK < 0 || *topK > request.MaxTopK {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("top_k must be between 0 and %d", request.MaxTopK))
			return
		}
		k = *topK
	}
	prefer := s.defaults.PreferCategory
	if preferCategory != nil {
		prefer = *preferCategory
	}

	req, err := request.New(text, k, parsed, prefer)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("X-Search-Mode", string(resp.Mode))
	writeJSON(w, http.StatusOK, searchResponseToAPI(&resp))
}

// ReloadCatalog handles POST /catalog/reload.
func (s *Server) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	info, err := s.catalog.Reload(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogInfoToAPI(info))
}

// GetCatalog handles GET /catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	info := s.catalog.Info()
	if info.LoadedAt.IsZero() {
		s.handleDomainError(w, r, domain.ErrCatalogUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, catalogInfoToAPI(info))
}

// HealthCheck handles GET /health. Only a missing catalog answers 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:              string(report.Status),
		Checks:              checks,
		ClassifierAvailable: report.ClassifierAvailable,
	})
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request, params UsageParams) {
	period, err := domusage.ParsePeriod(deref(params.Period))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageReportToAPI(&report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Invalid requests keep their detail: it describes the caller's input, not the server.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrCatalogUnavailable,
		domain.ErrClassifierProviderError,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func searchResponseToAPI(resp *searchuc.Response) SearchResponse {
	items := make([]SearchResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = searchResultToAPI(&resp.Results[i])
	}

	out := SearchResponse{
		Mode:           string(resp.Mode),
		Items:          items,
		Total:          len(items),
		HighConfidence: labelsToAPI(resp.HighConfidence),
	}
	if len(resp.Labels) > 0 {
		out.Labels = labelsToAPI(resp.Labels.Sorted())
	}
	return out
}

func searchResultToAPI(r *result.Result) SearchResultItem {
	p := r.Product()
	return SearchResultItem{
		ID:            p.ID(),
		Title:         p.Title(),
		Brand:         p.Brand(),
		Categories:    p.Categories(),
		CategoryTag:   p.CategoryTag(),
		IntentTag:     p.IntentTag(),
		AttributeTags: p.AttributeTags(),
		ListPrice:     p.ListPrice(),
		SalePrice:     p.SalePrice(),
		Score:         roundScore(r.Score()),
		Reasons:       r.Reasons(),
	}
}

func labelsToAPI(scores []tag.Score) []Label {
	if len(scores) == 0 {
		return nil
	}
	out := make([]Label, len(scores))
	for i, sc := range scores {
		out[i] = Label{Label: sc.Label, Score: sc.Weight}
	}
	return out
}

func usageReportToAPI(r *domusage.Report) UsageResponse {
	out := UsageResponse{
		Period:      string(r.Period()),
		Provider:    r.Provider(),
		PeriodStart: r.Start(),
		ResetsAt:    r.ResetsAt(),
		TokensUsed:  r.Used(),
		Exhausted:   r.Exhausted(),
	}
	if !r.Unlimited() {
		limit, remaining := r.Limit(), r.Remaining()
		out.TokensLimit = &limit
		out.TokensRemaining = &remaining
	}
	return out
}

func catalogInfoToAPI(info cataloguc.Info) CatalogResponse {
	return CatalogResponse{Source: info.Source, Products: info.Size, LoadedAt: info.LoadedAt}
}

// roundScore trims float noise such as 8.399999999 from the wire format.
func roundScore(v float64) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 6, 64), 64)
	if err != nil {
		return v
	}
	return f
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
