package chi

import (
	"fmt"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// BindErrorFunc answers requests whose parameters could not be bound.
type BindErrorFunc func(w http.ResponseWriter, r *http.Request, err error)

// RouterOptions configure Routes.
type RouterOptions struct {
	BaseRouter       chirouter.Router
	ErrorHandlerFunc BindErrorFunc
}

// Routes mounts the API on opts.BaseRouter (a new router when nil) and returns it.
func Routes(s *Server, opts RouterOptions) http.Handler {
	r := opts.BaseRouter
	if r == nil {
		r = chirouter.NewRouter()
	}
	onBindError := opts.ErrorHandlerFunc
	if onBindError == nil {
		onBindError = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		}
	}

	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		params, err := bindSearchParams(r)
		if err != nil {
			onBindError(w, r, err)
			return
		}
		s.SearchGet(w, r, params)
	})
	r.Post("/search", s.SearchPost)
	r.Get("/catalog", s.GetCatalog)
	r.Post("/catalog/reload", s.ReloadCatalog)
	r.Get("/usage", func(w http.ResponseWriter, r *http.Request) {
		var params UsageParams
		err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &params.Period)
		if err != nil {
			onBindError(w, r, fmt.Errorf("invalid format for parameter period: %w", err))
			return
		}
		s.GetUsage(w, r, params)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var params SearchParams
	q := r.URL.Query()

	bindings := []struct {
		name string
		dest any
	}{
		{"q", &params.Q},
		{"top_k", &params.TopK},
		{"categoria", &params.Categoria},
		{"intencion", &params.Intencion},
		{"marca", &params.Marca},
		{"atributos", &params.Atributos},
		{"prefer_category", &params.PreferCategory},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return SearchParams{}, fmt.Errorf("invalid format for parameter %s: %w", b.name, err)
		}
	}
	return params, nil
}
