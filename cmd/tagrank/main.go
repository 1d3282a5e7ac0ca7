package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/config"
	"github.com/kailas-cloud/tagrank/internal/db"
	dbRedis "github.com/kailas-cloud/tagrank/internal/db/redis"
	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/ranking"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
	logpkg "github.com/kailas-cloud/tagrank/internal/logger"
	"github.com/kailas-cloud/tagrank/internal/metrics"
	budgetrepo "github.com/kailas-cloud/tagrank/internal/repository/budget"
	catalogrepo "github.com/kailas-cloud/tagrank/internal/repository/catalog"
	"github.com/kailas-cloud/tagrank/internal/repository/predcache"
	chiTransport "github.com/kailas-cloud/tagrank/internal/transport/chi"
	openaiCls "github.com/kailas-cloud/tagrank/internal/transport/openai"
	cataloguc "github.com/kailas-cloud/tagrank/internal/usecase/catalog"
	classifyuc "github.com/kailas-cloud/tagrank/internal/usecase/classify"
	healthuc "github.com/kailas-cloud/tagrank/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tagrank/internal/usecase/search"
	usageuc "github.com/kailas-cloud/tagrank/internal/usecase/usage"
	"github.com/kailas-cloud/tagrank/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tagrank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("classifier", cfg.Classifier.Provider),
		zap.String("ranking_preset", cfg.Ranking.Preset),
	)

	metrics.RegisterClassifierMetrics()
	metrics.RegisterSearchMetrics()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Redis is optional: it backs the prediction cache and budget counters.
	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		store = connectStore(ctx, cfg, logger)
		defer store.Close()
	}

	// Catalog
	source, err := catalogrepo.Open(catalogrepo.Spec{
		Kind:  cfg.Catalog.Source,
		Path:  cfg.Catalog.Path,
		DSN:   cfg.Catalog.DSN,
		Query: cfg.Catalog.Query,
	}, logger)
	if err != nil {
		logger.Fatal("Invalid catalog source", zap.Error(err))
	}
	var fallback cataloguc.Source
	if !cfg.Catalog.DisableSampleFallback && cfg.Catalog.Source != catalogrepo.KindSample {
		fallback = catalogrepo.SampleSource{}
	}
	catalogSvc := cataloguc.New(source, fallback, logger)
	if err := catalogSvc.Load(ctx); err != nil {
		logger.Fatal("Catalog not loaded", zap.Error(err))
	}
	if interval := time.Duration(cfg.Catalog.ReloadIntervalSec) * time.Second; interval > 0 {
		go catalogSvc.Run(ctx, interval)
	}

	// Classifier chain — composition root
	classifier, classifierHealth, tracker := buildClassifier(ctx, cfg, store, logger)

	// Ranking
	weights, err := cfg.Ranking.ScoringWeights()
	if err != nil {
		logger.Fatal("Invalid ranking weights", zap.Error(err))
	}
	policy, err := tag.ParseCollisionPolicy(cfg.Classifier.CollisionPolicy)
	if err != nil {
		logger.Fatal("Invalid collision policy", zap.Error(err))
	}

	searchSvc := searchuc.New(
		catalogSvc, classifier,
		ranking.NewScorer(weights, cfg.Ranking.KeywordRules()),
		ranking.NewFallbackScorer(cfg.Ranking.FallbackWeights()),
		policy,
	)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(catalogSvc, cachePinger, classifierHealth, classifier != nil)

	var budgetReader usageuc.BudgetReader
	if tracker != nil {
		budgetReader = tracker
	}
	usageSvc := usageuc.New(budgetReader, cfg.Classifier.Provider)

	server := chiTransport.NewServer(searchSvc, catalogSvc, healthSvc, usageSvc, chiTransport.SearchDefaults{
		TopK:           cfg.Ranking.DefaultTopK,
		PreferCategory: cfg.Ranking.PreferCategory,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware("/metrics"))
	chiTransport.Routes(server, chiTransport.RouterOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.ErrorCodeBadRequest,
				Message: err.Error(),
			})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func connectStore(ctx context.Context, cfg config.Config, logger *zap.Logger) db.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))
	return store
}

// buildClassifier assembles the decorator chain: provider -> Instrumented -> Cached.
// The cache is outermost so hits skip the budget and the provider deadline.
// The health checker is nil when the provider has nothing to probe, the
// tracker when the provider spends no tokens.
func buildClassifier(
	ctx context.Context, cfg config.Config, store db.Store, logger *zap.Logger,
) (domain.Classifier, healthuc.Checker, *classifyuc.BudgetTracker) {
	cc := cfg.Classifier
	timeout := time.Duration(cc.TimeoutMs) * time.Millisecond

	switch cc.Provider {
	case config.ProviderKeyword:
		logger.Info("Classifier created", zap.String("provider", cc.Provider))
		return classifyuc.NewInstrumentedClassifier(
			classifyuc.NewKeywordClassifier(), cc.Provider, "rules", timeout, nil, logger,
		), nil, nil

	case config.ProviderOpenAI:
		base := openaiCls.NewClassifier(&openaiCls.Config{
			APIKey:     cc.APIKey,
			BaseURL:    cc.BaseURL,
			Model:      cc.Model,
			Vocabulary: cc.Vocabulary,
			Provider:   cc.Provider,
			Logger:     logger,
		})

		// Zero limits still count tokens for GET /usage.
		budget := buildBudget(ctx, cfg, store, logger)

		var classifier domain.Classifier = classifyuc.NewInstrumentedClassifier(
			base, cc.Provider, cc.Model, timeout, budget, logger,
		)
		if store != nil && cfg.Cache.Enabled {
			classifier = predcache.New(classifier, store,
				cfg.Storage.KeyPrefix, cc.Provider+":"+cc.Model,
				time.Duration(cfg.Cache.TTLSec)*time.Second,
				metrics.PredictionCacheTotal, logger,
			)
		}

		logger.Info("Classifier created",
			zap.String("provider", cc.Provider),
			zap.String("model", cc.Model),
			zap.Int("vocabulary", len(cc.Vocabulary)),
			zap.Bool("cache", store != nil && cfg.Cache.Enabled),
			zap.Int64("daily_token_limit", cc.Budget.DailyTokenLimit),
			zap.Int64("monthly_token_limit", cc.Budget.MonthlyTokenLimit),
		)
		return classifier, base, budget
	}
	return nil, nil, nil
}

func buildBudget(ctx context.Context, cfg config.Config, store db.Store, logger *zap.Logger) *classifyuc.BudgetTracker {
	bc := cfg.Classifier.Budget
	action, err := classifyuc.ParseBudgetAction(bc.Action)
	if err != nil {
		logger.Fatal("Invalid budget action", zap.Error(err))
	}
	budget := classifyuc.NewBudgetTracker(
		cfg.Storage.KeyPrefix, cfg.Classifier.Provider,
		bc.DailyTokenLimit, bc.MonthlyTokenLimit, action, logger,
	)
	if store != nil {
		// Loads the current window's counters so restarts do not reset the budget.
		budget.WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
	}
	return budget
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("mode", ww.Header().Get("X-Search-Mode")),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
