package classify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedClassifier bounds a classifier call in time, enforces the token
// budget and logs the outcome. Provider request metrics live in the transport.
type InstrumentedClassifier struct {
	inner    domain.Classifier
	provider string
	model    string
	timeout  time.Duration
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedClassifier wraps a classifier. timeout <= 0 disables the deadline,
// budget may be nil.
func NewInstrumentedClassifier(
	inner domain.Classifier, provider, model string, timeout time.Duration,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedClassifier {
	return &InstrumentedClassifier{
		inner:    inner,
		provider: provider,
		model:    model,
		timeout:  timeout,
		budget:   budget,
		logger:   logger,
	}
}

// Predict checks the budget, calls the inner classifier under the deadline
// and records token usage.
func (c *InstrumentedClassifier) Predict(ctx context.Context, text string) (domain.Prediction, error) {
	if c.budget != nil {
		if err := c.budget.Check(ctx); err != nil {
			c.logger.Warn("Classifier budget exceeded",
				zap.String("provider", c.provider),
				zap.String("model", c.model),
				zap.Error(err),
			)
			return domain.Prediction{}, fmt.Errorf("budget check: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	pred, err := c.inner.Predict(ctx, text)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Classifier request failed",
			zap.String("provider", c.provider),
			zap.String("model", c.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Prediction{}, fmt.Errorf("predict: %w", err)
	}

	if c.budget != nil && pred.TotalTokens > 0 {
		c.budget.Record(int64(pred.TotalTokens))
		remaining := metrics.ClassifierBudgetTokensRemaining
		remaining.WithLabelValues(c.provider, "daily").Set(float64(c.budget.RemainingDaily()))
		remaining.WithLabelValues(c.provider, "monthly").Set(float64(c.budget.RemainingMonthly()))
	}

	c.logger.Debug("Classifier request completed",
		zap.String("provider", c.provider),
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("labels", len(pred.Scores)),
		zap.Int("total_tokens", pred.TotalTokens),
	)

	return pred, nil
}
