package domain

import (
	"context"

	"github.com/kailas-cloud/tagrank/internal/domain/tag"
)

// Classifier is the query labelling contract between layers.
// Scores come back raw; callers normalize them.
type Classifier interface {
	Predict(ctx context.Context, text string) (Prediction, error)
}

// HealthChecker verifies classifier provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Prediction carries classifier scores and token usage through the decorator chain.
type Prediction struct {
	Scores       []tag.Score
	PromptTokens int
	TotalTokens  int
	// Cached is set when the scores were served from the prediction cache.
	Cached bool
}
