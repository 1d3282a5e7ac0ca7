package tagrank

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
	openaiCls "github.com/kailas-cloud/tagrank/internal/transport/openai"
	classifyuc "github.com/kailas-cloud/tagrank/internal/usecase/classify"
)

// Classifier labels a query. Labels may be raw; the engine normalizes them.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Label, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, text string) ([]Label, error)

// Classify implements Classifier.
func (f ClassifierFunc) Classify(ctx context.Context, text string) ([]Label, error) {
	return f(ctx, text)
}

// KeywordClassifier returns a deterministic offline classifier that recognizes
// a handful of Spanish and English shopping terms.
func KeywordClassifier() Classifier {
	return &builtinClassifier{inner: classifyuc.NewKeywordClassifier()}
}

// OpenAIConfig configures OpenAIClassifier.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty for api.openai.com
	Model   string
	// Vocabulary lists the labels the model may answer with; empty uses the built-in list.
	Vocabulary []string
}

// OpenAIClassifier labels queries with an OpenAI-compatible chat completion model.
func OpenAIClassifier(cfg OpenAIConfig) Classifier {
	vocab := cfg.Vocabulary
	if len(vocab) == 0 {
		vocab = tag.DefaultVocabulary()
	}
	return &builtinClassifier{inner: openaiCls.NewClassifier(&openaiCls.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Vocabulary: vocab,
		Logger:     zap.NewNop(),
	})}
}

// builtinClassifier exposes an internal classifier through the public interface.
type builtinClassifier struct {
	inner domain.Classifier
}

func (b *builtinClassifier) Classify(ctx context.Context, text string) ([]Label, error) {
	pred, err := b.inner.Predict(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return fromScores(pred.Scores), nil
}

// classifierAdapter wraps a public Classifier to satisfy domain.Classifier.
type classifierAdapter struct {
	inner Classifier
}

func (a *classifierAdapter) Predict(ctx context.Context, text string) (domain.Prediction, error) {
	labels, err := a.inner.Classify(ctx, text)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("classify: %w", err)
	}
	return domain.Prediction{Scores: toScores(labels)}, nil
}

// toDomain unwraps built-in classifiers so their token usage reaches the decorators.
func toDomain(c Classifier) domain.Classifier {
	if b, ok := c.(*builtinClassifier); ok {
		return b.inner
	}
	return &classifierAdapter{inner: c}
}
