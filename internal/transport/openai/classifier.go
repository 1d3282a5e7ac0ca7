package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
	"github.com/kailas-cloud/tagrank/internal/metrics"
)

const systemPrompt = `You label e-commerce search queries for a computer store.
Answer with a JSON object {"labels": [{"label": "<LABEL>", "score": <0..1>}]}.
Use only labels from this vocabulary: %s.
Include every label that applies, scored by confidence. Return an empty list when none applies.`

// Classifier is a query classifier backed by an OpenAI-compatible chat completion API.
type Classifier struct {
	client   *openai.Client
	model    string
	prompt   string
	user     string
	provider string
	logger   *zap.Logger
}

// Config holds the classifier provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Vocabulary []string
	User       string
	Provider   string
	Logger     *zap.Logger
}

// NewClassifier creates an OpenAI-compatible classifier.
func NewClassifier(cfg *Config) *Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	return &Classifier{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		prompt:   fmt.Sprintf(systemPrompt, strings.Join(cfg.Vocabulary, ", ")),
		user:     cfg.User,
		provider: provider,
		logger:   cfg.Logger,
	}
}

// Predict implements domain.Classifier. Scores come back in the order the model listed them.
func (c *Classifier) Predict(ctx context.Context, text string) (domain.Prediction, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		User: c.user,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		c.fail("api_error")
		return domain.Prediction{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		c.fail("empty_response")
		return domain.Prediction{}, fmt.Errorf("empty completion response: %w", domain.ErrClassifierProviderError)
	}

	scores, err := parseScores(resp.Choices[0].Message.Content)
	if err != nil {
		c.fail("bad_format")
		c.logger.Debug("Unparseable classifier answer",
			zap.String("content", resp.Choices[0].Message.Content),
			zap.Error(err),
		)
		return domain.Prediction{}, fmt.Errorf("classifier answer: %w: %w", err, domain.ErrClassifierProviderError)
	}

	metrics.ClassifierRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.ClassifierRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())

	totalTokens := resp.Usage.TotalTokens
	promptTokens := resp.Usage.PromptTokens
	if totalTokens > 0 {
		metrics.ClassifierTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(promptTokens))
		metrics.ClassifierTokensTotal.WithLabelValues(c.provider, c.model, "total").Add(float64(totalTokens))
	}

	return domain.Prediction{
		Scores:       scores,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Classifier) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (c *Classifier) fail(errorType string) {
	metrics.ClassifierRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
	metrics.ClassifierErrorsTotal.WithLabelValues(c.provider, c.model, errorType).Inc()
}

// parseScores accepts {"labels": [...]}, {"labels": {...}}, a bare list or a bare
// label -> score object. Object keys keep their order so collisions resolve as listed.
func parseScores(content string) ([]tag.Score, error) {
	raw := []byte(strings.TrimSpace(stripFence(content)))
	if len(raw) == 0 {
		return nil, errors.New("empty content")
	}

	var envelope struct {
		Labels json.RawMessage `json:"labels"`
	}
	if raw[0] == '{' && json.Unmarshal(raw, &envelope) == nil && len(envelope.Labels) > 0 {
		raw = bytes.TrimSpace(envelope.Labels)
	}

	switch {
	case bytes.Equal(raw, []byte("null")):
		return nil, nil
	case raw[0] == '[':
		var scores []tag.Score
		if err := json.Unmarshal(raw, &scores); err != nil {
			return nil, fmt.Errorf("decode label list: %w", err)
		}
		return scores, nil
	case raw[0] == '{':
		return decodeOrderedObject(raw)
	}
	return nil, fmt.Errorf("unexpected content %.40q", raw)
}

func decodeOrderedObject(raw []byte) ([]tag.Score, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode label object: %w", err)
	}

	var scores []tag.Score
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode label object: %w", err)
		}
		label, _ := key.(string)

		var weight float64
		if err := dec.Decode(&weight); err != nil {
			return nil, fmt.Errorf("decode score of %q: %w", label, err)
		}
		scores = append(scores, tag.Score{Label: label, Weight: weight})
	}
	return scores, nil
}

// stripFence removes a ```json ... ``` wrapper some models add despite the response format.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrClassifierProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrClassifierProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("classifier API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("classifier API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("classifier request: %w: %w", err, wrap)
	}
	return fmt.Errorf("classifier request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (some compatible gateways use it).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
