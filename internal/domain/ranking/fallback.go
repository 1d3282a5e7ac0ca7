package ranking

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
)

// FallbackWeights is the per-field table for substring scoring.
type FallbackWeights struct {
	ExactTitle float64 `yaml:"exact_title" json:"exact_title"`
	TitleWord  float64 `yaml:"title_word" json:"title_word"`
	Brand      float64 `yaml:"brand" json:"brand"`
	Category   float64 `yaml:"category" json:"category"`
	Intent     float64 `yaml:"intent" json:"intent"`
	Attribute  float64 `yaml:"attribute" json:"attribute"`
	// MinWordLen is the exclusive lower bound on query word length for title word matches.
	MinWordLen int `yaml:"min_word_len" json:"min_word_len"`
}

// DefaultFallbackWeights returns the standard substring weights.
func DefaultFallbackWeights() FallbackWeights {
	return FallbackWeights{
		ExactTitle: 10.0,
		TitleWord:  3.0,
		Brand:      5.0,
		Category:   4.0,
		Intent:     3.0,
		Attribute:  2.0,
		MinWordLen: 2,
	}
}

// FallbackScorer ranks by literal, case-insensitive substring containment.
// It does not normalize tags.
type FallbackScorer struct {
	w FallbackWeights
}

// NewFallbackScorer creates a substring scorer.
func NewFallbackScorer(w FallbackWeights) *FallbackScorer {
	return &FallbackScorer{w: w}
}

// Score returns the substring relevance of p for the raw query text.
//
//   - the whole title occurring in the query adds ExactTitle;
//   - every query word longer than MinWordLen found in the title adds TitleWord;
//   - brand, category and intent add their weight when the field occurs in the
//     query or the query occurs in the field;
//   - every attribute matching the same way adds Attribute.
//
// Empty fields never match.
func (f *FallbackScorer) Score(p *product.Product, q string) float64 {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return 0
	}

	var score float64
	title := strings.ToLower(p.Title())
	if title != "" && strings.Contains(q, title) {
		score += f.w.ExactTitle
	}
	if title != "" {
		for _, word := range strings.Fields(q) {
			if utf8.RuneCountInString(word) > f.w.MinWordLen && strings.Contains(title, word) {
				score += f.w.TitleWord
			}
		}
	}

	if matchField(q, p.Brand()) {
		score += f.w.Brand
	}
	if matchField(q, p.CategoryTag()) {
		score += f.w.Category
	}
	if matchField(q, p.IntentTag()) {
		score += f.w.Intent
	}
	for _, a := range p.AttributeTags() {
		if matchField(q, a) {
			score += f.w.Attribute
		}
	}
	return score
}

func matchField(q, field string) bool {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return false
	}
	return strings.Contains(q, field) || strings.Contains(field, q)
}
