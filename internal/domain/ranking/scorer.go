package ranking

import (
	"strings"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
	"github.com/kailas-cloud/tagrank/internal/domain/query"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
)

// Breakdown is a score split by signal. Total is their sum.
type Breakdown struct {
	Category         float64 `json:"category,omitempty"`
	Intent           float64 `json:"intent,omitempty"`
	Attributes       float64 `json:"attributes,omitempty"`
	Brand            float64 `json:"brand,omitempty"`
	BrandBonus       float64 `json:"brand_bonus,omitempty"`
	CategoryBonus    float64 `json:"category_bonus,omitempty"`
	IntentBonus      float64 `json:"intent_bonus,omitempty"`
	AttributeOverlap float64 `json:"attribute_overlap,omitempty"`
	Keywords         float64 `json:"keywords,omitempty"`
}

// Total sums all signals.
func (b Breakdown) Total() float64 {
	return b.Category + b.Intent + b.Attributes + b.Brand +
		b.BrandBonus + b.CategoryBonus + b.IntentBonus + b.AttributeOverlap +
		b.Keywords
}

// Reasons names the signals that contributed, in a fixed order.
func (b Breakdown) Reasons() []string {
	var out []string
	add := func(name string, v float64) {
		if v != 0 {
			out = append(out, name)
		}
	}
	add("category", b.Category)
	add("intent", b.Intent)
	add("attributes", b.Attributes)
	add("brand", b.Brand)
	add("brand_bonus", b.BrandBonus)
	add("category_bonus", b.CategoryBonus)
	add("intent_bonus", b.IntentBonus)
	add("attribute_overlap", b.AttributeOverlap)
	add("keywords", b.Keywords)
	return out
}

type compiledRule struct {
	label    string
	triggers []string
}

// Scorer computes classifier-mode relevance. It is immutable and safe for concurrent use.
type Scorer struct {
	weights Weights
	rules   []compiledRule
}

// NewScorer creates a scorer. Rule labels are normalized and triggers folded once here.
func NewScorer(w Weights, rules []KeywordRule) *Scorer {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		label := tag.Normalize(r.Label)
		if label == "" {
			continue
		}
		cr := compiledRule{label: label}
		for _, t := range r.Triggers {
			if f := tag.Fold(strings.TrimSpace(t)); f != "" {
				cr.triggers = append(cr.triggers, f)
			}
		}
		if len(cr.triggers) > 0 {
			compiled = append(compiled, cr)
		}
	}
	return &Scorer{weights: w, rules: compiled}
}

// Weights returns the scorer's weight table.
func (s *Scorer) Weights() Weights { return s.weights }

// Score returns the relevance of p for the given predictions and constraints.
func (s *Scorer) Score(p *product.Product, w tag.Weights, c query.Constraints) float64 {
	return s.Explain(p, w, c).Total()
}

// Explain returns the per-signal contributions to Score.
func (s *Scorer) Explain(p *product.Product, w tag.Weights, c query.Constraints) Breakdown {
	var b Breakdown
	cw := s.weights

	if v, ok := w.Get(p.CategoryTag()); ok {
		b.Category = v * cw.Category
	}
	if v, ok := w.Get(p.IntentTag()); ok {
		b.Intent = v * cw.Intent
	}
	for _, a := range p.AttributeTags() {
		if v, ok := w.Get(a); ok {
			b.Attributes += v * cw.Attribute
		}
	}
	if p.BrandKey() != "" {
		if v, ok := w.Get(tag.BrandPrefix + p.BrandKey()); ok {
			b.Brand = v * cw.Brand
		}
	}

	if c.Brand != "" && c.Brand == p.BrandKey() {
		b.BrandBonus = cw.BrandBonus
	}
	if c.CategoryTag != "" && c.CategoryTag == p.CategoryTag() {
		b.CategoryBonus = cw.CategoryBonus
	}
	if c.IntentTag != "" && c.IntentTag == p.IntentTag() {
		b.IntentBonus = cw.IntentBonus
	}
	if len(c.AttributeTags) > 0 {
		b.AttributeOverlap = cw.AttributeOverlap * float64(overlap(c.AttributeTags, p))
	}

	if cw.KeywordBonus != 0 && len(s.rules) > 0 {
		title := tag.Fold(p.Title())
		for _, r := range s.rules {
			v, ok := w.Get(r.label)
			if !ok || !containsAny(title, r.triggers) {
				continue
			}
			b.Keywords += v * cw.KeywordBonus
		}
	}
	return b
}

// overlap counts distinct requested tags the product carries.
func overlap(requested []string, p *product.Product) int {
	seen := make(map[string]struct{}, len(requested))
	n := 0
	for _, t := range requested {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if p.HasAttribute(t) {
			n++
		}
	}
	return n
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
