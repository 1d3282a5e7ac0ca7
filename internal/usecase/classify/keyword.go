package classify

import (
	"context"
	"strings"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
)

// keywordRule assigns scores when any trigger occurs in the lowercased query.
type keywordRule struct {
	triggers []string
	scores   []tag.Score
}

// Rules apply in order; a later rule overwrites the score of a label an earlier one set.
var demoRules = []keywordRule{
	{
		triggers: []string{"notebook", "laptop", "computadora"},
		scores: []tag.Score{
			{Label: "CAT_NOTEBOOK", Weight: 0.9},
			{Label: "CAT_PC_ESCRITORIO", Weight: 0.3},
			{Label: "CAT_MONITOR", Weight: 0.2},
			{Label: "CAT_AURICULAR", Weight: 0.1},
		},
	},
	{
		triggers: []string{"gaming", "juego", "gamer"},
		scores: []tag.Score{
			{Label: "INT_GAMING", Weight: 0.9},
			{Label: "INT_OFICINA", Weight: 0.2},
			{Label: "INT_ESTUDIO", Weight: 0.3},
			{Label: "INT_DISEÑO", Weight: 0.4},
		},
	},
	{
		triggers: []string{"oficina", "trabajo", "office"},
		scores: []tag.Score{
			{Label: "INT_OFICINA", Weight: 0.9},
			{Label: "INT_GAMING", Weight: 0.1},
			{Label: "INT_ESTUDIO", Weight: 0.3},
			{Label: "INT_DISEÑO", Weight: 0.5},
		},
	},
	{
		triggers: []string{"diseño", "diseno", "grafico"},
		scores: []tag.Score{
			{Label: "INT_DISEÑO", Weight: 0.9},
			{Label: "INT_GAMING", Weight: 0.3},
			{Label: "INT_OFICINA", Weight: 0.4},
			{Label: "INT_ESTUDIO", Weight: 0.2},
		},
	},
	{
		triggers: []string{"monitor"},
		scores: []tag.Score{
			{Label: "CAT_MONITOR", Weight: 0.9},
			{Label: "CAT_NOTEBOOK", Weight: 0.2},
			{Label: "CAT_PC_ESCRITORIO", Weight: 0.3},
		},
	},
	{
		triggers: []string{"gaming"},
		scores: []tag.Score{
			{Label: "ATTR_TARJETA_GRAFICA", Weight: 0.8},
			{Label: "ATTR_POTENTE", Weight: 0.7},
			{Label: "ATTR_GAMA_ALTA", Weight: 0.6},
			{Label: "ATTR_REFRESH_144HZ", Weight: 0.5},
		},
	},
	{
		triggers: []string{"oficina"},
		scores: []tag.Score{
			{Label: "ATTR_COMPACTO", Weight: 0.7},
			{Label: "ATTR_ECONOMICO", Weight: 0.6},
			{Label: "ATTR_PORTATIL", Weight: 0.5},
			{Label: "ATTR_SILENCIOSO", Weight: 0.4},
		},
	},
}

// KeywordClassifier is a deterministic in-process classifier for demos and
// offline runs. It spends no tokens and never fails.
type KeywordClassifier struct {
	rules []keywordRule
}

// NewKeywordClassifier returns the built-in keyword classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{rules: demoRules}
}

// Predict returns raw labels in first-seen order. Unknown queries yield no scores.
func (k *KeywordClassifier) Predict(_ context.Context, text string) (domain.Prediction, error) {
	q := strings.ToLower(text)

	var out []tag.Score
	pos := make(map[string]int)
	for _, r := range k.rules {
		if !containsAny(q, r.triggers) {
			continue
		}
		for _, s := range r.scores {
			if i, ok := pos[s.Label]; ok {
				out[i].Weight = s.Weight
				continue
			}
			pos[s.Label] = len(out)
			out = append(out, s)
		}
	}
	return domain.Prediction{Scores: out}, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
