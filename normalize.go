package tagrank

import (
	"fmt"

	"github.com/kailas-cloud/tagrank/internal/domain/tag"
)

// Normalize canonicalizes a label: diacritics folded, upper snake case,
// repeated namespace prefixes collapsed ("cat_cat_notebook" -> "CAT_NOTEBOOK").
func Normalize(label string) string {
	return tag.Normalize(label)
}

// NormalizeLabels normalizes every label and merges the ones that collide.
// policy is "last_wins" (default), "max" or "sum".
func NormalizeLabels(labels []Label, policy string) ([]Label, error) {
	p, err := tag.ParseCollisionPolicy(policy)
	if err != nil {
		return nil, fmt.Errorf("tagrank: %w", err)
	}
	return labelsFromWeights(tag.NormalizePredictions(toScores(labels), p)), nil
}

func toScores(labels []Label) []tag.Score {
	out := make([]tag.Score, len(labels))
	for i, l := range labels {
		out[i] = tag.Score{Label: l.Label, Weight: l.Score}
	}
	return out
}

func fromScores(scores []tag.Score) []Label {
	if len(scores) == 0 {
		return nil
	}
	out := make([]Label, len(scores))
	for i, s := range scores {
		out[i] = Label{Label: s.Label, Score: s.Weight}
	}
	return out
}

// labelsFromWeights lists every weight, strongest first.
func labelsFromWeights(w tag.Weights) []Label {
	if len(w) == 0 {
		return nil
	}
	return fromScores(w.Sorted())
}
