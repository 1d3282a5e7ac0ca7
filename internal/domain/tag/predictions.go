package tag

import (
	"fmt"
	"sort"
)

// Score is a single classifier label with its confidence weight.
type Score struct {
	Label  string  `json:"label"`
	Weight float64 `json:"score"`
}

// Weights maps normalized labels to prediction weights.
type Weights map[string]float64

// Get returns the weight of label and whether it was predicted.
func (w Weights) Get(label string) (float64, bool) {
	if label == "" {
		return 0, false
	}
	v, ok := w[label]
	return v, ok
}

// Above returns the labels weighted strictly above threshold,
// sorted by weight descending, then label ascending.
func (w Weights) Above(threshold float64) []Score {
	out := make([]Score, 0, len(w))
	for l, v := range w {
		if v > threshold {
			out = append(out, Score{Label: l, Weight: v})
		}
	}
	sortScores(out)
	return out
}

// Sorted returns every label, zero and negative weights included,
// in the same order as Above.
func (w Weights) Sorted() []Score {
	out := make([]Score, 0, len(w))
	for l, v := range w {
		out = append(out, Score{Label: l, Weight: v})
	}
	sortScores(out)
	return out
}

func sortScores(out []Score) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight == out[j].Weight {
			return out[i].Label < out[j].Label
		}
		return out[i].Weight > out[j].Weight
	})
}

// CollisionPolicy decides what happens when two raw labels normalize to the same tag.
type CollisionPolicy string

// Collision policies.
const (
	// LastWins keeps the weight of the later label in input order.
	LastWins CollisionPolicy = "last_wins"
	// MaxWeight keeps the largest weight.
	MaxWeight CollisionPolicy = "max"
	// SumWeights adds the weights together.
	SumWeights CollisionPolicy = "sum"
)

// IsValid reports whether p is a known policy. Empty means LastWins.
func (p CollisionPolicy) IsValid() bool {
	switch p {
	case "", LastWins, MaxWeight, SumWeights:
		return true
	}
	return false
}

// ParseCollisionPolicy validates a policy name from configuration.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	p := CollisionPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown collision policy %q", s)
	}
	if p == "" {
		return LastWins, nil
	}
	return p, nil
}

// NormalizePredictions normalizes every label of raw and merges collisions by policy.
// Labels that normalize to the empty string are dropped.
func NormalizePredictions(raw []Score, policy CollisionPolicy) Weights {
	out := make(Weights, len(raw))
	for _, s := range raw {
		label := Normalize(s.Label)
		if label == "" {
			continue
		}
		prev, seen := out[label]
		switch {
		case !seen:
			out[label] = s.Weight
		case policy == MaxWeight:
			if s.Weight > prev {
				out[label] = s.Weight
			}
		case policy == SumWeights:
			out[label] = prev + s.Weight
		default:
			out[label] = s.Weight
		}
	}
	return out
}

// FromMap converts an unordered label map into scores ordered by label,
// so that collision handling does not depend on map iteration order.
func FromMap(m map[string]float64) []Score {
	labels := make([]string, 0, len(m))
	for l := range m {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	out := make([]Score, len(labels))
	for i, l := range labels {
		out[i] = Score{Label: l, Weight: m[l]}
	}
	return out
}
