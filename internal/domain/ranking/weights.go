// Package ranking scores catalog products against normalized label weights
// and orders them into a top-K result.
package ranking

import (
	"fmt"
	"sort"
)

// Weights is the scoring table. Signal weights multiply a prediction weight;
// bonuses are flat additions driven by query constraints.
type Weights struct {
	Category  float64 `yaml:"category" json:"category"`
	Intent    float64 `yaml:"intent" json:"intent"`
	Attribute float64 `yaml:"attribute" json:"attribute"`
	// Brand multiplies the prediction weight of the product's MARCA_* token.
	Brand float64 `yaml:"brand" json:"brand"`

	BrandBonus       float64 `yaml:"brand_bonus" json:"brand_bonus"`
	CategoryBonus    float64 `yaml:"category_bonus" json:"category_bonus"`
	IntentBonus      float64 `yaml:"intent_bonus" json:"intent_bonus"`
	AttributeOverlap float64 `yaml:"attribute_overlap" json:"attribute_overlap"`
	KeywordBonus     float64 `yaml:"keyword_bonus" json:"keyword_bonus"`
}

// Preset names.
const (
	PresetDefault     = "default"
	PresetRecommender = "recommender"
	PresetStorefront  = "storefront"
	PresetCombined    = "combined"
)

var presets = map[string]Weights{
	PresetDefault: {
		Category: 5.0, Intent: 4.0, Attribute: 1.0,
		BrandBonus: 0.25, CategoryBonus: 0.15, IntentBonus: 0.15, AttributeOverlap: 0.05,
	},
	PresetRecommender: {
		Category: 1.0, Intent: 1.0, Attribute: 1.0,
		BrandBonus: 0.25, CategoryBonus: 0.15, IntentBonus: 0.15, AttributeOverlap: 0.05,
	},
	PresetStorefront: {
		Category: 2.0, Intent: 2.0, Attribute: 2.0, Brand: 3.0,
		KeywordBonus: 2.0,
	},
	PresetCombined: {
		Category: 5.0, Intent: 4.0, Attribute: 1.0,
		BrandBonus: 0.25, CategoryBonus: 0.15, IntentBonus: 0.15, AttributeOverlap: 0.05,
		KeywordBonus: 2.0,
	},
}

// DefaultWeights returns the default preset.
func DefaultWeights() Weights { return presets[PresetDefault] }

// Preset returns a named weight table.
func Preset(name string) (Weights, error) {
	if name == "" {
		return DefaultWeights(), nil
	}
	w, ok := presets[name]
	if !ok {
		return Weights{}, fmt.Errorf("unknown weight preset %q (available: %v)", name, PresetNames())
	}
	return w, nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
