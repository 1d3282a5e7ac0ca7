// Package query turns a structured parse of the user's query into tag constraints.
package query

import "github.com/kailas-cloud/tagrank/internal/domain/tag"

// Parsed is a structured query as a form or upstream parser supplies it.
type Parsed struct {
	Category   string   `json:"categoria,omitempty"`
	Intent     string   `json:"intencion,omitempty"`
	Brand      string   `json:"marca,omitempty"`
	Attributes []string `json:"atributos,omitempty"`
}

// Constraints are soft ranking bonuses derived from a Parsed query.
type Constraints struct {
	CategoryTag   string
	IntentTag     string
	Brand         string
	AttributeTags []string
}

// BuildConstraints maps the parsed fields into the tag namespaces.
// Brand is normalized without a prefix so it compares against product.BrandKey.
func BuildConstraints(p Parsed) Constraints {
	c := Constraints{
		CategoryTag: tag.WithPrefix(tag.CategoryPrefix, p.Category),
		IntentTag:   tag.WithPrefix(tag.IntentPrefix, p.Intent),
		Brand:       tag.Normalize(p.Brand),
	}
	for _, a := range p.Attributes {
		if t := tag.WithPrefix(tag.AttributePrefix, a); t != "" {
			c.AttributeTags = append(c.AttributeTags, t)
		}
	}
	return c
}

// IsZero reports whether no constraint is set.
func (c Constraints) IsZero() bool {
	return c.CategoryTag == "" && c.IntentTag == "" && c.Brand == "" && len(c.AttributeTags) == 0
}
