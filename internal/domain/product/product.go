package product

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
)

// Fields carries the raw values a catalog loader extracted for one row.
type Fields struct {
	ID            string
	Title         string
	Brand         string
	Categories    []string
	CategoryTag   string
	IntentTag     string
	AttributeTags []string
	ListPrice     float64
	SalePrice     float64
}

// Product is a catalog entry (immutable value object).
type Product struct {
	id            string
	title         string
	brand         string
	brandKey      string
	categories    []string
	categoryTag   string
	intentTag     string
	attributeTags []string
	attrSet       map[string]struct{}
	listPrice     float64
	salePrice     float64
}

// New normalizes and validates catalog fields.
// Tags are canonicalized; a value without a namespace gets the field's prefix.
// When the row carries no tags, they are derived from the storefront categories.
// Negative or non-finite prices are rejected with ErrMalformedCatalogRow.
func New(f Fields) (Product, error) {
	if !validPrice(f.ListPrice) {
		return Product{}, fmt.Errorf("%w: list price %v", domain.ErrMalformedCatalogRow, f.ListPrice)
	}
	if !validPrice(f.SalePrice) {
		return Product{}, fmt.Errorf("%w: sale price %v", domain.ErrMalformedCatalogRow, f.SalePrice)
	}

	category := qualify(tag.CategoryPrefix, f.CategoryTag)
	intent := qualify(tag.IntentPrefix, f.IntentTag)
	attrs := make([]string, 0, len(f.AttributeTags))
	for _, a := range f.AttributeTags {
		attrs = append(attrs, qualify(tag.AttributePrefix, a))
	}

	if category == "" && intent == "" && len(attrs) == 0 && len(f.Categories) > 0 {
		derived := DeriveTags(f.Categories)
		category, intent, attrs = derived.Category, derived.Intent, derived.Attributes
	}

	return Reconstruct(
		f.ID, f.Title, f.Brand, cloneStrings(f.Categories),
		category, intent, attrs, f.ListPrice, f.SalePrice,
	), nil
}

// Reconstruct creates a Product from already canonical values without validation.
// Attribute tags are deduplicated keeping the first occurrence.
func Reconstruct(
	id, title, brand string, categories []string,
	categoryTag, intentTag string, attributeTags []string,
	listPrice, salePrice float64,
) Product {
	set := make(map[string]struct{}, len(attributeTags))
	attrs := make([]string, 0, len(attributeTags))
	for _, a := range attributeTags {
		if a == "" {
			continue
		}
		if _, dup := set[a]; dup {
			continue
		}
		set[a] = struct{}{}
		attrs = append(attrs, a)
	}

	return Product{
		id:            id,
		title:         title,
		brand:         brand,
		brandKey:      tag.Normalize(brand),
		categories:    categories,
		categoryTag:   categoryTag,
		intentTag:     intentTag,
		attributeTags: attrs,
		attrSet:       set,
		listPrice:     listPrice,
		salePrice:     salePrice,
	}
}

// ID returns the sku or catalog index.
func (p *Product) ID() string { return p.id }

// Title returns the display title.
func (p *Product) Title() string { return p.title }

// Brand returns the brand name as it appears in the catalog.
func (p *Product) Brand() string { return p.brand }

// BrandKey returns the normalized brand, used for brand constraints.
func (p *Product) BrandKey() string { return p.brandKey }

// Categories returns the raw storefront categories.
func (p *Product) Categories() []string { return p.categories }

// CategoryTag returns the CAT_* tag or "".
func (p *Product) CategoryTag() string { return p.categoryTag }

// IntentTag returns the INT_* tag or "".
func (p *Product) IntentTag() string { return p.intentTag }

// AttributeTags returns the ATTR_* tags in catalog order.
func (p *Product) AttributeTags() []string { return p.attributeTags }

// HasAttribute reports whether the product carries the given tag.
func (p *Product) HasAttribute(t string) bool {
	_, ok := p.attrSet[t]
	return ok
}

// ListPrice returns the list price.
func (p *Product) ListPrice() float64 { return p.listPrice }

// SalePrice returns the sale price, 0 when unknown.
func (p *Product) SalePrice() float64 { return p.salePrice }

// WithAttribute returns a copy with one more attribute tag.
func (p *Product) WithAttribute(t string) Product {
	attrs := make([]string, 0, len(p.attributeTags)+1)
	attrs = append(attrs, p.attributeTags...)
	attrs = append(attrs, qualify(tag.AttributePrefix, t))
	return Reconstruct(
		p.id, p.title, p.brand, p.categories,
		p.categoryTag, p.intentTag, attrs, p.listPrice, p.salePrice,
	)
}

func qualify(prefix, value string) string {
	n := tag.Normalize(value)
	if n == "" {
		return ""
	}
	if tag.KindOf(n) != tag.KindUnknown {
		return n
	}
	return tag.Normalize(prefix + n)
}

func validPrice(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
