package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tagrank/internal/domain"
	"github.com/kailas-cloud/tagrank/internal/domain/product"
)

// Row is one catalog record as raw text, before any parsing.
type Row struct {
	ID              string
	Title           string
	Brand           string
	Categories      string
	CategoryTag     string
	IntentTag       string
	Attributes      string
	AttributeRecord string
	ListPrice       string
	SalePrice       string
}

// Canonical column names and the header spellings accepted for each.
// The first alias present in a file wins.
var columnAliases = []struct {
	name    string
	aliases []string
}{
	{"id", []string{"sku_id", "id", "sku"}},
	{"title", []string{"title", "titulo", "name", "nombre"}},
	{"brand", []string{"brand_name", "brand", "marca"}},
	{"categories", []string{"categories", "categorias"}},
	{"category_tag", []string{"category_tag", "categoria_detectada", "categoria_principal"}},
	{"intent_tag", []string{"intent_tag", "intencion_detectada", "intencion_principal"}},
	{"attribute_tags", []string{"attribute_tags", "atributos_list", "atributos_lista"}},
	{"attribute_record", []string{"atributos_correctos"}},
	{"list_price", []string{"list_price", "precio_lista"}},
	{"sale_price", []string{"sale_price", "precio", "price"}},
}

// rowFrom builds a Row, looking every canonical column up through its aliases.
func rowFrom(get func(column string) (string, bool)) Row {
	v := make(map[string]string, len(columnAliases))
	for _, c := range columnAliases {
		for _, a := range c.aliases {
			if s, ok := get(a); ok {
				v[c.name] = strings.TrimSpace(s)
				break
			}
		}
	}
	return Row{
		ID:              v["id"],
		Title:           v["title"],
		Brand:           v["brand"],
		Categories:      v["categories"],
		CategoryTag:     v["category_tag"],
		IntentTag:       v["intent_tag"],
		Attributes:      v["attribute_tags"],
		AttributeRecord: v["attribute_record"],
		ListPrice:       v["list_price"],
		SalePrice:       v["sale_price"],
	}
}

// Decode turns a raw row into a product. Rows are never dropped: every
// malformed field falls back to its zero value and is reported as an issue.
// n is the 1-based record number, used as the id when the row has none.
func Decode(n int, r Row) (product.Product, []error) {
	var issues []error
	report := func(field string, err error) {
		issues = append(issues, domain.NewRowError(n, field, err))
	}

	f := product.Fields{
		ID:          r.ID,
		Title:       r.Title,
		Brand:       r.Brand,
		CategoryTag: r.CategoryTag,
		IntentTag:   r.IntentTag,
	}
	if f.ID == "" {
		f.ID = strconv.Itoa(n)
	}
	if f.Title == "" {
		report("title", errors.New("missing"))
	}

	attrs, err := product.ParseAttributeList(r.Attributes)
	if err != nil {
		report("attribute_tags", err)
	}
	f.AttributeTags = attrs

	if r.AttributeRecord != "" {
		rec, err := product.ParseAttributeRecord(r.AttributeRecord)
		if err != nil {
			report("attribute_record", err)
		} else {
			if f.CategoryTag == "" {
				f.CategoryTag = rec.Category
			}
			if f.IntentTag == "" {
				f.IntentTag = rec.Intent
			}
			if len(f.AttributeTags) == 0 {
				f.AttributeTags = rec.Attributes
			}
		}
	}

	if f.Categories, err = parseCategories(r.Categories); err != nil {
		report("categories", err)
	}
	if f.ListPrice, err = parsePrice(r.ListPrice); err != nil {
		report("list_price", err)
	}
	if f.SalePrice, err = parsePrice(r.SalePrice); err != nil {
		report("sale_price", err)
	}

	p, err := product.New(f)
	if err != nil {
		report("price", err)
		f.ListPrice, f.SalePrice = 0, 0
		p, _ = product.New(f)
	}
	return p, issues
}

// parseCategories accepts a list literal or a "|"-separated string.
func parseCategories(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if s[0] == '[' || s[0] == '(' {
		return product.ParseAttributeList(s)
	}
	var out []string
	for _, c := range strings.Split(s, "|") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return v, nil
}
