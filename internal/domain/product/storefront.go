package product

import "github.com/kailas-cloud/tagrank/internal/domain/tag"

// storefrontCategories maps storefront category names (normalized) to the tags they imply.
var storefrontCategories = map[string][]string{
	"NOTEBOOKS":        {"CAT_NOTEBOOK"},
	"ULTRABOOKS":       {"CAT_NOTEBOOK", "ATTR_LIGERA"},
	"GAMER":            {"CAT_NOTEBOOK", "INT_GAMING", "ATTR_GRAFICA_DEDICADA"},
	"2_EN_1":           {"CAT_NOTEBOOK", "ATTR_2_EN_1"},
	"PC_DE_ESCRITORIO": {"CAT_PC_ESCRITORIO"},
	"MINI_PC":          {"CAT_PC_ESCRITORIO", "ATTR_COMPACTO"},
	"MONITORES":        {"CAT_MONITOR"},
	"4K":               {"CAT_MONITOR", "ATTR_ALTA_RESOLUCION"},
	"TECLADOS":         {"CAT_TECLADO"},
	"MECANICOS":        {"CAT_TECLADO", "ATTR_MECANICO"},
	"RGB":              {"CAT_TECLADO", "ATTR_RGB"},
	"MOUSE":            {"CAT_MOUSE"},
	"GAMING":           {"CAT_MOUSE", "INT_GAMING", "ATTR_PRECISION_SENSOR"},
	"INALAMBRICOS":     {"CAT_MOUSE", "ATTR_INALAMBRICO"},
}

// Derived holds tags inferred from storefront categories.
type Derived struct {
	Category   string
	Intent     string
	Attributes []string
}

// DeriveTags infers tags from storefront category names.
// The first category and intent tag found win; attributes accumulate in order.
// Unknown categories are ignored.
func DeriveTags(categories []string) Derived {
	var d Derived
	for _, c := range categories {
		for _, t := range storefrontCategories[tag.Normalize(c)] {
			switch tag.KindOf(t) {
			case tag.KindCategory:
				if d.Category == "" {
					d.Category = t
				}
			case tag.KindIntent:
				if d.Intent == "" {
					d.Intent = t
				}
			case tag.KindAttribute:
				d.Attributes = append(d.Attributes, t)
			}
		}
	}
	return d
}
