package ranking

// KeywordRule adds the weight of Label when any trigger occurs in a product title.
// Matching is case- and accent-insensitive.
type KeywordRule struct {
	Label    string   `yaml:"label" json:"label"`
	Triggers []string `yaml:"triggers" json:"triggers"`
}

// DefaultKeywordRules returns the built-in title keyword table.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{Label: "INT_GAMING", Triggers: []string{"gaming", "gamer", "game", "juego", "juegos"}},
		{Label: "INT_OFICINA", Triggers: []string{"trabajo", "oficina", "office", "business"}},
		{Label: "INT_TRABAJO", Triggers: []string{"trabajo", "oficina", "office", "business"}},
		{Label: "INT_ESTUDIO", Triggers: []string{"estudio", "estudiante", "universidad", "student", "escuela"}},
		{Label: "INT_DISENO", Triggers: []string{"diseño", "diseno", "design", "grafico", "creator"}},
		{Label: "INT_PROGRAMACION", Triggers: []string{"programacion", "programación", "desarrollo", "developer", "code"}},
	}
}
