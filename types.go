package tagrank

// Mode is the ranking strategy a search ended up using.
type Mode string

// Search modes.
const (
	ModeClassifier Mode = "classifier"
	ModeFallback   Mode = "fallback"
	ModeUnranked   Mode = "unranked"
)

// Product is a catalog entry. Tags without a namespace get one when the engine loads them.
type Product struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Brand         string   `json:"brand,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	CategoryTag   string   `json:"category_tag,omitempty"`
	IntentTag     string   `json:"intent_tag,omitempty"`
	AttributeTags []string `json:"attribute_tags,omitempty"`
	ListPrice     float64  `json:"list_price"`
	SalePrice     float64  `json:"sale_price"`
}

// Label is a classifier label with its confidence.
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Query is a search request.
type Query struct {
	Text string
	// TopK caps the results. Nil uses the engine default; zero or negative
	// returns no results.
	TopK *int

	// Optional structured fields; matching products get small bonuses.
	Category   string
	Intent     string
	Brand      string
	Attributes []string

	// PreferCategory restricts ranking to Category when it has at least TopK products.
	PreferCategory bool
}

// Result is one ranked product.
type Result struct {
	Product Product  `json:"product"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// Response is the outcome of a search.
type Response struct {
	Mode    Mode     `json:"mode"`
	Results []Result `json:"results"`
	// Labels holds the normalized classifier labels, strongest first.
	Labels []Label `json:"labels,omitempty"`
	// HighConfidence holds the labels scored above 0.5.
	HighConfidence []Label `json:"high_confidence,omitempty"`
}

// K returns a pointer to k, for Query.TopK.
func K(k int) *int { return &k }
