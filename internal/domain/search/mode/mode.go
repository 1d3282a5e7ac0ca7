package mode

// Mode is the ranking strategy a search ended up using.
type Mode string

// Search mode constants.
const (
	// Classifier ranks by normalized classifier predictions.
	Classifier Mode = "classifier"
	// Fallback ranks by literal substring matching.
	Fallback Mode = "fallback"
	// Unranked returns catalog rows in catalog order (empty query).
	Unranked Mode = "unranked"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Classifier || m == Fallback || m == Unranked
}
