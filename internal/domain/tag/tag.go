// Package tag implements the canonical label vocabulary shared by the classifier,
// the catalog and the scorer: CAT_* categories, INT_* intents, ATTR_* attributes
// and MARCA_* brand tokens.
package tag

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Namespace prefixes.
const (
	CategoryPrefix  = "CAT_"
	IntentPrefix    = "INT_"
	AttributePrefix = "ATTR_"
	BrandPrefix     = "MARCA_"
)

// Kind is the namespace a normalized label belongs to.
type Kind string

// Kind constants.
const (
	KindCategory  Kind = "category"
	KindIntent    Kind = "intent"
	KindAttribute Kind = "attribute"
	KindBrand     Kind = "brand"
	KindUnknown   Kind = "unknown"
)

// collapsiblePrefixes are the prefixes whose leading repetitions are folded
// into one occurrence (CAT_CAT_NOTEBOOK -> CAT_NOTEBOOK).
var collapsiblePrefixes = []string{CategoryPrefix, IntentPrefix, AttributePrefix}

var underscoreRun = regexp.MustCompile(`_+`)

// Normalize maps an arbitrary label to its canonical form: uppercase ASCII,
// separator runs replaced by a single underscore, no leading or trailing
// underscore, at most one leading CAT_/INT_/ATTR_ prefix.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return ""
	}

	// Folding happens before uppercasing: compatibility decomposition can
	// produce lowercase letters (e.g. the "ﬁ" ligature).
	s = strings.ToUpper(asciiFold(s))

	s = strings.Map(func(r rune) rune {
		if isSeparator(r) {
			return '_'
		}
		return r
	}, s)
	s = underscoreRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")

	for _, p := range collapsiblePrefixes {
		s = collapsePrefix(s, p)
	}
	return s
}

// WithPrefix normalizes value into the namespace given by prefix.
// An already prefixed value is not prefixed twice. Empty values stay empty.
func WithPrefix(prefix, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return Normalize(prefix + Normalize(value))
}

// Brand returns the MARCA_* token for a brand name.
func Brand(name string) string {
	n := Normalize(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, BrandPrefix) {
		return n
	}
	return BrandPrefix + n
}

// KindOf reports the namespace of a normalized label.
func KindOf(label string) Kind {
	switch {
	case strings.HasPrefix(label, CategoryPrefix):
		return KindCategory
	case strings.HasPrefix(label, IntentPrefix):
		return KindIntent
	case strings.HasPrefix(label, AttributePrefix):
		return KindAttribute
	case strings.HasPrefix(label, BrandPrefix):
		return KindBrand
	default:
		return KindUnknown
	}
}

// Fold lowercases s and strips diacritics and other non-ASCII runes.
// It is used for case- and accent-insensitive substring matching.
func Fold(s string) string {
	return strings.ToLower(asciiFold(s))
}

func asciiFold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(t, s)
	if err != nil {
		decomposed = s
	}
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '-', '.', '/', ':', ';', ',':
		return true
	}
	return false
}

func collapsePrefix(s, prefix string) string {
	for strings.HasPrefix(s, prefix+prefix) {
		s = s[len(prefix):]
	}
	return s
}
