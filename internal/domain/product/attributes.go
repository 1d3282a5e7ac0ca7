package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/tagrank/internal/domain"
)

// Record is the structured attribute cell some catalogs carry in a single column:
// {'categoria': 'CAT_X', 'intencion': 'INT_Y', 'atributos': ['ATTR_A']}.
type Record struct {
	Category   string
	Intent     string
	Attributes []string
}

// ParseAttributeList parses a serialized list of attribute tags.
// Both JSON arrays and Python list or tuple literals are accepted.
// Blank input is an empty list; anything else that fails to parse
// returns ErrMalformedAttributeEncoding.
func ParseAttributeList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	raw, err := literalToJSON(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedAttributeEncoding, err)
	}
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedAttributeEncoding, err)
	}
	return stringItems(items)
}

// ParseAttributeRecord parses a serialized attribute record.
// Spanish and English keys are both recognized.
func ParseAttributeRecord(s string) (Record, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Record{}, nil
	}

	raw, err := literalToJSON(s)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", domain.ErrMalformedAttributeEncoding, err)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return Record{}, fmt.Errorf("%w: %v", domain.ErrMalformedAttributeEncoding, err)
	}

	var rec Record
	rec.Category = stringField(m, "categoria", "category")
	rec.Intent = stringField(m, "intencion", "intent")
	for _, k := range []string{"atributos", "attributes"} {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		items, ok := v.([]any)
		if !ok {
			return Record{}, fmt.Errorf("%w: %q is not a list", domain.ErrMalformedAttributeEncoding, k)
		}
		attrs, err := stringItems(items)
		if err != nil {
			return Record{}, err
		}
		rec.Attributes = attrs
		break
	}
	return rec, nil
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}

func stringItems(items []any) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T, want string", domain.ErrMalformedAttributeEncoding, i, it)
		}
		out = append(out, s)
	}
	return out, nil
}

var errUnterminated = errors.New("unterminated string")

// literalToJSON rewrites a Python literal (single-quoted strings, tuples,
// True/False/None, trailing commas) into JSON.
func literalToJSON(s string) (string, error) {
	out := make([]byte, 0, len(s)+8)
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"':
			str, n, err := readQuoted(s[i:])
			if err != nil {
				return "", err
			}
			enc, err := json.Marshal(str)
			if err != nil {
				return "", err
			}
			out = append(out, enc...)
			i += n
		case isIdentByte(c) && !isDigit(c):
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			switch s[i:j] {
			case "True", "true":
				out = append(out, "true"...)
			case "False", "false":
				out = append(out, "false"...)
			case "None", "null":
				out = append(out, "null"...)
			default:
				return "", fmt.Errorf("unexpected identifier %q", s[i:j])
			}
			i = j
		case c == '(' || c == '[':
			out = append(out, '[')
			i++
		case c == ')' || c == ']' || c == '}':
			out = trimTrailingComma(out)
			if c == ')' {
				c = ']'
			}
			out = append(out, c)
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out), nil
}

func readQuoted(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch c {
		case quote:
			return b.String(), i + 1, nil
		case '\\':
			i++
			if i >= len(s) {
				return "", 0, errUnterminated
			}
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errUnterminated
}

func trimTrailingComma(b []byte) []byte {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == '\t' || b[end-1] == '\n' || b[end-1] == '\r') {
		end--
	}
	if end > 0 && b[end-1] == ',' {
		return b[:end-1]
	}
	return b
}

func isIdentByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
