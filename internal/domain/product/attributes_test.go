package product

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/tagrank/internal/domain"
)

func TestParseAttributeList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`["ATTR_A", "ATTR_B"]`, []string{"ATTR_A", "ATTR_B"}},
		{`['ATTR_A', 'ATTR_B']`, []string{"ATTR_A", "ATTR_B"}},
		{`('ATTR_A', 'ATTR_B',)`, []string{"ATTR_A", "ATTR_B"}},
		{`['ATTR_A', ]`, []string{"ATTR_A"}},
		{`['it\'s', "Diseño"]`, []string{"it's", "Diseño"}},
		{`[]`, []string{}},
		{``, nil},
		{`   `, nil},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAttributeList(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestParseAttributeList_Malformed(t *testing.T) {
	inputs := []string{
		`ATTR_A, ATTR_B`,
		`['ATTR_A'`,
		`['unterminated]`,
		`[1, 2]`,
		`{'a': 1}`,
	}
	for _, in := range inputs {
		_, err := ParseAttributeList(in)
		if !errors.Is(err, domain.ErrMalformedAttributeEncoding) {
			t.Errorf("ParseAttributeList(%q): expected ErrMalformedAttributeEncoding, got %v", in, err)
		}
	}
}

func TestParseAttributeRecord(t *testing.T) {
	in := `{'categoria': 'CAT_NOTEBOOK', 'intencion': 'INT_GAMING', 'atributos': ['ATTR_RGB', 'ATTR_POTENTE'], 'extra': None}`
	rec, err := ParseAttributeRecord(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Category != "CAT_NOTEBOOK" || rec.Intent != "INT_GAMING" {
		t.Errorf("got %+v", rec)
	}
	if len(rec.Attributes) != 2 || rec.Attributes[1] != "ATTR_POTENTE" {
		t.Errorf("attributes = %v", rec.Attributes)
	}
}

func TestParseAttributeRecord_EnglishKeys(t *testing.T) {
	rec, err := ParseAttributeRecord(`{"category": "CAT_MOUSE", "attributes": ["ATTR_RGB"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Category != "CAT_MOUSE" || len(rec.Attributes) != 1 {
		t.Errorf("got %+v", rec)
	}
}

func TestParseAttributeRecord_Malformed(t *testing.T) {
	for _, in := range []string{`{'atributos': 'ATTR_A'}`, `[1]`, `{oops}`} {
		if _, err := ParseAttributeRecord(in); !errors.Is(err, domain.ErrMalformedAttributeEncoding) {
			t.Errorf("ParseAttributeRecord(%q): expected ErrMalformedAttributeEncoding, got %v", in, err)
		}
	}
}
