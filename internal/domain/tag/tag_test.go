package tag

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"CAT_CAT_NOTEBOOK", "CAT_NOTEBOOK"},
		{"INT_INT_INT_GAMING", "INT_GAMING"},
		{"ATTR_ATTR_ECONOMICO", "ATTR_ECONOMICO"},
		{"Diseño Gráfico", "DISENO_GRAFICO"},
		{"  cat_cat_notebook  ", "CAT_NOTEBOOK"},
		{"pc-de escritorio", "PC_DE_ESCRITORIO"},
		{"a . b / c : d ; e , f", "A_B_C_D_E_F"},
		{"_CAT__CAT_X_", "CAT_X"},
		{"cat cat notebook", "CAT_NOTEBOOK"},
		{"INT_INT_CAT_CAT_X", "INT_CAT_CAT_X"},
		{"MARCA_MARCA_X", "MARCA_MARCA_X"},
		{"CAT_", "CAT"},
		{"CAT_CAT", "CAT_CAT"},
		{"ﬁltro", "FILTRO"},
		{"tab\tand\nnewline", "TAB_AND_NEWLINE"},
		{"", ""},
		{"   ", ""},
		{"---", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"CAT_CAT_NOTEBOOK", "int_int_gaming", "Diseño Gráfico", "_CAT__CAT_X_",
		"ATTR__ATTR__ECONOMICO", "cat - cat - monitor", "ﬁ", "Ñandú", "  ",
		"ATTR_2_EN_1", "CAT_INT_ATTR_X", "x__y", "Notebook 15.6\" / i7", "über-größe",
		"INT_INT", "ATTR_", "__", "MARCA_Lenovo", "日本語",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		prefix, value, want string
	}{
		{CategoryPrefix, "notebook", "CAT_NOTEBOOK"},
		{CategoryPrefix, "CAT_NOTEBOOK", "CAT_NOTEBOOK"},
		{IntentPrefix, "Diseño", "INT_DISENO"},
		{AttributePrefix, "2 en 1", "ATTR_2_EN_1"},
		{AttributePrefix, "  ", ""},
	}
	for _, tc := range tests {
		if got := WithPrefix(tc.prefix, tc.value); got != tc.want {
			t.Errorf("WithPrefix(%q, %q) = %q, want %q", tc.prefix, tc.value, got, tc.want)
		}
	}
}

func TestBrand(t *testing.T) {
	if got := Brand("Lenovo"); got != "MARCA_LENOVO" {
		t.Errorf("expected MARCA_LENOVO, got %q", got)
	}
	if got := Brand("marca_lenovo"); got != "MARCA_LENOVO" {
		t.Errorf("expected MARCA_LENOVO, got %q", got)
	}
	if got := Brand(""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"CAT_NOTEBOOK":   KindCategory,
		"INT_GAMING":     KindIntent,
		"ATTR_RGB":       KindAttribute,
		"MARCA_LENOVO":   KindBrand,
		"NOTEBOOK":       KindUnknown,
		"":               KindUnknown,
		"CATEGORY_THING": KindUnknown,
	}
	for label, want := range tests {
		if got := KindOf(label); got != want {
			t.Errorf("KindOf(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("Notebook DISEÑO Gráfico"); got != "notebook diseno grafico" {
		t.Errorf("unexpected fold: %q", got)
	}
}

func TestNormalizePredictions_Policies(t *testing.T) {
	raw := []Score{
		{Label: "CAT_CAT_NOTEBOOK", Weight: 0.9},
		{Label: "int_gaming", Weight: 0.8},
		{Label: "cat notebook", Weight: 0.4},
		{Label: "   ", Weight: 1.0},
	}

	tests := []struct {
		policy CollisionPolicy
		want   float64
	}{
		{LastWins, 0.4},
		{"", 0.4},
		{MaxWeight, 0.9},
		{SumWeights, 1.3},
	}

	for _, tc := range tests {
		t.Run(string(tc.policy), func(t *testing.T) {
			w := NormalizePredictions(raw, tc.policy)
			if len(w) != 2 {
				t.Fatalf("expected 2 labels, got %d: %v", len(w), w)
			}
			if math.Abs(w["CAT_NOTEBOOK"]-tc.want) > 1e-9 {
				t.Errorf("CAT_NOTEBOOK = %f, want %f", w["CAT_NOTEBOOK"], tc.want)
			}
			if w["INT_GAMING"] != 0.8 {
				t.Errorf("INT_GAMING = %f, want 0.8", w["INT_GAMING"])
			}
		})
	}
}

func TestNormalizePredictions_Empty(t *testing.T) {
	w := NormalizePredictions(nil, LastWins)
	if len(w) != 0 {
		t.Fatalf("expected empty weights, got %v", w)
	}
	if _, ok := w.Get("CAT_NOTEBOOK"); ok {
		t.Error("expected missing label")
	}
}

func TestParseCollisionPolicy(t *testing.T) {
	p, err := ParseCollisionPolicy("")
	if err != nil || p != LastWins {
		t.Errorf("expected LastWins, got %q (%v)", p, err)
	}
	if _, err := ParseCollisionPolicy("average"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestFromMap_SortedByLabel(t *testing.T) {
	scores := FromMap(map[string]float64{"b": 2, "a": 1, "c": 3})
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	for i, want := range []string{"a", "b", "c"} {
		if scores[i].Label != want {
			t.Errorf("scores[%d] = %q, want %q", i, scores[i].Label, want)
		}
	}
}

func TestWeights_Above(t *testing.T) {
	w := Weights{"INT_GAMING": 0.9, "CAT_NOTEBOOK": 0.9, "ATTR_RGB": 0.5, "INT_OFICINA": 0.7}
	top := w.Above(0.5)
	if len(top) != 3 {
		t.Fatalf("expected 3 labels above 0.5, got %d", len(top))
	}
	want := []string{"CAT_NOTEBOOK", "INT_GAMING", "INT_OFICINA"}
	for i, l := range want {
		if top[i].Label != l {
			t.Errorf("top[%d] = %q, want %q", i, top[i].Label, l)
		}
	}
}

func TestWeights_Sorted(t *testing.T) {
	w := Weights{"INT_GAMING": 0.9, "ATTR_RGB": 0, "CAT_MONITOR": -0.4, "CAT_NOTEBOOK": 0.9}
	got := w.Sorted()
	want := []Score{
		{Label: "CAT_NOTEBOOK", Weight: 0.9},
		{Label: "INT_GAMING", Weight: 0.9},
		{Label: "ATTR_RGB", Weight: 0},
		{Label: "CAT_MONITOR", Weight: -0.4},
	}
	if len(got) != len(want) {
		t.Fatalf("Sorted() = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sorted()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
