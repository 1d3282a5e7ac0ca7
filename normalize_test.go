package tagrank

import "testing"

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"cat_cat_notebook": "CAT_NOTEBOOK",
		"Diseño gráfico":   "DISENO_GRAFICO",
		"  int-gaming  ":   "INT_GAMING",
		"":                 "",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeLabels_Policies(t *testing.T) {
	in := []Label{
		{Label: "cat notebook", Score: 0.4},
		{Label: "CAT_NOTEBOOK", Score: 0.3},
		{Label: "int_gaming", Score: 0.9},
	}
	tests := []struct {
		policy string
		want   float64
	}{
		{"", 0.3},
		{"last_wins", 0.3},
		{"max", 0.4},
		{"sum", 0.7},
	}
	for _, tc := range tests {
		t.Run("policy="+tc.policy, func(t *testing.T) {
			got, err := NormalizeLabels(in, tc.policy)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 2 || got[0].Label != "INT_GAMING" {
				t.Fatalf("labels = %+v", got)
			}
			if d := got[1].Score - tc.want; d > 1e-9 || d < -1e-9 {
				t.Errorf("CAT_NOTEBOOK = %v, want %v", got[1].Score, tc.want)
			}
		})
	}
}

func TestNormalizeLabels_Errors(t *testing.T) {
	if _, err := NormalizeLabels(nil, "avg"); err == nil {
		t.Error("expected error for unknown policy")
	}
	got, err := NormalizeLabels([]Label{{Label: "  ", Score: 1}}, "")
	if err != nil || got != nil {
		t.Errorf("blank labels: got %+v err %v", got, err)
	}
}
