package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kailas-cloud/tagrank"
)

func TestRun_KeywordSample(t *testing.T) {
	var out bytes.Buffer
	o := &options{query: "notebook gamer", topK: 2, classifier: "keyword", preset: "default"}
	if err := run(context.Background(), o, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	s := out.String()
	if !strings.Contains(s, `Results for "notebook gamer" (classifier)`) {
		t.Errorf("missing header:\n%s", s)
	}
	if !strings.Contains(s, "1. Notebook Lenovo IdeaPad 3") {
		t.Errorf("expected the gamer notebook first:\n%s", s)
	}
	if strings.Contains(s, "\n3. ") {
		t.Errorf("more than two results:\n%s", s)
	}
	if !strings.Contains(s, "Detected labels:") || !strings.Contains(s, "CAT_NOTEBOOK 0.90") {
		t.Errorf("missing labels:\n%s", s)
	}
}

func TestRun_JSON(t *testing.T) {
	var out bytes.Buffer
	o := &options{query: "lenovo", topK: 3, classifier: "none", preset: "default", asJSON: true}
	if err := run(context.Background(), o, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var resp tagrank.Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if resp.Mode != tagrank.ModeFallback || len(resp.Results) != 3 {
		t.Errorf("mode=%q results=%d", resp.Mode, len(resp.Results))
	}
}

func TestRun_Errors(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	tests := []struct {
		name string
		o    options
	}{
		{"unknown classifier", options{classifier: "spacy", preset: "default"}},
		{"openai without key", options{classifier: "openai", preset: "default"}},
		{"unknown preset", options{classifier: "none", preset: "v9"}},
		{"missing catalog", options{classifier: "none", preset: "default", catalog: "/nonexistent/productos.csv"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := run(context.Background(), &tc.o, &bytes.Buffer{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRender(t *testing.T) {
	resp := &tagrank.Response{
		Mode: tagrank.ModeClassifier,
		Results: []tagrank.Result{{
			Product: tagrank.Product{
				Title: "Notebook Gamer X", Brand: "Acme", CategoryTag: "CAT_NOTEBOOK",
				AttributeTags: []string{"ATTR_A", "ATTR_B", "ATTR_C", "ATTR_D"},
				ListPrice:     1000, SalePrice: 900,
			},
			Score:   8.4,
			Reasons: []string{"category", "intent"},
		}},
		HighConfidence: []tagrank.Label{{Label: "CAT_NOTEBOOK", Score: 0.9}},
	}

	var out bytes.Buffer
	render(&out, "gamer", resp)
	s := out.String()

	for _, want := range []string{
		"1. Notebook Gamer X",
		"price: $900.00 (list $1000.00)",
		"brand: Acme  category: CAT_NOTEBOOK  intent: -",
		"score: 8.40 [category, intent]",
		"attributes: ATTR_A, ATTR_B, ATTR_C\n",
		"CAT_NOTEBOOK 0.90",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "ATTR_D") {
		t.Errorf("more than %d attributes shown:\n%s", maxShownAttributes, s)
	}
}

func TestRender_ListPriceOnly(t *testing.T) {
	resp := &tagrank.Response{
		Mode: tagrank.ModeFallback,
		Results: []tagrank.Result{
			{Product: tagrank.Product{Title: "Monitor 4K", ListPrice: 250000}},
			{Product: tagrank.Product{Title: "Mouse"}},
		},
	}

	var out bytes.Buffer
	render(&out, "monitor", resp)
	s := out.String()

	if !strings.Contains(s, "price: $250000.00\n") {
		t.Errorf("list price not shown:\n%s", s)
	}
	if !strings.Contains(s, "price: -\n") {
		t.Errorf("expected dash for a product without prices:\n%s", s)
	}
}

func TestRun_NonPositiveK(t *testing.T) {
	for _, k := range []int{0, -1} {
		var out bytes.Buffer
		o := &options{query: "notebook gamer", topK: k, classifier: "keyword", preset: "default"}
		if err := run(context.Background(), o, &out); err != nil {
			t.Fatalf("run: %v", err)
		}
		if !strings.Contains(out.String(), "No products found.") || strings.Contains(out.String(), "1. ") {
			t.Errorf("k=%d printed results:\n%s", k, out.String())
		}
	}
}

func TestRender_Empty(t *testing.T) {
	var out bytes.Buffer
	render(&out, "", &tagrank.Response{Mode: tagrank.ModeUnranked})
	if !strings.Contains(out.String(), "No products found.") {
		t.Errorf("output = %q", out.String())
	}
}
