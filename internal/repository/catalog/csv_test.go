package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestReadCSV_Aliases(t *testing.T) {
	data := "\ufeffsku_id,Title,brand_name,categoria_detectada,intencion_detectada,atributos_list,list_price,sale_price\n" +
		`A1,Notebook Gamer X,Acme,CAT_NOTEBOOK,INT_GAMING,"['ATTR_GRAFICA_DEDICADA']",1000,900` + "\n" +
		"A2,Monitor 4K,Acme,CAT_MONITOR\n"

	rows, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	r := rows[0]
	if r.ID != "A1" || r.Title != "Notebook Gamer X" || r.Brand != "Acme" ||
		r.CategoryTag != "CAT_NOTEBOOK" || r.IntentTag != "INT_GAMING" ||
		r.Attributes != "['ATTR_GRAFICA_DEDICADA']" || r.ListPrice != "1000" || r.SalePrice != "900" {
		t.Errorf("row 1 = %+v", r)
	}
	if rows[1].CategoryTag != "CAT_MONITOR" || rows[1].IntentTag != "" || rows[1].SalePrice != "" {
		t.Errorf("short row not padded: %+v", rows[1])
	}
}

func TestReadCSV_AliasPriority(t *testing.T) {
	data := "categoria_principal,category_tag\nCAT_B,CAT_A\n"
	rows, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].CategoryTag != "CAT_A" {
		t.Errorf("category_tag should win over later aliases, got %q", rows[0].CategoryTag)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
	rows, err := ReadCSV(strings.NewReader("title,brand\n"))
	if err != nil || len(rows) != 0 {
		t.Errorf("header only: rows=%d err=%v", len(rows), err)
	}
}

func TestCSVSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "productos.csv")
	data := "id,title,brand_name,category_tag,intent_tag,attribute_tags,list_price\n" +
		"1,Notebook Lenovo ThinkPad,Lenovo,CAT_NOTEBOOK,INT_OFICINA,[],oops\n" +
		"2,Monitor Samsung,Samsung,CAT_MONITOR,,,\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	src := NewCSVSource(path, zap.NewNop())
	if src.Name() != KindCSV {
		t.Errorf("name = %q", src.Name())
	}
	products, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products = %d (malformed rows must be kept)", len(products))
	}
	if products[0].ListPrice() != 0 || products[1].BrandKey() != "SAMSUNG" {
		t.Errorf("unexpected products: %v %q", products[0].ListPrice(), products[1].BrandKey())
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), zap.NewNop())
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("expected error")
	}
}
