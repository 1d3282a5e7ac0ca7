package catalog

import (
	"context"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
)

// SampleSource serves a small built-in Lenovo catalog. Its rows carry only
// storefront categories, so tags come from the storefront mapping.
type SampleSource struct{}

// Name implements Source.
func (SampleSource) Name() string { return KindSample }

// Load implements Source.
func (SampleSource) Load(_ context.Context) ([]product.Product, error) {
	return Sample(), nil
}

// Sample returns a fresh copy of the built-in catalog.
func Sample() []product.Product {
	fields := []product.Fields{
		{
			ID: "20KH001UAR", Title: "Notebook Lenovo ThinkPad X1 Carbon", Brand: "Lenovo",
			Categories: []string{"Notebooks", "Ultrabooks"}, ListPrice: 250000, SalePrice: 225000,
		},
		{
			ID: "81Y4000QAR", Title: "Notebook Lenovo IdeaPad 3", Brand: "Lenovo",
			Categories: []string{"Notebooks", "Gamer"}, ListPrice: 180000, SalePrice: 162000,
		},
		{
			ID: "82BJ000BAR", Title: "Notebook Lenovo Yoga 7i", Brand: "Lenovo",
			Categories: []string{"Notebooks", "2 en 1"}, ListPrice: 220000, SalePrice: 198000,
		},
		{
			ID: "11T3000VAR", Title: "PC Lenovo ThinkCentre M70q", Brand: "Lenovo",
			Categories: []string{"PC de Escritorio", "Mini PC"}, ListPrice: 150000, SalePrice: 135000,
		},
		{
			ID: "61B8GAR1AR", Title: "Monitor Lenovo ThinkVision T24i", Brand: "Lenovo",
			Categories: []string{"Monitores", "4K"}, ListPrice: 120000, SalePrice: 108000,
		},
	}

	out := make([]product.Product, 0, len(fields))
	for _, f := range fields {
		p, err := product.New(f)
		if err != nil {
			// static data, prices are valid
			panic(err)
		}
		out = append(out, p)
	}
	return out
}
