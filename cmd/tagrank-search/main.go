// Command tagrank-search runs one query against a catalog and prints the ranking.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kailas-cloud/tagrank"
)

const maxShownAttributes = 3

type options struct {
	query      string
	topK       int
	catalog    string
	classifier string
	model      string
	preset     string
	timeout    time.Duration
	asJSON     bool
	verbose    bool
}

func main() {
	_ = godotenv.Load()

	var o options
	flag.StringVar(&o.query, "q", "", "search query (empty lists the catalog unranked)")
	flag.IntVar(&o.topK, "k", 5, "number of results (0 or less prints none)")
	flag.StringVar(&o.catalog, "catalog", "", "catalog file (.csv, .json, .jsonl); empty uses the built-in sample")
	flag.StringVar(&o.classifier, "classifier", "keyword", "query classifier: keyword, openai or none")
	flag.StringVar(&o.model, "model", "gpt-4o-mini", "chat model for the openai classifier")
	flag.StringVar(&o.preset, "preset", "default", "scoring preset: default, recommender, storefront or combined")
	flag.DurationVar(&o.timeout, "timeout", 5*time.Second, "classifier timeout")
	flag.BoolVar(&o.asJSON, "json", false, "print the response as JSON")
	flag.BoolVar(&o.verbose, "v", false, "log engine operations to stderr")
	flag.Parse()

	if o.query == "" && flag.NArg() > 0 {
		o.query = strings.Join(flag.Args(), " ")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, &o, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "tagrank-search:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, w io.Writer) error {
	opts, err := engineOptions(o)
	if err != nil {
		return err
	}
	engine, err := tagrank.New(opts...)
	if err != nil {
		return err
	}

	resp, err := engine.Search(ctx, tagrank.Query{Text: o.query, TopK: &o.topK})
	if err != nil {
		return err
	}

	if o.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	render(w, o.query, &resp)
	return nil
}

func engineOptions(o *options) ([]tagrank.Option, error) {
	opts := []tagrank.Option{
		tagrank.WithPreset(o.preset),
		tagrank.WithClassifierTimeout(o.timeout),
	}
	if o.catalog != "" {
		opts = append(opts, tagrank.WithCatalogFile(o.catalog))
	} else {
		opts = append(opts, tagrank.WithSampleCatalog())
	}

	switch o.classifier {
	case "none":
	case "keyword":
		opts = append(opts, tagrank.WithClassifier(tagrank.KeywordClassifier()))
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, errors.New("OPENAI_API_KEY is not set")
		}
		opts = append(opts, tagrank.WithClassifier(tagrank.OpenAIClassifier(tagrank.OpenAIConfig{
			APIKey:  key,
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   o.model,
		})))
	default:
		return nil, fmt.Errorf("unknown classifier %q", o.classifier)
	}

	if o.verbose {
		opts = append(opts, tagrank.WithLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	return opts, nil
}

// render prints the ranking followed by the high-confidence labels.
func render(w io.Writer, query string, resp *tagrank.Response) {
	if strings.TrimSpace(query) == "" {
		fmt.Fprintf(w, "Catalog (%s)\n\n", resp.Mode)
	} else {
		fmt.Fprintf(w, "Results for %q (%s)\n\n", query, resp.Mode)
	}

	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No products found.")
	}
	for i := range resp.Results {
		r := &resp.Results[i]
		p := &r.Product
		fmt.Fprintf(w, "%d. %s\n", i+1, p.Title)
		if p.SalePrice > 0 {
			fmt.Fprintf(w, "   price: %s", formatPrice(p.SalePrice))
			if p.ListPrice > p.SalePrice {
				fmt.Fprintf(w, " (list %s)", formatPrice(p.ListPrice))
			}
		} else {
			fmt.Fprintf(w, "   price: %s", formatPrice(p.ListPrice))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "   brand: %s  category: %s  intent: %s\n",
			orDash(p.Brand), orDash(p.CategoryTag), orDash(p.IntentTag))
		if resp.Mode != tagrank.ModeUnranked {
			fmt.Fprintf(w, "   score: %.2f", r.Score)
			if len(r.Reasons) > 0 {
				fmt.Fprintf(w, " [%s]", strings.Join(r.Reasons, ", "))
			}
			fmt.Fprintln(w)
		}
		if attrs := p.AttributeTags; len(attrs) > 0 {
			if len(attrs) > maxShownAttributes {
				attrs = attrs[:maxShownAttributes]
			}
			fmt.Fprintf(w, "   attributes: %s\n", strings.Join(attrs, ", "))
		}
	}

	if len(resp.HighConfidence) > 0 {
		fmt.Fprintln(w, "\nDetected labels:")
		for _, l := range resp.HighConfidence {
			fmt.Fprintf(w, "   %s %.2f\n", l.Label, l.Score)
		}
	}
}

func formatPrice(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("$%.2f", v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
