package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
)

// CSVSource reads a catalog from a CSV file with a header row.
type CSVSource struct {
	path   string
	logger *zap.Logger
}

// NewCSVSource creates a CSV source.
func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

// Name implements Source.
func (s *CSVSource) Name() string { return KindCSV }

// Load implements Source.
func (s *CSVSource) Load(_ context.Context) ([]product.Product, error) {
	f, err := os.Open(filepath.Clean(s.path))
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	return decodeAll(KindCSV, rows, s.logger), nil
}

// ReadCSV parses CSV records into raw rows. Short records are padded with blanks.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rowFrom(func(column string) (string, bool) {
			i, ok := index[column]
			if !ok {
				return "", false
			}
			if i >= len(rec) {
				return "", true
			}
			return rec[i], true
		}))
	}
	return rows, nil
}
