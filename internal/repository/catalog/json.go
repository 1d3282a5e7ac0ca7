package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagrank/internal/domain/product"
)

// JSONSource reads a catalog from a JSON array or a JSON Lines file.
type JSONSource struct {
	path   string
	logger *zap.Logger
}

// NewJSONSource creates a JSON source.
func NewJSONSource(path string, logger *zap.Logger) *JSONSource {
	return &JSONSource{path: path, logger: logger}
}

// Name implements Source.
func (s *JSONSource) Name() string { return KindJSON }

// Load implements Source.
func (s *JSONSource) Load(_ context.Context) ([]product.Product, error) {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", s.path, err)
	}
	rows, err := ReadJSON(data)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	return decodeAll(KindJSON, rows, s.logger), nil
}

// ReadJSON parses either one array of objects or a stream of objects.
// Non-string values are kept in their JSON form, so list fields reach the
// attribute parser unchanged.
func ReadJSON(data []byte) ([]Row, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty file")
	}

	var objects []map[string]json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &objects); err != nil {
			return nil, fmt.Errorf("decode array: %w", err)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		for {
			var obj map[string]json.RawMessage
			err := dec.Decode(&obj)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("decode object %d: %w", len(objects)+1, err)
			}
			objects = append(objects, obj)
		}
	}

	rows := make([]Row, 0, len(objects))
	for _, obj := range objects {
		rows = append(rows, rowFrom(func(column string) (string, bool) {
			raw, ok := obj[column]
			if !ok {
				return "", false
			}
			return rawString(raw), true
		}))
	}
	return rows, nil
}

// rawString unquotes JSON strings, maps null to blank and passes everything else through.
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
