// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scripture-csv/internal/csvfile"
	"github.com/pdiddy/scripture-csv/pkg/types"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportDocument is the layout of an exported translation.
type ExportDocument struct {
	Translation string        `json:"translation" yaml:"translation"`
	Verses      []types.Verse `json:"verses" yaml:"verses"`
}

// ExportYAML writes the translation to <dir>/<CODE>.yaml and returns the
// path written.
func (s *Store) ExportYAML(ctx context.Context, translation string) (string, error) {
	return s.export(ctx, translation, FormatYAML)
}

// ExportJSON writes the translation to <dir>/<CODE>.json and returns the
// path written.
func (s *Store) ExportJSON(ctx context.Context, translation string) (string, error) {
	return s.export(ctx, translation, FormatJSON)
}

// Export dispatches on format, one of FormatYAML or FormatJSON.
func (s *Store) Export(ctx context.Context, translation, format string) (string, error) {
	switch format {
	case FormatYAML, FormatJSON:
		return s.export(ctx, translation, format)
	default:
		return "", fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}
}

func (s *Store) export(ctx context.Context, translation, format string) (string, error) {
	code := strings.ToUpper(translation)
	verses, err := s.All(ctx, code)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	if len(verses) == 0 {
		return "", fmt.Errorf("translation %s: %w", code, ErrNotFound)
	}
	doc := ExportDocument{Translation: code, Verses: verses}

	var data []byte
	if format == FormatJSON {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", format, err)
	}

	path := filepath.Join(s.dir, code+"."+format)
	err = csvfile.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
