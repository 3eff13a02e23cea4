// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package csvfile reads and writes the flat CSV datasets. Output quotes
// every non-numeric field and the header row, and files are replaced
// atomically through a temporary file in the target directory.
package csvfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Table is a parsed CSV file: a header row and its records.
type Table struct {
	Header []string
	Rows   [][]string

	// Numeric marks columns written without quotes. When nil, a column is
	// numeric if every value in it parses as a number.
	Numeric []bool
}

// Column returns the index of the named header column, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Read parses the CSV file at path.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a header row and all records from r. A leading UTF-8 BOM is
// ignored. Every record must have as many fields as the header.
func Parse(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Encode writes t to w. The header and non-numeric fields are quoted with
// embedded quotes doubled; numeric columns are written bare.
func Encode(w io.Writer, t *Table) error {
	numeric := t.Numeric
	if numeric == nil {
		numeric = inferNumeric(t)
	}

	bw := bufio.NewWriter(w)
	writeRecord(bw, t.Header, nil)
	for _, rec := range t.Rows {
		writeRecord(bw, rec, numeric)
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, rec []string, numeric []bool) {
	for i, field := range rec {
		if i > 0 {
			w.WriteByte(',')
		}
		if i < len(numeric) && numeric[i] {
			w.WriteString(field)
			continue
		}
		w.WriteString(Quote(field))
	}
	w.WriteByte('\n')
}

// Quote wraps s in double quotes, doubling any quotes inside it.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// inferNumeric reports, per column, whether every row holds a number.
// A table without rows has no numeric columns.
func inferNumeric(t *Table) []bool {
	numeric := make([]bool, len(t.Header))
	if len(t.Rows) == 0 {
		return numeric
	}
	for col := range numeric {
		numeric[col] = true
		for _, rec := range t.Rows {
			if col >= len(rec) || !IsNumber(rec[col]) {
				numeric[col] = false
				break
			}
		}
	}
	return numeric
}

// IsNumber reports whether s is a bare integer or decimal number.
func IsNumber(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// WriteFile encodes t and atomically replaces path with the result.
func WriteFile(path string, t *Table) error {
	return WriteAtomic(path, func(w io.Writer) error {
		return Encode(w, t)
	})
}

// WriteAtomic writes to a temporary file next to path and renames it over
// path once write and close both succeed. On failure the original file is
// left untouched and the temporary file is removed.
func WriteAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".scripture-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writeErr := write(tmpFile)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
