// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize rewrites verse CSV datasets in place, deriving the
// reference and abbreviation columns from the numeric book, chapter and
// verse columns.
//
// Input columns are id, book_id, chapter, verse plus any others (text).
// Output renames id to reference and book_id to book, overwrites reference
// with "{Name} {chapter}:{verse}" and inserts abbreviation right after it.
// Already-normalized files are accepted, so normalizing is idempotent.
package normalize

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/scripture-csv/internal/books"
	"github.com/pdiddy/scripture-csv/internal/csvfile"
	"github.com/pdiddy/scripture-csv/internal/logging"
	"github.com/pdiddy/scripture-csv/internal/manifest"
	"github.com/pdiddy/scripture-csv/pkg/types"
)

const (
	colID           = "id"
	colBookID       = "book_id"
	colReference    = "reference"
	colAbbreviation = "abbreviation"
	colBook         = "book"
	colChapter      = "chapter"
	colVerse        = "verse"
)

// progressOutput receives the batch progress bar. Tests replace it.
var progressOutput io.Writer = os.Stderr

// BatchResult holds the outcome of a batch normalization run.
type BatchResult struct {
	Normalized int
	Unchanged  int
	Failed     int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Normalized + r.Unchanged + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Table normalizes t in place. Any row with a missing or non-integer
// book, chapter or verse, or a book outside 1-66, fails the whole table.
func Table(t *csvfile.Table) error {
	if err := renameColumn(t, colID, colReference); err != nil {
		return err
	}
	if err := renameColumn(t, colBookID, colBook); err != nil {
		return err
	}

	refCol := t.Column(colReference)
	if refCol < 0 {
		return fmt.Errorf("missing %q or %q column", colID, colReference)
	}
	bookCol := t.Column(colBook)
	if bookCol < 0 {
		return fmt.Errorf("missing %q or %q column", colBookID, colBook)
	}
	chapterCol := t.Column(colChapter)
	if chapterCol < 0 {
		return fmt.Errorf("missing %q column", colChapter)
	}
	verseCol := t.Column(colVerse)
	if verseCol < 0 {
		return fmt.Errorf("missing %q column", colVerse)
	}

	abbrevs := make([]string, len(t.Rows))
	for i, rec := range t.Rows {
		line := i + 2 // header is line 1
		book, err := intField(rec, bookCol, colBook)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		chapter, err := intField(rec, chapterCol, colChapter)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		verse, err := intField(rec, verseCol, colVerse)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		b, err := books.Lookup(book)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		rec[refCol] = books.Reference(b, chapter, verse)
		abbrevs[i] = books.Abbreviation(b, chapter, verse)
	}

	// A previous run's abbreviation column is dropped and rebuilt so it
	// always sits right after reference.
	if col := t.Column(colAbbreviation); col >= 0 {
		removeColumn(t, col)
		if col < refCol {
			refCol--
		}
	}
	insertColumn(t, refCol+1, colAbbreviation, abbrevs)
	t.Numeric = nil
	return nil
}

// File normalizes the dataset at path and rewrites it atomically. When the
// normalized output equals the current contents the file is not touched
// and StatusUnchanged is returned. rows is the number of data rows.
func File(path string, log logrus.FieldLogger) (status types.DatasetStatus, rows int, err error) {
	log = logging.OrDiscard(log).WithField("file", path)
	defer logging.Track(log, "normalize")()

	original, err := os.ReadFile(path)
	if err != nil {
		return types.StatusFailed, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	t, err := csvfile.Parse(bytes.NewReader(original))
	if err != nil {
		return types.StatusFailed, 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := Table(t); err != nil {
		return types.StatusFailed, 0, fmt.Errorf("normalizing %s: %w", path, err)
	}

	var out bytes.Buffer
	if err := csvfile.Encode(&out, t); err != nil {
		return types.StatusFailed, 0, fmt.Errorf("encoding %s: %w", path, err)
	}
	if bytes.Equal(out.Bytes(), original) {
		log.Debug("already normalized")
		return types.StatusUnchanged, len(t.Rows), nil
	}

	err = csvfile.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(out.Bytes())
		return err
	})
	if err != nil {
		return types.StatusFailed, 0, err
	}
	log.WithField("rows", len(t.Rows)).Info("normalized dataset")
	return types.StatusNormalized, len(t.Rows), nil
}

// Batch normalizes each path in turn, printing per-file status to w and
// returning a summary. It continues after individual failures. Written
// files are recorded in cfg.Manifest when set.
func Batch(paths []string, cfg types.NormalizeConfig, log logrus.FieldLogger, w io.Writer) BatchResult {
	log = logging.OrDiscard(log)

	var bar *progressbar.ProgressBar
	if cfg.Progress && len(paths) > 0 {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(progressOutput),
			progressbar.OptionSetDescription("normalizing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var result BatchResult
	for _, p := range paths {
		name := filepath.Base(p)
		status, rows, err := File(p, log)
		if err == nil && status == types.StatusNormalized {
			if mErr := manifest.Record(cfg.Manifest, p, manifest.KindNormalized, rows); mErr != nil {
				log.WithError(mErr).WithField("file", p).Warn("manifest not updated")
			}
		}

		switch status {
		case types.StatusNormalized:
			fmt.Fprintf(w, "normalized: %s (%d rows)\n", name, rows)
			result.Normalized++
		case types.StatusUnchanged:
			fmt.Fprintf(w, "unchanged: %s (%d rows)\n", name, rows)
			result.Unchanged++
		default:
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
		}

		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	fmt.Fprintf(w, "\nBatch summary: %d normalized, %d unchanged, %d failed (total: %d)\n",
		result.Normalized, result.Unchanged, result.Failed, result.Total())
	return result
}

func intField(rec []string, col int, name string) (int, error) {
	if col >= len(rec) {
		return 0, fmt.Errorf("missing %s value", name)
	}
	n, err := strconv.Atoi(strings.TrimSpace(rec[col]))
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", name, rec[col])
	}
	return n, nil
}

// renameColumn renames from to to. Having both columns is ambiguous.
func renameColumn(t *csvfile.Table, from, to string) error {
	col := t.Column(from)
	if col < 0 {
		return nil
	}
	if t.Column(to) >= 0 {
		return fmt.Errorf("both %q and %q columns present", from, to)
	}
	t.Header[col] = to
	return nil
}

func removeColumn(t *csvfile.Table, col int) {
	t.Header = append(t.Header[:col], t.Header[col+1:]...)
	for i, rec := range t.Rows {
		if col < len(rec) {
			t.Rows[i] = append(rec[:col], rec[col+1:]...)
		}
	}
}

func insertColumn(t *csvfile.Table, col int, name string, values []string) {
	t.Header = insertAt(t.Header, col, name)
	for i, rec := range t.Rows {
		t.Rows[i] = insertAt(rec, col, values[i])
	}
}

func insertAt(s []string, i int, v string) []string {
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
