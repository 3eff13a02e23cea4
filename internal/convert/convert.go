// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a tagged markup dump into a verse CSV dataset.
//
// The pipeline has three stages run in memory over the input lines:
// LineFilter drops structural lines, TagCleaner strips inline tags and
// quotes the text, and Format parses "book::chapter,verse, text" lines
// into rows. The result is written once, atomically.
package convert

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/scripture-csv/internal/csvfile"
	"github.com/pdiddy/scripture-csv/internal/logging"
	"github.com/pdiddy/scripture-csv/internal/manifest"
	"github.com/pdiddy/scripture-csv/pkg/types"
)

const maxLineSize = 1 << 20

// Stats counts lines through each stage of one conversion.
type Stats struct {
	Lines   int // lines read from the input
	Dropped int // structural lines removed by the filter
	Rows    int // verse rows written
	Skipped int // cleaned lines that did not parse
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the number of inputs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any input failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline holds the configured stages.
type Pipeline struct {
	Filter  LineFilter
	Cleaner TagCleaner
	log     logrus.FieldLogger
}

// NewPipeline builds a pipeline from cfg, falling back to the built-in
// tag sets and text marker for empty fields.
func NewPipeline(cfg types.ConvertConfig, log logrus.FieldLogger) *Pipeline {
	structural := cfg.StructuralTags
	if len(structural) == 0 {
		structural = DefaultStructuralTags
	}
	inline := cfg.InlineTags
	if len(inline) == 0 {
		inline = DefaultInlineTags
	}
	marker := cfg.TextMarker
	if marker == "" {
		marker = DefaultTextMarker
	}
	return &Pipeline{
		Filter:  LineFilter{Tags: structural},
		Cleaner: TagCleaner{Tags: inline, Marker: marker},
		log:     logging.OrDiscard(log),
	}
}

// Run passes lines through all three stages.
func (p *Pipeline) Run(lines []string) (*csvfile.Table, Stats) {
	st := Stats{Lines: len(lines)}
	kept, dropped := p.Filter.Apply(lines)
	st.Dropped = dropped
	p.log.WithFields(logrus.Fields{"kept": len(kept), "dropped": dropped}).Debug("filtered structural lines")

	cleaned := p.Cleaner.Apply(kept)

	t, skipped := Format(cleaned, p.log)
	st.Rows = len(t.Rows)
	st.Skipped = skipped
	return t, st
}

// ReadLines splits r into lines. A leading UTF-8 BOM and trailing carriage
// returns are removed.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var lines []string
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// File converts cfg.Input into cfg.Output. The output is replaced
// atomically, so a failed run leaves any previous output intact.
func File(cfg types.ConvertConfig, log logrus.FieldLogger) (Stats, error) {
	log = logging.OrDiscard(log).WithField("input", cfg.Input)
	defer logging.Track(log, "convert")()

	if cfg.Output == "" {
		cfg.Output = OutputPath(cfg.Input)
	}

	f, err := os.Open(cfg.Input)
	if err != nil {
		return Stats{}, fmt.Errorf("opening %s: %w", cfg.Input, err)
	}
	lines, err := ReadLines(f)
	f.Close()
	if err != nil {
		return Stats{}, fmt.Errorf("reading %s: %w", cfg.Input, err)
	}

	t, st := NewPipeline(cfg, log).Run(lines)
	if err := csvfile.WriteFile(cfg.Output, t); err != nil {
		return st, err
	}
	log.WithFields(logrus.Fields{
		"output":  cfg.Output,
		"rows":    st.Rows,
		"skipped": st.Skipped,
	}).Info("converted dataset")

	if err := manifest.Record(cfg.Manifest, cfg.Output, manifest.KindConverted, st.Rows); err != nil {
		log.WithError(err).Warn("manifest not updated")
	}
	return st, nil
}

// OutputPath derives the CSV path for a markup input by swapping its
// extension for ".csv".
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".csv"
}

// Batch converts each input, printing per-file status to w and returning
// a summary. cfg.Output applies only when there is a single input; for
// several inputs each output path is derived from its input.
func Batch(inputs []string, cfg types.ConvertConfig, log logrus.FieldLogger, w io.Writer) BatchResult {
	var result BatchResult
	for _, in := range inputs {
		c := cfg
		c.Input = in
		if len(inputs) > 1 || c.Output == "" {
			c.Output = OutputPath(in)
		}

		name := filepath.Base(in)
		st, err := File(c, log)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "converted: %s -> %s (%d rows, %d skipped)\n",
			name, filepath.Base(c.Output), st.Rows, st.Skipped)
		result.Converted++
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}
