// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/scripture-csv/internal/index"
	"github.com/pdiddy/scripture-csv/internal/reference"
	"github.com/pdiddy/scripture-csv/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the SQLite verse index (build, lookup, search, export)",
	Long: `Index loads normalized CSV datasets into a local SQLite database keyed by
translation (the upper-cased file name: KJV.csv is KJV) and answers
reference lookups against it.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build [datasets...]",
	Short: "Load normalized CSV datasets into the index",
	Long: `Build reads each normalized CSV dataset into the index. Datasets whose
modification time has not changed since the last build are skipped; a
changed dataset replaces its translation. With no arguments the
normalize.files setting is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		paths := args
		if len(paths) == 0 {
			paths = cfg.Normalize.Files
		}
		if len(paths) == 0 {
			return errors.New("no datasets given: pass CSV paths or set normalize.files")
		}

		store, err := index.NewStore(cfg.Index, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.Ingest(cmd.Context(), paths, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d dataset(s) failed indexing", summary.Failed)
		}
		return nil
	},
}

// --- lookup subcommand ---

var indexLookupCmd = &cobra.Command{
	Use:   "lookup <reference>",
	Short: "Print the verses of a reference such as \"Gn 1:1-3\" or \"John 3\"",
	Long: `Lookup prints the verses of a reference. With --next or --previous it
prints that many verses after or before the reference instead, crossing
chapter and book boundaries.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := reference.Parse(strings.Join(args, " "))
		if err != nil {
			return err
		}
		next, _ := cmd.Flags().GetInt("next")
		previous, _ := cmd.Flags().GetInt("previous")

		cfg := pipelineConfig().Index
		store, err := index.NewStore(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		var verses []types.Verse
		switch {
		case next > 0:
			verses, err = store.Next(cmd.Context(), cfg.Translation, r, next)
		case previous > 0:
			verses, err = store.Previous(cmd.Context(), cfg.Translation, r, previous)
		default:
			verses, err = store.Lookup(cmd.Context(), cfg.Translation, r)
		}
		if err != nil {
			return err
		}
		return renderVerses(cmd, verses)
	},
}

// --- random subcommand ---

var indexRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print a random verse",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig().Index
		store, err := index.NewStore(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		v, err := store.Random(cmd.Context(), cfg.Translation)
		if err != nil {
			return err
		}
		return renderVerses(cmd, []types.Verse{v})
	},
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search <phrase>",
	Short: "Find verses whose text contains a phrase",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg := pipelineConfig().Index
		store, err := index.NewStore(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		verses, err := store.Search(cmd.Context(), cfg.Translation, strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		return renderVerses(cmd, verses)
	},
}

// --- translations subcommand ---

var indexTranslationsCmd = &cobra.Command{
	Use:   "translations",
	Short: "List indexed translations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.NewStore(pipelineConfig().Index, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		translations, err := store.Translations(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Translation", "Verses", "Source"})
		for _, tr := range translations {
			t.AppendRow(table.Row{tr.Code, tr.Rows, tr.SourcePath})
		}
		t.Render()
		return nil
	},
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a translation to YAML or JSON",
	Long: `Export writes every verse of the selected translation to
<index-dir>/<TRANSLATION>.yaml or .json.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		cfg := pipelineConfig().Index
		store, err := index.NewStore(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		path, err := store.Export(cmd.Context(), cfg.Translation, format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	},
}

// --- shared helpers ---

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderVerses(cmd *cobra.Command, verses []types.Verse) error {
	w := cmd.OutOrStdout()
	if len(verses) == 0 {
		fmt.Fprintln(w, "(0 verses)")
		return nil
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Reference", "Abbreviation", "Scripture"})
	for _, v := range verses {
		t.AppendRow(table.Row{v.Reference, v.Abbreviation, v.Text})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 80}})
	t.Render()
	fmt.Fprintf(w, "(%d verses)\n", len(verses))
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("index-dir", "index", "directory holding verses.db and exports")
	indexCmd.PersistentFlags().String("translation", "KJV", "translation code to query")
	indexCmd.PersistentFlags().Int("max-results", 20, "default maximum number of search results")
	bindFlag(indexCmd.PersistentFlags().Lookup("index-dir"), "index.dir")
	bindFlag(indexCmd.PersistentFlags().Lookup("translation"), "index.translation")
	bindFlag(indexCmd.PersistentFlags().Lookup("max-results"), "index.max_results")

	indexLookupCmd.Flags().Int("next", 0, "print this many verses after the reference")
	indexLookupCmd.Flags().Int("previous", 0, "print this many verses before the reference")
	indexLookupCmd.MarkFlagsMutuallyExclusive("next", "previous")

	indexSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use max-results)")

	indexExportCmd.Flags().String("format", index.FormatYAML, "export format: yaml or json")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexLookupCmd)
	indexCmd.AddCommand(indexRandomCmd)
	indexCmd.AddCommand(indexSearchCmd)
	indexCmd.AddCommand(indexTranslationsCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
