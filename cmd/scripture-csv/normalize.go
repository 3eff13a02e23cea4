// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scripture-csv/internal/normalize"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [files...]",
	Short: "Add reference and abbreviation columns to CSV datasets in place",
	Long: `Normalize rewrites each CSV dataset in place. The id column becomes
reference ("Genesis 1:1"), book_id becomes book, and an abbreviation column
("Gn1:1") is inserted after reference. Non-numeric fields are quoted.

Files already in normalized shape are recomputed and left untouched when
nothing changes. A file with a malformed row is not modified; the batch
continues with the next file. With no arguments the normalize.files
setting is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig().Normalize
		files := args
		if len(files) == 0 {
			files = cfg.Files
		}
		if len(files) == 0 {
			return errors.New("no files given: pass CSV paths or set normalize.files")
		}

		result := normalize.Batch(files, cfg, logger, cmd.OutOrStdout())
		if result.HasFailures() {
			return fmt.Errorf("%d file(s) failed normalization", result.Failed)
		}
		return nil
	},
}

func init() {
	normalizeCmd.Flags().Bool("progress", false, "show a progress bar on stderr")
	normalizeCmd.Flags().String("manifest", "", "manifest file to record written datasets in")

	bindFlag(normalizeCmd.Flags().Lookup("progress"), "normalize.progress")
	bindFlag(normalizeCmd.Flags().Lookup("manifest"), "normalize.manifest")

	rootCmd.AddCommand(normalizeCmd)
}
