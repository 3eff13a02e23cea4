// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scripture-csv/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [inputs...]",
	Short: "Convert a tagged markup dump into a verse CSV dataset",
	Long: `Convert reads a line-oriented tagged markup file, drops structural lines
(book, chapter and section headings), strips inline formatting tags and
writes one CSV row per verse:

  "reference","abbreviation","book","chapter","verse","scripture"

Lines that do not parse as verses are skipped and logged. With several
inputs each output is written next to its input with a .csv extension.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig().Convert
		inputs := args
		if len(inputs) == 0 && cfg.Input != "" {
			inputs = []string{cfg.Input}
		}
		if len(inputs) == 0 {
			return errors.New("no input given: pass a markup file or set convert.input")
		}

		result := convert.Batch(inputs, cfg, logger, cmd.OutOrStdout())
		if result.HasFailures() {
			return fmt.Errorf("%d input(s) failed conversion", result.Failed)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().String("input", "bibles/LSB.xml", "tagged markup file to convert")
	convertCmd.Flags().String("output", "", "CSV file to write (default: input with .csv extension)")
	convertCmd.Flags().String("text-marker", convert.DefaultTextMarker, "tag that introduces the scripture text")
	convertCmd.Flags().String("manifest", "", "manifest file to record written datasets in")

	bindFlag(convertCmd.Flags().Lookup("input"), "convert.input")
	bindFlag(convertCmd.Flags().Lookup("output"), "convert.output")
	bindFlag(convertCmd.Flags().Lookup("text-marker"), "convert.text_marker")
	bindFlag(convertCmd.Flags().Lookup("manifest"), "convert.manifest")

	rootCmd.AddCommand(convertCmd)
}
