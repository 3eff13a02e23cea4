// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/scripture-csv/internal/books"
)

var booksCmd = &cobra.Command{
	Use:   "books [name]",
	Short: "Print the book lookup table, or resolve a book name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all := books.All()
		if len(args) == 1 {
			b, err := books.Resolve(args[0])
			if err != nil {
				return err
			}
			all = all[b.Number-1 : b.Number]
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "Name", "Abbreviation", "Aliases"})
		for _, b := range all {
			t.AppendRow(table.Row{b.Number, b.Name, b.Abbreviation, strings.Join(b.Aliases, ", ")})
		}
		t.Render()
		fmt.Fprintf(cmd.OutOrStdout(), "(%d books)\n", len(all))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(booksCmd)
}
