// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the dataset
// pipelines and the verse index.
package types

// Book is one entry of the canonical 66-book lookup table.
type Book struct {
	// Number is the canonical position, 1 (Genesis) through 66 (Revelation).
	Number int `json:"number" yaml:"number"`

	// Name is the full display name used in references (e.g. "Song of Solomon").
	Name string `json:"name" yaml:"name"`

	// Abbreviation is the short form used in abbreviated references (e.g. "SoS").
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`

	// Aliases lists alternate spellings accepted when resolving a typed
	// book name. Name and Abbreviation are always accepted and are not
	// repeated here.
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Verse is a single normalized dataset row. Reference and Abbreviation are
// derived from Book, Chapter and Verse and are always recomputed.
type Verse struct {
	// Reference is "{Name} {Chapter}:{Verse}", e.g. "Genesis 1:1".
	Reference string `json:"reference" yaml:"reference"`

	// Abbreviation is "{Abbreviation}{Chapter}:{Verse}", e.g. "Gn1:1".
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`

	Book    int `json:"book" yaml:"book"`
	Chapter int `json:"chapter" yaml:"chapter"`
	Verse   int `json:"verse" yaml:"verse"`

	// Text is the scripture text with all markup removed.
	Text string `json:"scripture" yaml:"scripture"`
}
