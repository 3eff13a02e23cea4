// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LogConfig holds settings for diagnostic logging.
type LogConfig struct {
	// Level is a logrus level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format selects the log formatter: text or json.
	Format string `json:"format" yaml:"format"`
}

// NormalizeConfig holds settings for the CSV normalizer.
type NormalizeConfig struct {
	// Files lists the CSV datasets to normalize in place when no paths are
	// given on the command line.
	Files []string `json:"files" yaml:"files"`

	// Manifest is the manifest file updated after each written dataset.
	// Empty disables manifest recording.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`

	// Progress enables a progress bar on stderr for batch runs.
	Progress bool `json:"progress" yaml:"progress"`
}

// ConvertConfig holds settings for the markup-to-CSV converter.
type ConvertConfig struct {
	// Input is the tagged markup file (e.g. "bibles/LSB.xml").
	Input string `json:"input" yaml:"input"`

	// Output is the CSV file written by the converter (e.g. "bibles/LSB.csv").
	Output string `json:"output" yaml:"output"`

	// StructuralTags lists tags whose lines are dropped entirely.
	// Empty uses the built-in set.
	StructuralTags []string `json:"structural_tags,omitempty" yaml:"structural_tags,omitempty"`

	// InlineTags lists tags removed from every line, applied in order.
	// Empty uses the built-in set.
	InlineTags []string `json:"inline_tags,omitempty" yaml:"inline_tags,omitempty"`

	// TextMarker introduces the scripture text on a verse line.
	// Empty uses "<T>".
	TextMarker string `json:"text_marker,omitempty" yaml:"text_marker,omitempty"`

	// Manifest is the manifest file updated after the output is written.
	// Empty disables manifest recording.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}

// IndexConfig holds settings for the SQLite verse index.
type IndexConfig struct {
	// Dir is the directory holding verses.db and exports.
	Dir string `json:"dir" yaml:"dir"`

	// Translation is the default translation code for lookups (e.g. "KJV").
	Translation string `json:"translation" yaml:"translation"`

	// MaxResults limits text search results. Zero uses the store default.
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Log       LogConfig       `json:"log" yaml:"log"`
	Normalize NormalizeConfig `json:"normalize" yaml:"normalize"`
	Convert   ConvertConfig   `json:"convert" yaml:"convert"`
	Index     IndexConfig     `json:"index" yaml:"index"`
}
