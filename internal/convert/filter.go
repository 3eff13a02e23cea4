// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "strings"

// DefaultStructuralTags mark book, chapter and section boundaries. A line
// carrying any of them is dropped whole.
var DefaultStructuralTags = []string{"<BN>", "<CN>", "<SH>", "<SB>", "<SN>", "<SF>", "<SS>"}

// LineFilter drops lines that contain a structural tag.
type LineFilter struct {
	Tags []string
}

// Drops reports whether line carries one of the filter's tags.
func (f LineFilter) Drops(line string) bool {
	for _, tag := range f.Tags {
		if strings.Contains(line, tag) {
			return true
		}
	}
	return false
}

// Apply returns the lines that survive the filter, in their original
// order, and the number dropped.
func (f LineFilter) Apply(lines []string) (kept []string, dropped int) {
	kept = make([]string, 0, len(lines))
	for _, line := range lines {
		if f.Drops(line) {
			dropped++
			continue
		}
		kept = append(kept, line)
	}
	return kept, dropped
}
