// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "strings"

// DefaultTextMarker introduces the scripture text on a verse line.
const DefaultTextMarker = "<T>"

// DefaultInlineTags are removed from every line, in this order. "<PN>-"
// must come before "<PN>" so the dash goes with it.
var DefaultInlineTags = []string{
	"<RS>", "<RS>+", "</RS>", "+",
	"<C>", "<A>", "<PM>", "<V>", "<P>", "<CP>", "<CC>", `<\>`, "</>",
	"<PO>", "<PN>-", "<B>", "</B>", "<HL>", "<HLL>", "<LL>", "<LLL>",
	"<PN>", "<PR>", "<SHI>", "</SHI>", "<BR>", "</BR>",
}

// braceReplacer turns the "{{book::chapter}}verse" prefix into
// "book::chapter,verse".
var braceReplacer = []struct{ old, new string }{
	{"{{", ""},
	{"}}", ","},
}

// TagCleaner strips inline formatting tags and quotes the scripture text.
type TagCleaner struct {
	Tags   []string
	Marker string
}

// Clean applies the brace replacements and tag removals in order. When the
// text marker is present the line becomes
//
//	prefix + `, "` + trimmed text + `"`
//
// where prefix precedes the first marker; further markers in the text are
// dropped.
func (c TagCleaner) Clean(line string) string {
	for _, r := range braceReplacer {
		line = strings.ReplaceAll(line, r.old, r.new)
	}
	for _, tag := range c.Tags {
		line = strings.ReplaceAll(line, tag, "")
	}

	marker := c.Marker
	if marker == "" {
		marker = DefaultTextMarker
	}
	prefix, text, found := strings.Cut(line, marker)
	if !found {
		return line
	}
	text = strings.ReplaceAll(text, marker, "")
	return prefix + `, "` + strings.TrimSpace(text) + `"`
}

// Apply cleans every line.
func (c TagCleaner) Apply(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = c.Clean(line)
	}
	return out
}
