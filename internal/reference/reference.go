// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reference parses human-written verse references such as
// "Genesis 1:1", "Gn1:1-3", "1 John 4" or "Song of Solomon 2:4".
package reference

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/pdiddy/scripture-csv/internal/books"
	"github.com/pdiddy/scripture-csv/pkg/types"
)

// ErrInvalidReference is wrapped by every Parse failure.
var ErrInvalidReference = errors.New("invalid reference")

// expr is the parsed form before the book name is resolved.
type expr struct {
	Book     string `@Book`
	Chapter  int    `@Number`
	Verse    *int   `( ":" @Number`
	VerseEnd *int   `  ( "-" @Number )? )?`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	// A book may start with 1-3 and run over several words, each with an
	// optional trailing period: "1 John", "1Jn", "Gen.", "Song of Solomon".
	{Name: "Book", Pattern: `(?:[1-3]\s*)?\pL+\.?(?:\s+\pL+\.?)*`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[expr](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Range is a span of verses within one chapter. VerseStart and VerseEnd
// are zero for a whole-chapter reference.
type Range struct {
	Book       types.Book
	Chapter    int
	VerseStart int
	VerseEnd   int
}

// WholeChapter reports whether r names a chapter without verses.
func (r Range) WholeChapter() bool {
	return r.VerseStart == 0
}

// Contains reports whether chapter:verse falls inside r.
func (r Range) Contains(chapter, verse int) bool {
	if chapter != r.Chapter {
		return false
	}
	return r.WholeChapter() || (verse >= r.VerseStart && verse <= r.VerseEnd)
}

// String formats r with the book's full name.
func (r Range) String() string {
	switch {
	case r.WholeChapter():
		return fmt.Sprintf("%s %d", r.Book.Name, r.Chapter)
	case r.VerseStart == r.VerseEnd:
		return books.Reference(r.Book, r.Chapter, r.VerseStart)
	default:
		return fmt.Sprintf("%s %d:%d-%d", r.Book.Name, r.Chapter, r.VerseStart, r.VerseEnd)
	}
}

// Parse reads a reference of the form "Book Chapter[:Verse[-VerseEnd]]".
// The book is matched with books.Resolve, so abbreviations and aliases
// are accepted. A single verse has VerseEnd equal to VerseStart.
func Parse(s string) (Range, error) {
	e, err := parser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return Range{}, fmt.Errorf("%w %q: %v", ErrInvalidReference, s, err)
	}

	b, err := books.Resolve(e.Book)
	if err != nil {
		return Range{}, fmt.Errorf("%w %q: %w", ErrInvalidReference, s, err)
	}

	r := Range{Book: b, Chapter: e.Chapter}
	if e.Verse != nil {
		r.VerseStart = *e.Verse
		r.VerseEnd = *e.Verse
		if e.VerseEnd != nil {
			r.VerseEnd = *e.VerseEnd
		}
	}

	switch {
	case r.Chapter < 1:
		return Range{}, fmt.Errorf("%w %q: chapter must be positive", ErrInvalidReference, s)
	case e.Verse != nil && r.VerseStart < 1:
		return Range{}, fmt.Errorf("%w %q: verse must be positive", ErrInvalidReference, s)
	case r.VerseEnd < r.VerseStart:
		return Range{}, fmt.Errorf("%w %q: range ends before it starts", ErrInvalidReference, s)
	}
	return r, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Range {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}
