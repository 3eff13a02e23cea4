// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package books holds the canonical 66-book lookup table and derives
// reference and abbreviation strings from numeric book/chapter/verse fields.
package books

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/scripture-csv/pkg/types"
)

// Count is the number of books in the canonical table.
const Count = 66

// ErrUnknownBook is returned for a book number outside 1-66 or a name
// that matches no book.
var ErrUnknownBook = errors.New("unknown book")

// table is indexed by book number; slot 0 is unused.
var table = [Count + 1]types.Book{
	{},
	// Old Testament
	entry(1, "Genesis", "Gn", "gen", "ge"),
	entry(2, "Exodus", "Ex", "exod", "exo"),
	entry(3, "Leviticus", "Lv", "lev", "le"),
	entry(4, "Numbers", "Nm", "num", "nu", "nb"),
	entry(5, "Deuteronomy", "Dt", "deut", "de"),
	entry(6, "Joshua", "Jos", "josh", "jsh"),
	entry(7, "Judges", "Jdg", "judg", "jg", "jdgs"),
	entry(8, "Ruth", "Rt", "rth", "ru"),
	entry(9, "1 Samuel", "1Sm", "1sam", "1sa"),
	entry(10, "2 Samuel", "2Sm", "2sam", "2sa"),
	entry(11, "1 Kings", "1Kg", "1kgs", "1ki", "1kin"),
	entry(12, "2 Kings", "2Kg", "2kgs", "2ki", "2kin"),
	entry(13, "1 Chronicles", "1Ch", "1chron", "1chr"),
	entry(14, "2 Chronicles", "2Ch", "2chron", "2chr"),
	entry(15, "Ezra", "Ezr", "ez"),
	entry(16, "Nehemiah", "Neh", "ne"),
	entry(17, "Esther", "Est", "esth", "es"),
	entry(18, "Job", "Jb"),
	entry(19, "Psalm", "Ps", "psalms", "psa", "pslm", "psm", "pss"),
	entry(20, "Proverbs", "Prv", "prov", "pro", "pr"),
	entry(21, "Ecclesiastes", "Ecc", "eccles", "eccle", "ec", "qoh"),
	entry(22, "Song of Solomon", "SoS", "song of songs", "song", "canticles"),
	entry(23, "Isaiah", "Is", "isa"),
	entry(24, "Jeremiah", "Jer", "je", "jr"),
	entry(25, "Lamentations", "Lm", "lam", "la"),
	entry(26, "Ezekiel", "Ezk", "ezek", "eze"),
	entry(27, "Daniel", "Dn", "dan", "da"),
	entry(28, "Hosea", "Hos", "ho"),
	entry(29, "Joel", "Jl"),
	entry(30, "Amos", "Am"),
	entry(31, "Obadiah", "Ob", "obad"),
	entry(32, "Jonah", "Jon", "jnh"),
	entry(33, "Micah", "Mic", "mc"),
	entry(34, "Nahum", "Nah", "na"),
	entry(35, "Habakkuk", "Hab", "hb"),
	entry(36, "Zephaniah", "Zep", "zeph", "zp"),
	entry(37, "Haggai", "Hag", "hg"),
	entry(38, "Zechariah", "Zec", "zech", "zc"),
	entry(39, "Malachi", "Mal", "ml"),
	// New Testament
	entry(40, "Matthew", "Mt", "matt"),
	entry(41, "Mark", "Mk", "mrk", "mar", "mr"),
	entry(42, "Luke", "Lk", "luk"),
	entry(43, "John", "Jn", "joh", "jhn"),
	entry(44, "Acts", "Ac", "act"),
	entry(45, "Romans", "Rm", "rom", "ro"),
	entry(46, "1 Corinthians", "1Co", "1cor"),
	entry(47, "2 Corinthians", "2Co", "2cor"),
	entry(48, "Galatians", "Gal", "ga"),
	entry(49, "Ephesians", "Eph", "ephes"),
	entry(50, "Philippians", "Php", "phil", "pp"),
	entry(51, "Colossians", "Col"),
	entry(52, "1 Thessalonians", "1Th", "1thess", "1thes"),
	entry(53, "2 Thessalonians", "2Th", "2thess", "2thes"),
	entry(54, "1 Timothy", "1Tm", "1tim", "1ti"),
	entry(55, "2 Timothy", "2Tm", "2tim", "2ti"),
	entry(56, "Titus", "Ti", "tit"),
	entry(57, "Philemon", "Phm", "philem", "pm"),
	entry(58, "Hebrews", "Heb"),
	entry(59, "James", "Jas", "jm"),
	entry(60, "1 Peter", "1Pt", "1pet", "1pe"),
	entry(61, "2 Peter", "2Pt", "2pet", "2pe"),
	entry(62, "1 John", "1Jn", "1jhn", "1joh", "1jo"),
	entry(63, "2 John", "2Jn", "2jhn", "2joh", "2jo"),
	entry(64, "3 John", "3Jn", "3jhn", "3joh", "3jo"),
	entry(65, "Jude", "Jd", "jud"),
	entry(66, "Revelation", "Rev", "re", "revelations"),
}

func entry(n int, name, abbr string, aliases ...string) types.Book {
	return types.Book{Number: n, Name: name, Abbreviation: abbr, Aliases: aliases}
}

// byName maps a folded name, abbreviation or alias to a book number.
var byName = buildNameIndex()

// Lookup returns the book with canonical number n.
func Lookup(n int) (types.Book, error) {
	if n < 1 || n > Count {
		return types.Book{}, fmt.Errorf("book number %d: %w", n, ErrUnknownBook)
	}
	return table[n], nil
}

// MustLookup is like Lookup but panics on an out-of-range number.
// It is intended for tables and tests with known-good input.
func MustLookup(n int) types.Book {
	b, err := Lookup(n)
	if err != nil {
		panic(err)
	}
	return b
}

// All returns the table in canonical order. The returned slice is a copy.
func All() []types.Book {
	out := make([]types.Book, Count)
	copy(out, table[1:])
	return out
}

// Reference formats "{Name} {chapter}:{verse}".
func Reference(b types.Book, chapter, verse int) string {
	return fmt.Sprintf("%s %d:%d", b.Name, chapter, verse)
}

// Abbreviation formats "{Abbreviation}{chapter}:{verse}".
func Abbreviation(b types.Book, chapter, verse int) string {
	return fmt.Sprintf("%s%d:%d", b.Abbreviation, chapter, verse)
}

// NewVerse builds a Verse with its derived fields filled in. It fails with
// ErrUnknownBook when book is outside 1-66.
func NewVerse(book, chapter, verse int, text string) (types.Verse, error) {
	b, err := Lookup(book)
	if err != nil {
		return types.Verse{}, err
	}
	return types.Verse{
		Reference:    Reference(b, chapter, verse),
		Abbreviation: Abbreviation(b, chapter, verse),
		Book:         book,
		Chapter:      chapter,
		Verse:        verse,
		Text:         text,
	}, nil
}

// Resolve finds the book whose name, abbreviation or alias matches name.
// Matching ignores case, accents, spaces and periods, and accepts roman
// numeral and ordinal prefixes ("I John", "First John", "1st John").
func Resolve(name string) (types.Book, error) {
	key := Fold(name)
	if n, ok := byName[key]; ok {
		return table[n], nil
	}
	return types.Book{}, fmt.Errorf("book %q: %w", name, ErrUnknownBook)
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold reduces a book name to its lookup key: accents stripped,
// lower-cased, with spaces, periods, hyphens and underscores removed.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '.', '-', '_':
			return -1
		}
		return unicode.ToLower(r)
	}, folded)
}

// numberedPrefixes maps a leading book digit to the spoken forms accepted
// in its place.
var numberedPrefixes = map[byte][]string{
	'1': {"i", "first", "1st"},
	'2': {"ii", "second", "2nd"},
	'3': {"iii", "third", "3rd"},
}

// buildNameIndex indexes every explicit key first, then adds the
// generated prefix variants only where they do not shadow an explicit key
// ("isa" stays Isaiah even though "1 Sa" -> "I Sa" would also produce it).
func buildNameIndex() map[string]int {
	idx := make(map[string]int, Count*8)
	for n := 1; n <= Count; n++ {
		for _, k := range keys(table[n]) {
			idx[k] = n
		}
	}
	for n := 1; n <= Count; n++ {
		for _, k := range keys(table[n]) {
			variants, ok := numberedPrefixes[k[0]]
			if !ok {
				continue
			}
			for _, v := range variants {
				if _, taken := idx[v+k[1:]]; !taken {
					idx[v+k[1:]] = n
				}
			}
		}
	}
	return idx
}

func keys(b types.Book) []string {
	out := make([]string, 0, len(b.Aliases)+2)
	out = append(out, Fold(b.Name), Fold(b.Abbreviation))
	for _, a := range b.Aliases {
		out = append(out, Fold(a))
	}
	return out
}
