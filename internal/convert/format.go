// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/scripture-csv/internal/books"
	"github.com/pdiddy/scripture-csv/internal/csvfile"
	"github.com/pdiddy/scripture-csv/internal/logging"
	"github.com/pdiddy/scripture-csv/pkg/types"
)

// Header is the column layout of every converted dataset.
var Header = []string{"reference", "abbreviation", "book", "chapter", "verse", "scripture"}

// headerNumeric marks book, chapter and verse as bare numeric columns.
var headerNumeric = []bool{false, false, true, true, true, false}

var (
	// ErrNoSeparator marks a line without the "::" book separator. Such
	// lines are leftovers from untagged markup and are skipped quietly.
	ErrNoSeparator = errors.New("no book separator")

	// ErrTooFewFields marks a line whose remainder lacks chapter, verse
	// and text.
	ErrTooFewFields = errors.New("fewer than three fields after book")
)

// ParseLine turns one cleaned line of the form
//
//	book::chapter,verse, "text"
//
// into a verse. Surrounding quotes on the text are removed.
func ParseLine(line string) (types.Verse, error) {
	bookPart, rest, ok := strings.Cut(strings.TrimSpace(line), "::")
	if !ok {
		return types.Verse{}, ErrNoSeparator
	}
	fields := strings.SplitN(rest, ",", 3)
	if len(fields) < 3 {
		return types.Verse{}, ErrTooFewFields
	}

	book, err := atoi("book", bookPart)
	if err != nil {
		return types.Verse{}, err
	}
	chapter, err := atoi("chapter", fields[0])
	if err != nil {
		return types.Verse{}, err
	}
	verse, err := atoi("verse", fields[1])
	if err != nil {
		return types.Verse{}, err
	}

	return books.NewVerse(book, chapter, verse, unquote(strings.TrimSpace(fields[2])))
}

// Format parses each line into a row of the output table. Lines that do
// not parse are skipped and counted; those that look like verse lines are
// logged at warn level with their 1-based position in lines.
func Format(lines []string, log logrus.FieldLogger) (*csvfile.Table, int) {
	log = logging.OrDiscard(log)
	t := &csvfile.Table{Header: Header, Numeric: headerNumeric}
	skipped := 0
	for i, line := range lines {
		v, err := ParseLine(line)
		if err != nil {
			skipped++
			entry := log.WithFields(logrus.Fields{"line": i + 1, "text": line})
			if errors.Is(err, ErrNoSeparator) {
				entry.Debug("skipping line without book separator")
			} else {
				entry.WithError(err).Warn("skipping malformed verse line")
			}
			continue
		}
		t.Rows = append(t.Rows, row(v))
	}
	return t, skipped
}

func row(v types.Verse) []string {
	return []string{
		v.Reference,
		v.Abbreviation,
		strconv.Itoa(v.Book),
		strconv.Itoa(v.Chapter),
		strconv.Itoa(v.Verse),
		v.Text,
	}
}

func atoi(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", name, strings.TrimSpace(s))
	}
	return n, nil
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
