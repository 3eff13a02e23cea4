// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/scripture-csv/internal/reference"
	"github.com/pdiddy/scripture-csv/pkg/types"
)

const verseColumns = `reference, abbreviation, book, chapter, verse, text`

// lastVerse stands in for "after every verse of the chapter".
const lastVerse = 1 << 30

// Translation describes one indexed dataset.
type Translation struct {
	Code       string `json:"code" yaml:"code"`
	SourcePath string `json:"source_path" yaml:"source_path"`
	Rows       int    `json:"rows" yaml:"rows"`
}

// Translations lists the indexed translations by code.
func (s *Store) Translations(ctx context.Context) ([]Translation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, source_path, rows FROM translations ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing translations: %w", err)
	}
	defer rows.Close()

	var out []Translation
	for rows.Next() {
		var t Translation
		if err := rows.Scan(&t.Code, &t.SourcePath, &t.Rows); err != nil {
			return nil, fmt.Errorf("scanning translation: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Lookup returns the verses of r in canonical order.
func (s *Store) Lookup(ctx context.Context, translation string, r reference.Range) ([]types.Verse, error) {
	q := `SELECT ` + verseColumns + ` FROM verses
		WHERE translation = ? AND book = ? AND chapter = ?`
	args := []any{strings.ToUpper(translation), r.Book.Number, r.Chapter}
	if !r.WholeChapter() {
		q += ` AND verse BETWEEN ? AND ?`
		args = append(args, r.VerseStart, r.VerseEnd)
	}
	q += ` ORDER BY verse`

	verses, err := s.queryVerses(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if len(verses) == 0 {
		return nil, fmt.Errorf("%s in %s: %w", r, strings.ToUpper(translation), ErrNotFound)
	}
	return verses, nil
}

// Next returns up to n verses following r in canonical order, crossing
// chapter and book boundaries.
func (s *Store) Next(ctx context.Context, translation string, r reference.Range, n int) ([]types.Verse, error) {
	end := r.VerseEnd
	if r.WholeChapter() {
		end = lastVerse
	}
	return s.queryVerses(ctx,
		`SELECT `+verseColumns+` FROM verses
		 WHERE translation = ? AND (book, chapter, verse) > (?, ?, ?)
		 ORDER BY book, chapter, verse LIMIT ?`,
		strings.ToUpper(translation), r.Book.Number, r.Chapter, end, n)
}

// Previous returns up to n verses preceding r, in canonical order.
func (s *Store) Previous(ctx context.Context, translation string, r reference.Range, n int) ([]types.Verse, error) {
	verses, err := s.queryVerses(ctx,
		`SELECT `+verseColumns+` FROM verses
		 WHERE translation = ? AND (book, chapter, verse) < (?, ?, ?)
		 ORDER BY book DESC, chapter DESC, verse DESC LIMIT ?`,
		strings.ToUpper(translation), r.Book.Number, r.Chapter, r.VerseStart, n)
	if err != nil {
		return nil, err
	}
	slices.Reverse(verses)
	return verses, nil
}

// Random returns one verse chosen uniformly from the translation.
func (s *Store) Random(ctx context.Context, translation string) (types.Verse, error) {
	verses, err := s.queryVerses(ctx,
		`SELECT `+verseColumns+` FROM verses WHERE translation = ? ORDER BY RANDOM() LIMIT 1`,
		strings.ToUpper(translation))
	if err != nil {
		return types.Verse{}, err
	}
	if len(verses) == 0 {
		return types.Verse{}, fmt.Errorf("translation %s: %w", strings.ToUpper(translation), ErrNotFound)
	}
	return verses[0], nil
}

// Search returns verses whose text contains phrase, ignoring case. A
// limit of zero or less uses the store default.
func (s *Store) Search(ctx context.Context, translation, phrase string, limit int) ([]types.Verse, error) {
	if strings.TrimSpace(phrase) == "" {
		return nil, errors.New("empty search phrase")
	}
	if limit <= 0 {
		limit = s.maxResults
	}
	return s.queryVerses(ctx,
		`SELECT `+verseColumns+` FROM verses
		 WHERE translation = ? AND text LIKE ? ESCAPE '\'
		 ORDER BY book, chapter, verse LIMIT ?`,
		strings.ToUpper(translation), "%"+escapeLike(phrase)+"%", limit)
}

// All returns every verse of the translation in canonical order.
func (s *Store) All(ctx context.Context, translation string) ([]types.Verse, error) {
	return s.queryVerses(ctx,
		`SELECT `+verseColumns+` FROM verses WHERE translation = ? ORDER BY book, chapter, verse`,
		strings.ToUpper(translation))
}

func (s *Store) queryVerses(ctx context.Context, query string, args ...any) ([]types.Verse, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying verses: %w", err)
	}
	defer rows.Close()
	return scanVerses(rows)
}

func scanVerses(rows *sql.Rows) ([]types.Verse, error) {
	var verses []types.Verse
	for rows.Next() {
		var v types.Verse
		if err := rows.Scan(&v.Reference, &v.Abbreviation, &v.Book, &v.Chapter, &v.Verse, &v.Text); err != nil {
			return nil, fmt.Errorf("scanning verse: %w", err)
		}
		verses = append(verses, v)
	}
	return verses, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
