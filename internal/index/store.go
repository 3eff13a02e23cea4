// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index loads normalized verse datasets into a SQLite database
// and answers reference lookups against it. Each CSV file is one
// translation, keyed by the upper-cased base name of the file.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/scripture-csv/internal/books"
	"github.com/pdiddy/scripture-csv/internal/csvfile"
	"github.com/pdiddy/scripture-csv/internal/logging"
	"github.com/pdiddy/scripture-csv/pkg/types"
)

const (
	dbFile            = "verses.db"
	defaultMaxResults = 20
)

// ErrNotFound is returned when a query matches no verses.
var ErrNotFound = errors.New("not found")

// Store manages the verse index database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	log        logrus.FieldLogger
}

// NewStore opens or creates the index database at cfg.Dir/verses.db and
// creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig, log logrus.FieldLogger) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
		log:        logging.OrDiscard(log),
	}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS translations (
			code TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			file_mod_time TEXT NOT NULL,
			rows INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS verses (
			translation TEXT NOT NULL REFERENCES translations(code) ON DELETE CASCADE,
			book INTEGER NOT NULL,
			chapter INTEGER NOT NULL,
			verse INTEGER NOT NULL,
			reference TEXT NOT NULL,
			abbreviation TEXT NOT NULL,
			text TEXT NOT NULL,
			PRIMARY KEY (translation, book, chapter, verse)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verses_reference ON verses(translation, reference)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of datasets processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any dataset failed to index.
func (s IngestSummary) HasFailures() bool {
	return s.Failed > 0
}

// TranslationCode derives the translation key from a dataset path:
// "bibles/kjv.csv" is "KJV".
func TranslationCode(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Ingest loads each normalized CSV dataset into the index. A dataset whose
// modification time matches the stored one is skipped; a changed dataset
// replaces all rows of its translation in one transaction.
func (s *Store) Ingest(ctx context.Context, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		code := TranslationCode(path)
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", code, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM translations WHERE code = ?`, code,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", code)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		verses, err := readDataset(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", code, err)
			summary.Failed++
			continue
		}

		if err := s.ingestTranslation(ctx, code, path, modTime, verses); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", code, err)
			summary.Failed++
			continue
		}
		s.log.WithFields(logrus.Fields{"translation": code, "verses": len(verses)}).Info("indexed translation")

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d verses)\n", code, len(verses))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d verses)\n", code, len(verses))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

func (s *Store) ingestTranslation(ctx context.Context, code, path, modTime string, verses []types.Verse) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM verses WHERE translation = ?`, code); err != nil {
		return fmt.Errorf("deleting old verses: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO translations (code, source_path, file_mod_time, rows) VALUES (?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
			source_path=excluded.source_path, file_mod_time=excluded.file_mod_time, rows=excluded.rows`,
		code, filepath.ToSlash(path), modTime, len(verses),
	)
	if err != nil {
		return fmt.Errorf("upserting translation: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO verses (translation, book, chapter, verse, reference, abbreviation, text)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range verses {
		if _, err := stmt.ExecContext(ctx, code, v.Book, v.Chapter, v.Verse, v.Reference, v.Abbreviation, v.Text); err != nil {
			return fmt.Errorf("inserting %s: %w", v.Reference, err)
		}
	}
	return tx.Commit()
}

// readDataset parses a normalized CSV into verses. The text column may be
// named "text" or "scripture". Derived fields are recomputed.
func readDataset(path string) ([]types.Verse, error) {
	t, err := csvfile.Read(path)
	if err != nil {
		return nil, err
	}

	cols := map[string]int{}
	for _, name := range []string{"book", "chapter", "verse"} {
		col := t.Column(name)
		if col < 0 {
			return nil, fmt.Errorf("missing %q column (normalize the dataset first)", name)
		}
		cols[name] = col
	}
	textCol := t.Column("scripture")
	if textCol < 0 {
		textCol = t.Column("text")
	}
	if textCol < 0 {
		return nil, errors.New(`missing "text" or "scripture" column`)
	}

	verses := make([]types.Verse, 0, len(t.Rows))
	for i, rec := range t.Rows {
		var nums [3]int
		for j, name := range []string{"book", "chapter", "verse"} {
			n, err := strconv.Atoi(strings.TrimSpace(rec[cols[name]]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %s %q is not an integer", i+2, name, rec[cols[name]])
			}
			nums[j] = n
		}
		v, err := books.NewVerse(nums[0], nums[1], nums[2], rec[textCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		verses = append(verses, v)
	}
	return verses, nil
}
