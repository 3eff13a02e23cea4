// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scripture-csv/internal/csvfile"
	"github.com/pdiddy/scripture-csv/internal/manifest"
	"github.com/pdiddy/scripture-csv/pkg/types"
)

const rawKJV = `id,book_id,chapter,verse,text
1001001,1,1,1,"In the beginning God created the heaven and the earth."
1001002,1,1,2,"And the earth was without form, and void."
19023001,19,23,1,The LORD is my shepherd; I shall not want.
66022021,66,22,21,"The grace of our Lord Jesus Christ be with you all. Amen."
`

const wantKJV = `"reference","abbreviation","book","chapter","verse","text"
"Genesis 1:1","Gn1:1",1,1,1,"In the beginning God created the heaven and the earth."
"Genesis 1:2","Gn1:2",1,1,2,"And the earth was without form, and void."
"Psalm 23:1","Ps23:1",19,23,1,"The LORD is my shepherd; I shall not want."
"Revelation 22:21","Rev22:21",66,22,21,"The grace of our Lord Jesus Christ be with you all. Amen."
`

func init() {
	progressOutput = io.Discard
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestTable_DerivedFields(t *testing.T) {
	tbl, err := csvfile.Parse(strings.NewReader(rawKJV))
	require.NoError(t, err)
	rowsBefore := len(tbl.Rows)

	require.NoError(t, Table(tbl))

	assert.Equal(t, []string{"reference", "abbreviation", "book", "chapter", "verse", "text"}, tbl.Header)
	require.Len(t, tbl.Rows, rowsBefore)

	for _, rec := range tbl.Rows {
		// reference/abbreviation must agree with book/chapter/verse.
		book, chapter, verse := rec[2], rec[3], rec[4]
		assert.True(t, strings.HasSuffix(rec[0], " "+chapter+":"+verse), rec[0])
		assert.True(t, strings.HasSuffix(rec[1], chapter+":"+verse), rec[1])
		assert.NotEmpty(t, book)
	}
	assert.Equal(t, "Psalm 23:1", tbl.Rows[2][0])
	assert.Equal(t, "Ps23:1", tbl.Rows[2][1])
}

func TestTable_KeepsExtraColumnsInOrder(t *testing.T) {
	input := "translation,id,book_id,chapter,verse,text\nKJV,1,43,3,16,For God so loved\n"
	tbl, err := csvfile.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.NoError(t, Table(tbl))

	assert.Equal(t, []string{"translation", "reference", "abbreviation", "book", "chapter", "verse", "text"}, tbl.Header)
	assert.Equal(t, []string{"KJV", "John 3:16", "Jn3:16", "43", "3", "16", "For God so loved"}, tbl.Rows[0])
}

func TestTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"missing book column", "id,chapter,verse,text\n1,1,1,a\n", `"book_id"`},
		{"missing chapter column", "id,book_id,verse,text\n1,1,1,a\n", `"chapter"`},
		{"missing id column", "book_id,chapter,verse,text\n1,1,1,a\n", `"id"`},
		{"book out of range", "id,book_id,chapter,verse,text\n1,67,1,1,a\n", "unknown book"},
		{"non-integer verse", "id,book_id,chapter,verse,text\n1,1,1,x,a\n", "line 2"},
		{"both id and reference", "id,reference,book_id,chapter,verse\n1,r,1,1,1\n", "both"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := csvfile.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			err = Table(tbl)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "KJV.csv", rawKJV)

	status, rows, err := File(path, nil)
	require.NoError(t, err)
	assert.Equal(t, types.StatusNormalized, status)
	assert.Equal(t, 4, rows)
	assert.Equal(t, wantKJV, readFile(t, path))
}

func TestFile_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "KJV.csv", rawKJV)

	_, _, err := File(path, nil)
	require.NoError(t, err)
	first := readFile(t, path)

	status, _, err := File(path, nil)
	require.NoError(t, err)
	assert.Equal(t, types.StatusUnchanged, status)
	assert.Equal(t, first, readFile(t, path))
}

func TestFile_RecomputesStaleDerivedFields(t *testing.T) {
	dir := t.TempDir()
	stale := `"reference","abbreviation","book","chapter","verse","text"
"Exodus 9:9","Ex9:9",1,1,1,"In the beginning"
`
	path := writeCSV(t, dir, "stale.csv", stale)

	status, _, err := File(path, nil)
	require.NoError(t, err)
	assert.Equal(t, types.StatusNormalized, status)
	assert.Contains(t, readFile(t, path), `"Genesis 1:1","Gn1:1",1,1,1,"In the beginning"`)
}

func TestFile_FailureLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	bad := "id,book_id,chapter,verse,text\n1,1,1,1,ok\n2,99,1,1,bad book\n"
	path := writeCSV(t, dir, "bad.csv", bad)

	status, _, err := File(path, nil)
	require.Error(t, err)
	assert.Equal(t, types.StatusFailed, status)
	assert.Equal(t, bad, readFile(t, path))
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeCSV(t, dir, "KJV.csv", rawKJV)
	done := writeCSV(t, dir, "ASV.csv", wantKJV)
	bad := writeCSV(t, dir, "WEB.csv", "id,chapter\n1,1\n")
	missing := filepath.Join(dir, "NKJV.csv")
	manifestPath := filepath.Join(dir, "manifest.yaml")

	var out bytes.Buffer
	cfg := types.NormalizeConfig{Manifest: manifestPath, Progress: true}
	result := Batch([]string{good, done, bad, missing}, cfg, nil, &out)

	assert.Equal(t, 1, result.Normalized)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 4, result.Total())
	assert.True(t, result.HasFailures())

	log := out.String()
	assert.Contains(t, log, "normalized: KJV.csv (4 rows)")
	assert.Contains(t, log, "unchanged: ASV.csv")
	assert.Contains(t, log, "failed:  WEB.csv")
	assert.Contains(t, log, "Batch summary: 1 normalized, 1 unchanged, 2 failed (total: 4)")

	m, err := manifest.Load(manifestPath)
	require.NoError(t, err)
	require.Len(t, m.Datasets, 1)
	assert.Equal(t, 4, m.Datasets[0].Rows)
	assert.Equal(t, manifest.KindNormalized, m.Datasets[0].Kind)
}
