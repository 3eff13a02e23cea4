// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scripture-csv/internal/manifest"
	"github.com/pdiddy/scripture-csv/pkg/types"
)

// genesisFixture covers Genesis 1:1-3 with a book and chapter heading.
const genesisFixture = `<BN>Genesis
<CN>Chapter 1
{{1::1}}1<T><V>In the <B>beginning</B> God created the heavens and the earth.
{{1::1}}2<T>And the earth was formless and void, and darkness was over the surface of the deep<RS>+</RS>, and the Spirit of God was moving over the surface of the waters.
{{1::1}}3<T><PN>-Then God said, <SHI>“Let there be light”</SHI>; and there was light.
`

const genesisCSV = `"reference","abbreviation","book","chapter","verse","scripture"
"Genesis 1:1","Gn1:1",1,1,1,"In the beginning God created the heavens and the earth."
"Genesis 1:2","Gn1:2",1,1,2,"And the earth was formless and void, and darkness was over the surface of the deep, and the Spirit of God was moving over the surface of the waters."
"Genesis 1:3","Gn1:3",1,1,3,"Then God said, “Let there be light”; and there was light."
`

func TestLineFilter(t *testing.T) {
	lines := []string{"<BN>Genesis", "{{1::1}}1<T>a", "<SH>Heading", "plain", "<SS>x<SF>"}
	kept, dropped := LineFilter{Tags: DefaultStructuralTags}.Apply(lines)

	assert.Equal(t, []string{"{{1::1}}1<T>a", "plain"}, kept)
	assert.Equal(t, 3, dropped)
	for _, line := range kept {
		for _, tag := range DefaultStructuralTags {
			assert.NotContains(t, line, tag)
		}
	}
}

func TestTagCleaner_Clean(t *testing.T) {
	c := TagCleaner{Tags: DefaultInlineTags, Marker: DefaultTextMarker}
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"verse prefix and marker", "{{1::1}}1<T>In the beginning", `1::1,1, "In the beginning"`},
		{"text is trimmed", "{{43::3}}16<T>   For God so loved  ", `43::3,16, "For God so loved"`},
		{"inline tags removed", "{{1::1}}1<T><V>In <B>the</B> beginning<BR>", `1::1,1, "In the beginning"`},
		{"PN dash goes with tag", "{{1::1}}3<T><PN>-Then", `1::1,3, "Then"`},
		{"later markers dropped", "{{1::1}}1<T>a<T>b", `1::1,1, "ab"`},
		{"no marker", "{{1::1}}1 no text", "1::1,1 no text"},
		{"plus removed", "a<RS>+</RS>b", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Clean(tt.input))
		})
	}
}

func TestTagCleaner_DefaultMarker(t *testing.T) {
	c := TagCleaner{}
	assert.Equal(t, `1::1,1, "x"`, c.Clean("{{1::1}}1<T>x"))
}

func TestParseLine(t *testing.T) {
	v, err := ParseLine("1::1,1,In the beginning God created the heavens and the earth.")
	require.NoError(t, err)
	assert.Equal(t, types.Verse{
		Reference:    "Genesis 1:1",
		Abbreviation: "Gn1:1",
		Book:         1,
		Chapter:      1,
		Verse:        1,
		Text:         "In the beginning God created the heavens and the earth.",
	}, v)

	v, err = ParseLine(`43::3,16, "For God so loved the world, that he gave"`)
	require.NoError(t, err)
	assert.Equal(t, "John 3:16", v.Reference)
	assert.Equal(t, "For God so loved the world, that he gave", v.Text)
}

func TestParseLine_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{"no separator", "just text", ErrNoSeparator, ""},
		{"two fields", "1::1,1", ErrTooFewFields, ""},
		{"one field", "1::1", ErrTooFewFields, ""},
		{"bad book", "x::1,1,a", nil, `book "x"`},
		{"bad chapter", "1::c,1,a", nil, `chapter "c"`},
		{"book out of range", "67::1,1,a", nil, "unknown book"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.input)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFormat_SkipsAndLogs(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	lines := []string{
		`1::1,1, "a"`,
		"1::1,2",
		"stray line",
		`99::1,1, "b"`,
		`1::1,3, "c"`,
	}
	tbl, skipped := Format(lines, log)

	assert.Equal(t, 3, skipped)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Genesis 1:1", tbl.Rows[0][0])
	assert.Equal(t, "Genesis 1:3", tbl.Rows[1][0])

	var warned []int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = append(warned, e.Data["line"].(int))
		}
	}
	assert.Equal(t, []int{2, 4}, warned)
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("\ufeffa\r\nb\nc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestPipeline_Run(t *testing.T) {
	lines, err := ReadLines(strings.NewReader(genesisFixture))
	require.NoError(t, err)

	tbl, st := NewPipeline(types.ConvertConfig{}, nil).Run(lines)

	assert.Equal(t, Stats{Lines: 5, Dropped: 2, Rows: 3, Skipped: 0}, st)
	require.Len(t, tbl.Rows, 3)
	for i, rec := range tbl.Rows {
		assert.Equal(t, []string{"1", "1"}, rec[2:4])
		assert.Equal(t, []string{"1", "2", "3"}[i], rec[4], "rows keep input order")
		assert.NotContains(t, rec[5], "<")
		assert.NotContains(t, rec[5], ">")
	}
}

func TestFile_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "LSB.xml")
	out := filepath.Join(dir, "out", "LSB.csv")
	manifestPath := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(in, []byte(genesisFixture), 0o644))

	log, hook := test.NewNullLogger()
	st, err := File(types.ConvertConfig{Input: in, Output: out, Manifest: manifestPath}, log)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Rows)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, genesisCSV, string(data))

	m, err := manifest.Load(manifestPath)
	require.NoError(t, err)
	require.Len(t, m.Datasets, 1)
	assert.Equal(t, manifest.KindConverted, m.Datasets[0].Kind)
	assert.Equal(t, 3, m.Datasets[0].Rows)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "converted dataset", hook.LastEntry().Message)
}

func TestFile_MissingInputKeepsOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "LSB.csv")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))

	_, err := File(types.ConvertConfig{Input: filepath.Join(dir, "missing.xml"), Output: out}, nil)
	require.Error(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "bibles/LSB.csv", OutputPath("bibles/LSB.xml"))
	assert.Equal(t, "LSB.csv", OutputPath("LSB"))
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	lsb := filepath.Join(dir, "LSB.xml")
	nasb := filepath.Join(dir, "NASB.txt")
	require.NoError(t, os.WriteFile(lsb, []byte(genesisFixture), 0o644))
	require.NoError(t, os.WriteFile(nasb, []byte("{{43::3}}16<T>For God so loved\n"), 0o644))
	missing := filepath.Join(dir, "ESV.xml")

	var buf bytes.Buffer
	cfg := types.ConvertConfig{Output: filepath.Join(dir, "ignored.csv")}
	result := Batch([]string{lsb, nasb, missing}, cfg, nil, &buf)

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())

	out := buf.String()
	assert.Contains(t, out, "converted: LSB.xml -> LSB.csv (3 rows, 0 skipped)")
	assert.Contains(t, out, "converted: NASB.txt -> NASB.csv (1 rows, 0 skipped)")
	assert.Contains(t, out, "failed:  ESV.xml")
	assert.Contains(t, out, "Batch summary: 2 converted, 1 failed (total: 3)")

	assert.FileExists(t, filepath.Join(dir, "NASB.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "ignored.csv"))
}
