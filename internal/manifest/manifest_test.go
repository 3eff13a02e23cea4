// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func writeDataset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDigest(t *testing.T) {
	dir := t.TempDir()
	path := writeDataset(t, dir, "KJV.csv", "\"reference\"\n\"Genesis 1:1\"\n")

	got, err := Digest(path)
	require.NoError(t, err)

	sum := blake3.Sum256([]byte("\"reference\"\n\"Genesis 1:1\"\n"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestLoadMissingIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "manifest.yaml"))
	require.NoError(t, err)
	assert.Empty(t, m.Datasets)
}

func TestRecordUpsertsByPath(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.yaml")
	kjv := writeDataset(t, dir, "KJV.csv", "v1")
	asv := writeDataset(t, dir, "ASV.csv", "asv")

	require.NoError(t, Record(manifestPath, kjv, KindNormalized, 10))
	require.NoError(t, Record(manifestPath, asv, KindNormalized, 5))

	writeDataset(t, dir, "KJV.csv", "v2")
	require.NoError(t, Record(manifestPath, kjv, KindNormalized, 11))

	m, err := Load(manifestPath)
	require.NoError(t, err)
	require.Len(t, m.Datasets, 2)

	// Sorted by path.
	assert.Equal(t, filepath.ToSlash(asv), m.Datasets[0].Path)

	e, ok := m.Lookup(filepath.ToSlash(kjv))
	require.True(t, ok)
	assert.Equal(t, 11, e.Rows)
	assert.Equal(t, KindNormalized, e.Kind)

	want, err := Digest(kjv)
	require.NoError(t, err)
	assert.Equal(t, want, e.BLAKE3)
	assert.False(t, e.UpdatedAt.IsZero())
}

func TestRecordDisabled(t *testing.T) {
	assert.NoError(t, Record("", "does-not-matter.csv", KindConverted, 0))
}

func TestLoadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := writeDataset(t, dir, "manifest.yaml", "datasets: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}
