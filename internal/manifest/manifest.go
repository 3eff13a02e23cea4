// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest records every dataset the tool writes, with its row
// count and BLAKE3 digest, in a YAML file next to the datasets.
package manifest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zeebo/blake3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scripture-csv/internal/csvfile"
)

// Kind identifies which pipeline produced a dataset.
type Kind string

const (
	KindNormalized Kind = "normalized"
	KindConverted  Kind = "converted"
)

// Entry describes one written dataset.
type Entry struct {
	// Path is the dataset path as given to the tool.
	Path string `json:"path" yaml:"path"`

	Kind Kind `json:"kind" yaml:"kind"`

	// Rows is the number of data rows, excluding the header.
	Rows int `json:"rows" yaml:"rows"`

	// BLAKE3 is the hex BLAKE3-256 digest of the file contents.
	BLAKE3 string `json:"blake3" yaml:"blake3"`

	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Manifest is the on-disk list of datasets, sorted by path.
type Manifest struct {
	Datasets []Entry `json:"datasets" yaml:"datasets"`
}

// Load reads the manifest at path. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// Lookup returns the entry for a dataset path.
func (m *Manifest) Lookup(path string) (Entry, bool) {
	for _, e := range m.Datasets {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

// Put inserts e or replaces the entry with the same path.
func (m *Manifest) Put(e Entry) {
	for i := range m.Datasets {
		if m.Datasets[i].Path == e.Path {
			m.Datasets[i] = e
			return
		}
	}
	m.Datasets = append(m.Datasets, e)
	sort.Slice(m.Datasets, func(i, j int) bool {
		return m.Datasets[i].Path < m.Datasets[j].Path
	})
}

// Save writes the manifest atomically.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return csvfile.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Digest returns the hex BLAKE3-256 digest of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Record hashes the dataset at datasetPath and upserts its entry in the
// manifest at manifestPath. An empty manifestPath is a no-op.
func Record(manifestPath, datasetPath string, kind Kind, rows int) error {
	if manifestPath == "" {
		return nil
	}
	digest, err := Digest(datasetPath)
	if err != nil {
		return err
	}

	m, err := Load(manifestPath)
	if err != nil {
		return err
	}
	m.Put(Entry{
		Path:      filepath.ToSlash(datasetPath),
		Kind:      kind,
		Rows:      rows,
		BLAKE3:    digest,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	})
	return m.Save(manifestPath)
}
