//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Index loads every normalized dataset under bibles/ into the verse index.
func Index() error {
	mg.SerialDeps(Convert, Normalize)
	files, err := filepath.Glob(filepath.Join("bibles", "*.csv"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("[index] No CSV datasets in bibles/.")
		return nil
	}
	return sh.RunV(binPath, append([]string{"index", "build", "--index-dir", "index"}, files...)...)
}
