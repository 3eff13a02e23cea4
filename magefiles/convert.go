//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Normalize rewrites every CSV dataset under bibles/ in place.
func Normalize() error {
	mg.Deps(Build, Init)
	files, err := filepath.Glob(filepath.Join("bibles", "*.csv"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("[normalize] No CSV datasets in bibles/.")
		return nil
	}
	args := append([]string{"normalize", "--manifest", filepath.Join("bibles", "manifest.yaml")}, files...)
	return sh.RunV(binPath, args...)
}

// Convert turns every tagged markup dump under bibles/ into a CSV dataset.
func Convert() error {
	mg.Deps(Build, Init)
	inputs, err := filepath.Glob(filepath.Join("bibles", "*.xml"))
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		fmt.Println("[convert] No markup dumps in bibles/.")
		return nil
	}
	args := append([]string{"convert", "--manifest", filepath.Join("bibles", "manifest.yaml")}, inputs...)
	return sh.RunV(binPath, args...)
}
