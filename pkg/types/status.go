// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DatasetStatus is the outcome of processing one dataset file.
type DatasetStatus string

const (
	StatusNormalized DatasetStatus = "normalized"
	StatusConverted  DatasetStatus = "converted"
	StatusUnchanged  DatasetStatus = "unchanged"
	StatusFailed     DatasetStatus = "failed"
)
