// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/scripture-csv/pkg/types"
)

// bindFlag ties a flag to a config key so the flag, SCRIPTURE_CSV_* env
// vars and the config file all feed the same setting.
func bindFlag(f *pflag.Flag, key string) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// pipelineConfig reads the merged configuration.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
		Normalize: types.NormalizeConfig{
			Files:    viper.GetStringSlice("normalize.files"),
			Manifest: viper.GetString("normalize.manifest"),
			Progress: viper.GetBool("normalize.progress"),
		},
		Convert: types.ConvertConfig{
			Input:          viper.GetString("convert.input"),
			Output:         viper.GetString("convert.output"),
			StructuralTags: viper.GetStringSlice("convert.structural_tags"),
			InlineTags:     viper.GetStringSlice("convert.inline_tags"),
			TextMarker:     viper.GetString("convert.text_marker"),
			Manifest:       viper.GetString("convert.manifest"),
		},
		Index: types.IndexConfig{
			Dir:         viper.GetString("index.dir"),
			Translation: viper.GetString("index.translation"),
			MaxResults:  viper.GetInt("index.max_results"),
		},
	}
}
