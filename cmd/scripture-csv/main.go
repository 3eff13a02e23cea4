// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scripture-csv CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scripture-csv/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from the log.* settings before any command runs.
var logger = logging.Discard()

// rootCmd is the base command for the scripture-csv CLI.
var rootCmd = &cobra.Command{
	Use:   "scripture-csv",
	Short: "Build and query normalized Bible verse datasets",
	Long: `scripture-csv prepares Bible translations as flat CSV datasets.

normalize rewrites existing CSV files so every row carries a full reference
("Genesis 1:1") and an abbreviation ("Gn1:1") derived from its book number.
convert turns a tagged markup dump into the same CSV layout. The index
commands load normalized datasets into SQLite for reference lookups.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(pipelineConfig().Log, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.WithField("file", f).Debug("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scripture-csv.yaml or ~/.config/scripture-csv/scripture-csv.yaml)")
	rootCmd.PersistentFlags().String("log-level", logrus.InfoLevel.String(), "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", logging.FormatText, "log format: text or json")

	bindFlag(rootCmd.PersistentFlags().Lookup("log-level"), "log.level")
	bindFlag(rootCmd.PersistentFlags().Lookup("log-format"), "log.format")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scripture-csv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scripture-csv"))
		}
	}

	viper.SetEnvPrefix("SCRIPTURE_CSV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
			os.Exit(1)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
