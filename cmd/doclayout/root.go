package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/config"
	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/home"
	"github.com/jeonghyeon-yu/doc-layout-pipeline/version"
)

var (
	cfgFile string
	homeDir string
)

var rootCmd = &cobra.Command{
	Use:   "doclayout",
	Short: "Legal-hierarchy parser for scanned insurance policy documents",
	Long: `doclayout reconstructs the legal hierarchy of a scanned insurance
policy or statute from OCR text blocks.

The pipeline includes:
  - Section detection (base terms, riders, statutes, notices)
  - Part/Chapter/Article/Paragraph/Item structure parsing
  - Internal cross-reference and external statute citation extraction
  - Graph-database-ready export with per-article embedding text`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.doclayout/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "doclayout home directory (default: ~/.doclayout)",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup loads config and the home directory for a command run.
func setup() (*config.Manager, *home.Dir, *slog.Logger, error) {
	hd, err := home.New(homeDir)
	if err != nil {
		return nil, nil, nil, err
	}

	path := cfgFile
	if path == "" && hd.ConfigExists() {
		path = hd.ConfigPath()
	}
	cm, err := config.NewManager(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cm.Get().Log.Level)
	slog.SetDefault(logger)
	return cm, hd, logger, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
