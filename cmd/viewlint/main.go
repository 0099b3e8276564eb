package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"viewlint/internal/binder"
	"viewlint/internal/config"
	"viewlint/internal/crawler"
	"viewlint/internal/extractor"
	"viewlint/internal/index"
	"viewlint/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// errViolations signals exit status 1 without printing an error.
var errViolations = errors.New("contract violations found")

var (
	rootCmd = &cobra.Command{
		Use:           "viewlint",
		Short:         "Check and fix Unity view contracts in C# sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if dbPath != "" {
				cfg.Storage.DBPath = dbPath
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	configPath string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errViolations) {
			fmt.Fprintln(os.Stderr, "viewlint:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the run history database (SQLite)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(historyCmd)
}

// projectRoot picks the positional path, falling back to the configured root.
func projectRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Project.Root
}

// loadWorkspace scans and binds root.
func loadWorkspace(ctx context.Context, root string) (*index.Workspace, error) {
	ext, err := extractor.NewExtractor("csharp")
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}
	c := crawler.NewCrawler(ext,
		crawler.WithIgnored(cfg.Project.Ignore...),
		crawler.WithConcurrency(cfg.Analysis.Concurrency),
		crawler.WithLogger(logger.Named("crawler")),
	)
	b := binder.New(
		binder.WithExterns(cfg.Externs...),
		binder.WithLogger(logger.Named("binder")),
	)
	return index.NewIndexer(c, b, logger.Named("index")).Build(ctx, root)
}

// openStore initializes the SQLite store, creating its directory.
func openStore() (*storage.SQLiteStore, error) {
	if dir := filepath.Dir(cfg.Storage.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return storage.NewSQLiteStore(cfg.Storage.DBPath)
}
