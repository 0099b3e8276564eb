package main

import (
	"fmt"
	"os"
	"time"

	"viewlint/internal/analysis"
	"viewlint/internal/diag"
	"viewlint/internal/git"
	"viewlint/internal/index"
	"viewlint/internal/report"
	"viewlint/internal/storage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkSince  string
	checkFormat string
	checkNoSave bool
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Report view contract violations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()

		ws, bag, err := analyze(cmd, projectRoot(args), checkSince)
		if err != nil {
			return err
		}

		format := cfg.Output.Format
		if checkFormat != "" {
			format = checkFormat
		}
		out := cmd.OutOrStdout()
		switch format {
		case "json":
			if err := report.JSON(out, bag, report.JSONOpts{Rel: ws.Rel}); err != nil {
				return err
			}
		case "pretty":
			useColor := !color.NoColor
			if cfg.Output.Color != nil {
				useColor = *cfg.Output.Color
			}
			report.Pretty(out, bag, report.PrettyOpts{Color: useColor, Rel: ws.Rel, Source: source(ws)})
			report.Summary(out, bag, ws.FileCount)
		default:
			return fmt.Errorf("unknown format %q", format)
		}

		if !checkNoSave {
			run := &storage.Run{
				Root:       ws.Root,
				Since:      checkSince,
				StartedAt:  started,
				Duration:   time.Since(started),
				FileCount:  ws.FileCount,
				TypeCount:  len(ws.Bindings),
				ErrorCount: bag.Len(),
			}
			if err := saveRun(cmd, run, bag); err != nil {
				// history is best effort
				logger.Warn("failed to record run", zap.Error(err))
			}
		}

		if bag.HasErrors() {
			return errViolations
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkSince, "since", "", "Only report declarations touched since this git ref")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "", "Output format: pretty or json")
	checkCmd.Flags().BoolVar(&checkNoSave, "no-save", false, "Do not record this run in the history database")
}

// analyze indexes root and runs the analyzer, optionally limited to changed lines.
func analyze(cmd *cobra.Command, root, since string) (*index.Workspace, *diag.Bag, error) {
	ctx := cmd.Context()
	ws, err := loadWorkspace(ctx, root)
	if err != nil {
		return nil, nil, err
	}

	a := analysis.NewAnalyzer(cfg.Analysis.Concurrency, logger.Named("analysis"))
	a.MaxDiagnostics = cfg.Analysis.MaxDiagnostics
	bag, err := a.Run(ctx, ws)
	if err != nil {
		return nil, nil, fmt.Errorf("analysis failed: %w", err)
	}

	if since != "" {
		changes, err := git.GetChangedFiles(ctx, ws.Root, since)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("changed files", zap.Int("count", len(changes)), zap.String("since", since))
		analysis.FilterChanged(bag, changes)
	}
	return ws, bag, nil
}

func saveRun(cmd *cobra.Command, run *storage.Run, bag *diag.Bag) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveRun(cmd.Context(), run, bag.Items())
}

func source(ws *index.Workspace) func(string) []byte {
	return func(path string) []byte {
		if doc := ws.Document(path); doc != nil {
			return doc.Source
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return data
	}
}
