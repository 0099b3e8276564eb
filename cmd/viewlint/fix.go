package main

import (
	"errors"
	"fmt"
	"io"

	"viewlint/internal/classifier"
	"viewlint/internal/fix"

	"github.com/spf13/cobra"
)

var (
	fixCode   string
	fixDryRun bool
	fixDiff   bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Apply automated fixes for MV001 and MV002",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := fix.Options{DryRun: fixDryRun}
		if fixCode != "" {
			cat, err := classifier.ParseCode(fixCode)
			if err != nil {
				return err
			}
			if !cat.Fixable() {
				return fmt.Errorf("%s has no automated fix", cat.Code())
			}
			opts.Code = cat.Code()
		}

		ws, bag, err := analyze(cmd, projectRoot(args), "")
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		result, err := fix.NewEngine(logger.Named("fix")).Apply(cmd.Context(), ws, bag.Items(), opts)
		if err := reportFixes(out, ws.Rel, result, err); err != nil || len(result.Applied) == 0 {
			return err
		}

		if fixDiff {
			for _, change := range result.FileChanges {
				change.Path = ws.Rel(change.Path)
				patch, err := fix.UnifiedDiff(change)
				if err != nil {
					return fmt.Errorf("failed to render diff for %s: %w", change.Path, err)
				}
				if _, err := out.Write(patch); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

// reportFixes prints applied and skipped fixes. Skipped fixes with nothing
// applied are an error: the reported diagnostics stay unfixed.
func reportFixes(out io.Writer, rel func(string) string, result *fix.Result, err error) error {
	if result != nil {
		for _, s := range result.Skipped {
			fmt.Fprintf(out, "%s:%d: skipped %s %s: %s\n", rel(s.Path), s.Line, s.Code, s.TypeName, s.Reason)
		}
	}
	if errors.Is(err, fix.ErrNoFixes) {
		if result != nil && len(result.Skipped) > 0 {
			return fmt.Errorf("%d fix(es) could not be applied", len(result.Skipped))
		}
		fmt.Fprintln(out, "nothing to fix")
		return nil
	}
	if err != nil {
		return err
	}

	verb := "fixed"
	if fixDryRun {
		verb = "would fix"
	}
	for _, a := range result.Applied {
		fmt.Fprintf(out, "%s:%d: %s %s %s (%s)\n", rel(a.Path), a.Line, verb, a.Code, a.TypeName, a.Title)
	}
	return nil
}

func init() {
	fixCmd.Flags().StringVar(&fixCode, "code", "", "Only fix diagnostics with this code (MV001 or MV002)")
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Compute fixes without writing files")
	fixCmd.Flags().BoolVar(&fixDiff, "diff", false, "Print a unified diff of every changed file")
}
