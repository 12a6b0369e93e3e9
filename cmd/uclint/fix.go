package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"uclint/internal/diag"
	"uclint/internal/driver"
	"uclint/internal/fix"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] [file.cs|directory]",
		Short: "Apply available fixes to a source file or directory",
		Long: `Run the checks, then apply the fixes offered for the findings: "Make private"
for exposed fields and "Add Tooltip" for undocumented serialized ones.
Without --all only the first fix is applied.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFix,
	}
	cmd.Flags().Bool("all", false, "apply all fixes")
	cmd.Flags().Bool("once", false, "apply the first available fix (default)")
	cmd.Flags().String("id", "", "apply the fix with a specific identifier (shown by check --suggest)")
	cmd.Flags().String("rule", "", "only fix findings of this rule")
	cmd.Flags().Bool("dry-run", false, "report the changes without writing files")
	return cmd
}

// readApplyOptions validates the selection flags of "uclint fix".
func readApplyOptions(cmd *cobra.Command) (fix.ApplyOptions, error) {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	ruleName, err := cmd.Flags().GetString("rule")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fix.ApplyOptions{}, err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fix.ApplyOptions{}, errors.New("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fix.ApplyOptions{}, errors.New("--all and --once are mutually exclusive")
	}

	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, TargetID: targetID, DryRun: dryRun}
	if targetID != "" {
		opts.Mode = fix.ApplyModeID
	} else if applyAll {
		opts.Mode = fix.ApplyModeAll
	}
	if ruleName != "" {
		code, ok := diag.ParseCode(ruleName)
		if !ok {
			return fix.ApplyOptions{}, fmt.Errorf("unknown rule %q", ruleName)
		}
		opts.Rule = code
	}
	return opts, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	path := targetPath(args)
	fopts, err := readApplyOptions(cmd)
	if err != nil {
		return err
	}
	m, err := loadManifest(cmd, path)
	if err != nil {
		return err
	}
	opts, err := commonOptions(cmd, m)
	if err != nil {
		return err
	}

	res, err := driver.Fix(cmd.Context(), path, opts, fopts)
	printTimings(cmd, opts.Timer)
	if res == nil {
		return fmt.Errorf("fix: %w", err)
	}
	return handleApplyResult(cmd.OutOrStdout(), res.Apply, fopts.DryRun, err)
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, dryRun bool, applyErr error) error {
	if res == nil {
		return applyErr
	}

	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] - %s\n", item.Title, item.ID, location)
		}
	}

	if len(res.FileChanges) > 0 {
		if dryRun {
			fmt.Fprintln(out, "Files that would change:")
		} else {
			fmt.Fprintln(out, "Updated files:")
		}
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	return nil
}
