package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uclint/internal/config"
	"uclint/internal/diag"
	"uclint/internal/diagfmt"
	"uclint/internal/driver"
	"uclint/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.cs|directory]",
		Short: "Check C# sources for field convention violations",
		Long: `Check every *.cs file under the given directory (default: the current one),
or a single file, and report fields that break the Unity field conventions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	cmd.Flags().Bool("preview", false, "show how each fix would change the source")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().Bool("write-baseline", false, "accept all current findings into the baseline file")
	cmd.Flags().Bool("no-baseline", false, "ignore the baseline file")
	cmd.Flags().String("ui", "off", "progress view (auto|on|off)")
	return cmd
}

// runCheck executes "uclint check". Findings make the command fail when any
// of them is an error, or a warning under --warnings-as-errors.
func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	path := targetPath(args)

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return errors.New("no-warnings and warnings-as-errors flags cannot be used together")
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	writeBaseline, err := cmd.Flags().GetBool("write-baseline")
	if err != nil {
		return fmt.Errorf("failed to get write-baseline flag: %w", err)
	}
	noBaseline, err := cmd.Flags().GetBool("no-baseline")
	if err != nil {
		return fmt.Errorf("failed to get no-baseline flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	m, err := loadManifest(cmd, path)
	if err != nil {
		return err
	}
	opts, err := commonOptions(cmd, m)
	if err != nil {
		return err
	}
	opts.Jobs = jobs
	opts.IgnoreWarnings = noWarnings
	// новый baseline пишется по полному набору находок
	opts.NoBaseline = noBaseline || writeBaseline

	out := cmd.OutOrStdout()
	var res *driver.Result
	if shouldUseTUI(mode, out, format) {
		res, err = runCheckWithUI(cmd.Context(), out, "uclint check", path, opts)
	} else {
		res, err = driver.Check(cmd.Context(), path, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if writeBaseline {
		target := m.BaselinePath()
		if target == "" {
			return fmt.Errorf("write-baseline: [analysis] baseline is not set in %s", config.FileName)
		}
		n, err := res.WriteBaseline(target)
		if err != nil {
			return fmt.Errorf("write-baseline: %w", err)
		}
		if !quiet(cmd) {
			fmt.Fprintf(out, "Wrote %d finding(s) to %s\n", n, target)
		}
		printTimings(cmd, opts.Timer)
		return nil
	}

	if err := renderCheck(cmd, res, format, renderOptions{
		suggest:  suggest || preview,
		preview:  preview,
		fullPath: fullPath,
	}); err != nil {
		return err
	}
	printTimings(cmd, opts.Timer)

	if failed(res.Bag, warningsAsErrors) {
		return errFindings{}
	}
	return nil
}

type renderOptions struct {
	suggest  bool
	preview  bool
	fullPath bool
}

func renderCheck(cmd *cobra.Command, res *driver.Result, format string, ro renderOptions) error {
	out := cmd.OutOrStdout()
	pathMode := diagfmt.PathModeRelative
	if ro.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	var previewer diagfmt.Previewer
	if ro.preview {
		previewer = res.Preview
	}

	switch format {
	case "pretty":
		colored, err := useColor(cmd, out)
		if err != nil {
			return err
		}
		if err := diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   1,
			PathMode:  pathMode,
			ShowFixes: ro.suggest,
			Preview:   previewer,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		if !quiet(cmd) {
			printSummary(cmd, res)
		}
	case "short":
		if output := diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet); output != "" {
			fmt.Fprintln(out, output)
		}
	case "json":
		if err := diagfmt.JSON(out, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeFixes:     ro.suggest,
			Preview:          previewer,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "uclint",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			Rules:          res.Rules.Registry().Descriptors(),
		}
		if err := diagfmt.Sarif(out, res.Bag, res.FileSet, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	return nil
}

func printSummary(cmd *cobra.Command, res *driver.Result) {
	w := cmd.ErrOrStderr()
	shown, total := res.Bag.Len(), len(res.All)
	fmt.Fprintf(w, "%d file(s) checked, %d finding(s)", len(res.Files), total)
	if shown < total {
		fmt.Fprintf(w, ", %d shown", shown)
	}
	if res.Suppressed > 0 {
		fmt.Fprintf(w, ", %d suppressed", res.Suppressed)
	}
	if res.Baselined > 0 {
		fmt.Fprintf(w, ", %d baselined", res.Baselined)
	}
	fmt.Fprintln(w)
}

// failed reports whether findings should turn into a non-zero exit.
func failed(bag *diag.Bag, warningsAsErrors bool) bool {
	if bag.HasErrors() {
		return true
	}
	return warningsAsErrors && bag.HasWarnings()
}
