package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"uclint/internal/config"
	"uclint/internal/driver"
	"uclint/internal/observ"
)

// targetPath returns the path argument, "." when omitted.
func targetPath(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// loadManifest honours --config, otherwise searches upwards from path.
func loadManifest(cmd *cobra.Command, path string) (*config.Manifest, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if explicit != "" {
		return config.LoadManifest(explicit)
	}
	return config.Discover(path)
}

// commonOptions builds driver options from the persistent flags.
func commonOptions(cmd *cobra.Command, m *config.Manifest) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts := driver.Options{Manifest: m, MaxDiagnostics: maxDiagnostics}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	return opts, nil
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}

// useColor resolves --color for w; auto means "w is a terminal".
func useColor(cmd *cobra.Command, w io.Writer) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		return ok && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}

// printTimings writes the timer table to stderr when --timings is set.
func printTimings(cmd *cobra.Command, t *observ.Timer) {
	if t == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), t.Summary())
}
