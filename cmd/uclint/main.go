package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"uclint/internal/version"
)

// errFindings is returned when findings were printed and the exit code must
// be non-zero; nothing else is reported.
type errFindings struct{}

func (errFindings) Error() string { return "" }

// newRootCmd assembles the command tree with its persistent flags.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "uclint",
		Short: "Field convention checker for Unity C# projects",
		Long: `uclint checks serialized fields of MonoBehaviour scripts: exposed fields
must be private, serialized private fields need a Tooltip, and tooltips must
not be empty. Most findings can be fixed automatically with "uclint fix".`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = from config)")
	root.PersistentFlags().String("config", "", "path to uclint.toml (default: searched from the target path upwards)")
	addTraceFlags(root)

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		closeTracing()
	}
	return root
}

// main runs the root command. Failures exit with status 1; errFindings is
// silent since the findings are already printed.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		closeTracing()
		if _, silent := err.(errFindings); !silent {
			root.PrintErrln("error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
