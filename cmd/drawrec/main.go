package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"drawrec/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "drawrec",
	Short: "Trace recursive calls and draw their call trees",
	Long: `drawrec runs instrumented recursive functions, records every call,
and reports the resulting call tree as a console summary, an HTML graph,
a styled tree, or a msgpack archive that can be replayed later.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := applyColorMode(cmd)
		return err
	},
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to drawrec.toml (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|run|call)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 1024, "events kept in ring mode")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "heartbeat interval while tracing (0 disables)")
	rootCmd.PersistentFlags().Bool("timings", false, "print how long each run took")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
}

// main executes the root command. A command error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyColorMode sets the fatih/color switch from --color and reports
// whether output is colored.
func applyColorMode(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	var useColor bool
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on":
		useColor = true
	case "off":
		useColor = false
	case "", "auto":
		useColor = isTerminal(os.Stdout)
	default:
		return false, errors.Newf("invalid --color value %q (expected auto|on|off)", mode)
	}
	color.NoColor = !useColor
	return useColor, nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
