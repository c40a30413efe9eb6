package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drawrec/internal/report"
)

var (
	replayHTML      bool
	replayTree      bool
	replayDepthPlot bool
	replayDir       string
)

var replayCmd = &cobra.Command{
	Use:   "replay <archive.mp>...",
	Short: "Re-render archived runs",
	Long: `Load runs written with --archive and print their console summary.
--html regenerates the graph page and --tree prints the call tree.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useColor, err := applyColorMode(cmd)
		if err != nil {
			return err
		}
		console := &report.Console{Out: cmd.OutOrStdout(), NoColor: !useColor, DepthPlot: replayDepthPlot}
		for _, path := range args {
			s, err := report.ReadArchive(path)
			if err != nil {
				return err
			}
			if err := console.Report(s); err != nil {
				return err
			}
			if replayTree {
				if err := (&report.Tree{Out: cmd.OutOrStdout()}).Report(s); err != nil {
					return err
				}
			}
			if replayHTML {
				page, err := (&report.HTML{Dir: replayDir}).Write(s)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", page)
			}
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().BoolVar(&replayHTML, "html", false, "regenerate the HTML graph page")
	replayCmd.Flags().BoolVar(&replayTree, "tree", false, "print the call tree")
	replayCmd.Flags().BoolVar(&replayDepthPlot, "depth-plot", false, "plot calls per depth")
	replayCmd.Flags().StringVar(&replayDir, "dir", "", "directory for --html (default "+report.DefaultDir+")")
}
