package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drawrec/internal/catalog"
	"drawrec/internal/tracker"
)

var runFlags reportFlags

var runCmd = &cobra.Command{
	Use:   "run <example> [int...]",
	Short: "Run one catalog example and report its call tree",
	Long: `Run one catalog example (see "drawrec list") with integer arguments.
Without arguments the example's defaults are used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := catalog.Lookup(args[0])
		if err != nil {
			return err
		}
		ints, err := catalog.ParseInts(args[1:])
		if err != nil {
			return err
		}

		sess, err := startSession(cmd, &runFlags)
		if err != nil {
			return err
		}
		defer sess.stop()

		t := sess.newTracker(cmd.OutOrStdout())
		ctx := tracker.WithTracker(cmd.Context(), t)
		result, err := sess.timed(e.Name, func() (string, error) {
			return e.Run(ctx, ints, sess.funcOptions()...)
		})
		if err != nil {
			if _, ok := tracker.AsFailure(err); ok {
				sess.tracing.dump(cmd.ErrOrStderr())
			}
			return err
		}
		if !sess.cfg.Report.Stdout {
			fmt.Fprintln(cmd.OutOrStdout(), result)
		}
		return nil
	},
}

func init() {
	runFlags.register(runCmd.Flags())
}
