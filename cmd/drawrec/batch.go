package main

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"drawrec/internal/catalog"
	"drawrec/internal/tracker"
)

var (
	batchFlags reportFlags
	batchJobs  int
)

var batchCmd = &cobra.Command{
	Use:   "batch <example[:a,b,...]>...",
	Short: "Run several catalog examples concurrently",
	Long: `Run several catalog examples concurrently, each on its own tracker.
Console output is printed in argument order once every run has finished.`,
	Example: "  drawrec batch fib:10 hanoi:4 willPanic:3 --stdout",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		type job struct {
			spec   string
			ex     *catalog.Example
			args   []int
			out    bytes.Buffer
			result string
			err    error
		}
		jobs := make([]*job, len(args))
		for i, spec := range args {
			e, ints, err := catalog.ParseInvocation(spec)
			if err != nil {
				return err
			}
			jobs[i] = &job{spec: spec, ex: e, args: ints}
		}

		sess, err := startSession(cmd, &batchFlags)
		if err != nil {
			return err
		}
		defer sess.stop()

		g, ctx := errgroup.WithContext(cmd.Context())
		limit := batchJobs
		if limit <= 0 {
			limit = runtime.GOMAXPROCS(0)
		}
		g.SetLimit(limit)
		for _, j := range jobs {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				t := sess.newTracker(&j.out)
				j.result, j.err = sess.timed(j.spec, func() (string, error) {
					return j.ex.Run(tracker.WithTracker(ctx, t), j.args, sess.funcOptions()...)
				})
				// Failures of the tracked functions are results; anything else
				// (bad arguments) stops the batch.
				if _, ok := tracker.AsFailure(j.err); j.err != nil && !ok {
					return errors.Wrapf(j.err, "%s", j.spec)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		failed := 0
		out := cmd.OutOrStdout()
		for _, j := range jobs {
			_, _ = out.Write(j.out.Bytes())
			switch {
			case j.err != nil:
				failed++
				fmt.Fprintf(out, "%s: %v\n", j.spec, j.err)
			case !sess.cfg.Report.Stdout:
				fmt.Fprintf(out, "%s = %s\n", j.spec, j.result)
			}
		}
		if failed > 0 {
			sess.tracing.dump(cmd.ErrOrStderr())
			return errors.Newf("%d of %d runs failed", failed, len(jobs))
		}
		return nil
	},
}

func init() {
	batchFlags.register(batchCmd.Flags())
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 0, "maximum concurrent runs (default GOMAXPROCS)")
}
