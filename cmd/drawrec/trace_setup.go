package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"drawrec/internal/config"
	"drawrec/internal/trace"
)

// tracing is the tracer of one command invocation.
type tracing struct {
	tracer trace.Tracer
	mode   trace.StorageMode
	stop   func()
}

// setupTracing builds the tracer from the [trace] section, with any trace
// flag given on the command line taking precedence. The tracer is attached
// to the command context. stop ends the heartbeat and flushes the tracer.
func setupTracing(cmd *cobra.Command, cfg config.Config) (*tracing, error) {
	tc := cfg.TraceConfig()
	flags := cmd.Flags()

	if flags.Changed("trace") {
		out, err := flags.GetString("trace")
		if err != nil {
			return nil, errors.Wrap(err, "failed to get trace flag")
		}
		tc.OutputPath = out
		// Asking for an output implies at least run-level events.
		if tc.Level == trace.LevelOff && !flags.Changed("trace-level") {
			tc.Level = trace.LevelRun
		}
	}
	if flags.Changed("trace-level") {
		s, err := flags.GetString("trace-level")
		if err != nil {
			return nil, errors.Wrap(err, "failed to get trace-level flag")
		}
		if tc.Level, err = trace.ParseLevel(s); err != nil {
			return nil, err
		}
	}
	if flags.Changed("trace-mode") {
		s, err := flags.GetString("trace-mode")
		if err != nil {
			return nil, errors.Wrap(err, "failed to get trace-mode flag")
		}
		if tc.Mode, err = trace.ParseMode(s); err != nil {
			return nil, err
		}
	}
	if flags.Changed("trace-ring-size") {
		n, err := flags.GetInt("trace-ring-size")
		if err != nil {
			return nil, errors.Wrap(err, "failed to get trace-ring-size flag")
		}
		tc.RingSize = n
	}
	if flags.Changed("trace-heartbeat") {
		d, err := flags.GetDuration("trace-heartbeat")
		if err != nil {
			return nil, errors.Wrap(err, "failed to get trace-heartbeat flag")
		}
		tc.Heartbeat = d
	}

	if tc.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return &tracing{tracer: trace.Nop, mode: tc.Mode, stop: func() {}}, nil
	}

	tracer, err := trace.New(tc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tracer")
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	heartbeat := trace.StartHeartbeat(tracer, tc.Heartbeat)
	stop := func() {
		heartbeat.Stop()
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return &tracing{tracer: tracer, mode: tc.Mode, stop: stop}, nil
}

// dump writes the events kept in ring mode to w. Stream and both modes have
// already written them.
func (t *tracing) dump(w io.Writer) {
	if t.mode != trace.ModeRing {
		return
	}
	d, ok := t.tracer.(trace.Dumper)
	if !ok {
		return
	}
	fmt.Fprintln(w, "--- trace (last events) ---")
	if err := d.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
