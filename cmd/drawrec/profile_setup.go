package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"drawrec/internal/prof"
)

// setupProfiling starts the profilers named by the persistent profiling
// flags. The session is nil-safe to stop.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cpu-profile flag")
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get mem-profile flag")
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get runtime-trace flag")
	}
	if cpuProfile == "" && memProfile == "" && tracePath == "" {
		return nil, nil
	}
	return prof.Start(prof.Options{CPU: cpuProfile, Mem: memProfile, RuntimeTrace: tracePath})
}
