// Package prof wraps the runtime profilers for the CLI.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/cockroachdb/errors"
)

// Options names the output files. Empty paths disable a profiler.
type Options struct {
	CPU          string
	Mem          string
	RuntimeTrace string
}

// Session is a set of running profilers.
type Session struct {
	opts      Options
	cpuFile   *os.File
	traceFile *os.File
	stopped   bool
}

// Start enables the profilers selected by opts. A failure leaves nothing
// running.
func Start(opts Options) (*Session, error) {
	s := &Session{opts: opts}
	if opts.CPU != "" {
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, errors.Wrap(err, "failed to start cpu profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "failed to start cpu profile")
		}
		s.cpuFile = f
	}
	if opts.RuntimeTrace != "" {
		f, err := os.Create(opts.RuntimeTrace)
		if err == nil {
			if err = trace.Start(f); err != nil {
				_ = f.Close()
			}
		}
		if err != nil {
			s.stopCPU()
			return nil, errors.Wrap(err, "failed to start runtime trace")
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends the CPU profile and runtime trace, then writes the heap profile.
// Calling Stop more than once is a no-op.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	var err error
	if s.traceFile != nil {
		trace.Stop()
		err = errors.CombineErrors(err, s.traceFile.Close())
		s.traceFile = nil
	}
	err = errors.CombineErrors(err, s.stopCPU())
	if s.opts.Mem != "" {
		err = errors.CombineErrors(err, writeMem(s.opts.Mem))
	}
	return err
}

func (s *Session) stopCPU() error {
	if s.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := s.cpuFile.Close()
	s.cpuFile = nil
	return err
}

func writeMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to write heap profile")
	}
	defer func() {
		err = errors.CombineErrors(err, f.Close())
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
