package trace

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Tracer receives the span and heartbeat events of tracked runs. Emit may be
// called from the heartbeat goroutine while a run is emitting call spans, so
// implementations must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled reports whether Level is above LevelOff.
	Enabled() bool
}

// Dumper is implemented by tracers that can replay held events after a run.
type Dumper interface {
	Dump(w io.Writer, format Format) error
}

// StorageMode selects where call events go: written out as they happen,
// held in a ring for dumping after a failed run, or both.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode reads a --trace-mode value. The empty string means stream.
func ParseMode(s string) (StorageMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeStream, nil
	}
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeStream, errors.Newf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes how the runs of one drawrec invocation are traced.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format        // FormatAuto picks one from OutputPath
	Output     io.Writer     // takes precedence over OutputPath
	OutputPath string        // "" or "-" writes to stderr
	RingSize   int           // calls kept in ring mode, DefaultRingSize if unset
	Heartbeat  time.Duration // 0 disables heartbeats
}

// New builds the tracer described by cfg. A config at LevelOff yields Nop
// and opens nothing.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}

	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth:
	default:
		return nil, errors.Newf("unknown storage mode: %v", cfg.Mode)
	}

	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	format := cfg.Format
	if format == FormatAuto {
		format = formatFor(cfg.OutputPath)
	}
	stream := NewStreamTracer(w, cfg.Level, format)
	if cfg.Mode == ModeStream {
		return stream, nil
	}
	return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
}

// formatFor picks NDJSON for .ndjson and .jsonl trace files so they can be
// fed to jq, and the aligned text format for everything else.
func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	default:
		return FormatText
	}
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return uncloseable{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open trace output %s", cfg.OutputPath)
	}
	return f, nil
}

// uncloseable keeps stderr open when the stream tracer is closed.
type uncloseable struct{ io.Writer }
