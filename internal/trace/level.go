package trace

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff   Level = iota // no tracing
	LevelError              // only failed spans
	LevelRun                // run boundaries
	LevelCall               // every tracked call
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelRun:
		return "run"
	case LevelCall:
		return "call"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "run":
		return LevelRun, nil
	case "call":
		return LevelCall, nil
	default:
		return LevelOff, errors.Newf("invalid trace level: %q (expected: off|error|run|call)", s)
	}
}

// ShouldEmit reports whether ev passes this level.
func (l Level) ShouldEmit(ev *Event) bool {
	if ev.Kind == KindHeartbeat {
		return l > LevelOff
	}
	switch l {
	case LevelOff:
		return false
	case LevelError:
		return ev.Failed
	case LevelRun:
		return ev.Scope <= ScopeRun || ev.Failed
	case LevelCall:
		return true
	}
	return false
}
