package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks entry into a run or a call.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the return from a run or a call.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	KindHeartbeat // periodic liveness signal
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeRun covers one top-level invocation and all of its descendants.
	ScopeRun Scope = iota + 1
	// ScopeCall covers a single tracked call.
	ScopeCall
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeCall:
		return "call"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // call sequence number within its run
	ParentID uint64            // parent call (0 if root)
	Depth    int               // recursion depth of the call
	GID      uint64            // goroutine running the call tree
	Name     string            // rendered invocation, e.g. "fib(3)"
	Detail   string            // optional detail message
	Failed   bool              // the span ended in a failure
	Extra    map[string]string // extensible key-value pairs
}
