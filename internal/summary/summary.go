// Package summary condenses a completed call ledger into the read-only record
// handed to reporters.
package summary

import (
	"time"

	"github.com/cockroachdb/errors"

	"drawrec/internal/callrec"
	"drawrec/internal/graph"
)

// ErrNoStartTime is returned when a summary is requested before a run
// started.
var ErrNoStartTime = errors.New("no start time recorded")

// SuccessOutcome is the outcome text of a run whose root returned.
const SuccessOutcome = "Successfully Returned"

// Node is a flattened ledger entry.
type Node struct {
	Seq    int
	Parent int // 0 for the root
	Depth  int
	Label  string
	Status graph.Status
}

// Summary describes one finished top-level run.
type Summary struct {
	Func       string
	FirstCall  string // root signature including its result
	Invocation string // root signature without the result
	Return     string // root result, or the unset marker
	Failure    string // empty when the root returned
	TotalCalls int
	MaxDepth   int
	Started    time.Time
	Runtime    time.Duration
	Graph      string

	CallsPerDepth []int // index is depth
	Nodes         []Node
}

// Failed reports whether the root call failed.
func (s *Summary) Failed() bool { return s.Failure != "" }

// Outcome returns SuccessOutcome or the failure text.
func (s *Summary) Outcome() string {
	if s.Failed() {
		return s.Failure
	}
	return SuccessOutcome
}

// RuntimeSeconds returns the runtime as fractional seconds.
func (s *Summary) RuntimeSeconds() float64 { return s.Runtime.Seconds() }

// Builder produces summaries. The zero value renders graphs with the zero
// graph.Builder.
type Builder struct {
	Graph graph.Builder
}

// Build summarizes ledger with the zero Builder.
func Build(ledger []*callrec.Record, start, end time.Time) (*Summary, error) {
	return Builder{}.Build(ledger, start, end)
}

// Build summarizes a completed ledger for a run that started at start and
// finished at end.
func (b Builder) Build(ledger []*callrec.Record, start, end time.Time) (*Summary, error) {
	if start.IsZero() {
		return nil, errors.WithAssertionFailure(ErrNoStartTime)
	}
	if len(ledger) == 0 {
		return nil, errors.WithAssertionFailure(graph.ErrEmptyLedger)
	}
	dot, err := b.Graph.Build(ledger)
	if err != nil {
		return nil, err
	}

	root := ledger[0]
	s := &Summary{
		Func:       root.Func,
		FirstCall:  root.Signature(),
		Invocation: root.Invocation(),
		Return:     root.Result(),
		TotalCalls: len(ledger),
		Started:    start,
		Runtime:    end.Sub(start),
		Graph:      dot,
		Nodes:      make([]Node, 0, len(ledger)),
	}
	if root.Err != nil {
		s.Failure = root.Err.Error()
	}
	for _, r := range ledger {
		if r.Depth > s.MaxDepth {
			s.MaxDepth = r.Depth
		}
		for len(s.CallsPerDepth) <= r.Depth {
			s.CallsPerDepth = append(s.CallsPerDepth, 0)
		}
		s.CallsPerDepth[r.Depth]++

		n := Node{Seq: r.Seq, Depth: r.Depth, Label: r.Signature(), Status: graph.Classify(r)}
		if r.Parent != nil {
			n.Parent = r.Parent.Seq
		}
		s.Nodes = append(s.Nodes, n)
	}
	return s, nil
}
