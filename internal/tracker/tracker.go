// Package tracker records every call of a tracked recursive function in a
// ledger, reconstructs the call tree when the outermost call returns, and
// hands the resulting summary to reporters.
//
// A Tracker serves one call tree at a time and is not safe for concurrent
// use. Independent call trees, such as trees running on different
// goroutines, need their own Tracker.
package tracker

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"drawrec/internal/callrec"
	"drawrec/internal/summary"
	"drawrec/internal/trace"
)

// Reporter consumes the summary of a finished top-level run.
type Reporter interface {
	Report(s *summary.Summary) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(s *summary.Summary) error

// Report implements Reporter.
func (f ReporterFunc) Report(s *summary.Summary) error { return f(s) }

// Option configures a Tracker.
type Option func(*Tracker)

// WithStdoutReporter adds reporters that run when the root function was
// wrapped with ReportToStdout(true).
func WithStdoutReporter(rs ...Reporter) Option {
	return func(t *Tracker) { t.stdout = append(t.stdout, rs...) }
}

// WithGraphReporter adds reporters that run unless the root function was
// wrapped with EmitGraphReport(false).
func WithGraphReporter(rs ...Reporter) Option {
	return func(t *Tracker) { t.graph = append(t.graph, rs...) }
}

// WithReporter adds reporters that run after every top-level run.
func WithReporter(rs ...Reporter) Option {
	return func(t *Tracker) { t.always = append(t.always, rs...) }
}

// TraceTo sends run and call events to tr.
func TraceTo(tr trace.Tracer) Option {
	return func(t *Tracker) {
		if tr != nil {
			t.tracer = tr
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithErrorHandler receives summary and reporter errors. These never change
// the outcome of the tracked call. The default prints them to stderr.
func WithErrorHandler(fn func(error)) Option {
	return func(t *Tracker) { t.onError = fn }
}

// WithSummaryBuilder replaces the zero summary.Builder, e.g. to change the
// graph palette.
func WithSummaryBuilder(b summary.Builder) Option {
	return func(t *Tracker) { t.builder = b }
}

// Tracker holds the ledger and the simulated call stack of the run in
// progress.
type Tracker struct {
	stdout  []Reporter
	graph   []Reporter
	always  []Reporter
	tracer  trace.Tracer
	now     func() time.Time
	onError func(error)
	builder summary.Builder

	ledger  []*callrec.Record
	stack   []*callrec.Record
	start   time.Time
	root    *funcConfig
	runSpan *trace.Span
	runs    int
}

// New returns an idle Tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		tracer: trace.Nop,
		now:    time.Now,
		onError: func(err error) {
			fmt.Fprintf(os.Stderr, "drawrec: %v\n", err)
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Depth returns the number of calls in progress.
func (t *Tracker) Depth() int { return len(t.stack) }

// Runs returns the number of completed top-level runs.
func (t *Tracker) Runs() int { return t.runs }

// enter records a call to name with args, runs body, and completes the run
// if this was the outermost call. The returned error is nil or a *Failure.
func (t *Tracker) enter(name string, cfg *funcConfig, args []callrec.Arg, body func() (any, error)) error {
	rec := callrec.New(len(t.ledger)+1, name, args, cfg.ignored)
	first := len(t.stack) == 0
	var parentSeq uint64
	if !first {
		parent := t.stack[len(t.stack)-1]
		parent.AddChild(rec)
		parentSeq = uint64(parent.Seq)
	}
	t.stack = append(t.stack, rec)
	t.ledger = append(t.ledger, rec)

	if first {
		t.start = t.now()
		t.root = cfg
		t.runSpan = trace.Begin(t.tracer, trace.ScopeRun, 0, 0, 0, name)
	}
	span := trace.Begin(t.tracer, trace.ScopeCall, uint64(rec.Seq), parentSeq, rec.Depth, rec.Invocation())

	invoke(rec, body)

	t.stack = t.stack[:len(t.stack)-1]
	if rec.Failed() {
		span.End(rec.Err.Error(), true)
	} else {
		span.End(rec.Result(), false)
	}

	if len(t.stack) == 0 {
		t.finish()
	}
	return rec.Err
}

// invoke runs body and records its outcome on rec. A panic, in body or while
// the result is recorded, becomes the record's failure so that the frames
// above still unwind through the tracker.
func invoke(rec *callrec.Record, body func() (any, error)) {
	defer func() {
		if v := recover(); v != nil {
			rec.Fail(attribute(rec, panicError(v)))
		}
	}()
	result, err := body()
	if err != nil {
		rec.Fail(attribute(rec, err))
		return
	}
	rec.Return(result)
}

// attribute wraps err raised by rec, unless a deeper frame already did.
func attribute(rec *callrec.Record, err error) *Failure {
	if f, ok := AsFailure(err); ok {
		return f
	}
	return &Failure{Cause: err, Depth: rec.Depth, Call: rec.Signature()}
}

// finish summarizes the completed run and dispatches it. The tracker is
// reset first so that reporters, and the caller of the root, see an idle
// tracker.
func (t *Tracker) finish() {
	ledger, start, root, runSpan := t.ledger, t.start, t.root, t.runSpan
	t.reset()
	t.runs++

	s, err := t.builder.Build(ledger, start, t.now())
	failed := ledger[0].Failed()
	runSpan.WithExtra("calls", strconv.Itoa(len(ledger))).End(ledger[0].Signature(), failed)
	if err != nil {
		t.fail(errors.Wrap(err, "summarize run"))
		return
	}

	var reporters []Reporter
	if root.stdout {
		reporters = append(reporters, t.stdout...)
	}
	if root.graph {
		reporters = append(reporters, t.graph...)
	}
	reporters = append(reporters, t.always...)
	for _, r := range reporters {
		if err := r.Report(s); err != nil {
			t.fail(errors.Wrapf(err, "report %s", s.Invocation))
		}
	}
}

func (t *Tracker) reset() {
	t.ledger = nil
	t.stack = nil
	t.start = time.Time{}
	t.root = nil
	t.runSpan = nil
}

func (t *Tracker) fail(err error) {
	t.tracer.Emit(&trace.Event{
		Time:   time.Now(),
		Seq:    trace.NextSeq(),
		Kind:   trace.KindPoint,
		Scope:  trace.ScopeRun,
		Name:   "reporter",
		Detail: err.Error(),
		Failed: true,
	})
	if t.onError != nil {
		t.onError(err)
	}
}
