// Package trace is the diagnostic event stream of drawrec.
//
// A tracker emits an event when a top-level run begins and ends and, at the
// most verbose level, when every tracked call is entered and left. Events go
// to a Tracer, which either writes them immediately or keeps the most recent
// ones in memory so they can be dumped after a failed run.
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: circular buffer, dumped on demand
//   - MultiTracer: fan-out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only failed calls
//   - LevelRun: run boundaries and failures
//   - LevelCall: every call
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeCall, seq, parentSeq, depth, "fib(3)")
//	defer span.End("", false)
package trace
