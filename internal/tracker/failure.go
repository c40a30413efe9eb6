package tracker

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Failure is an error raised inside a tracked call. It is created once, at
// the deepest frame that failed, and passed unchanged through every frame
// above it.
type Failure struct {
	Cause error
	Depth int    // depth of the call that failed
	Call  string // signature of the call that failed
}

// Error implements error.
func (f *Failure) Error() string {
	return fmt.Sprintf("%v at depth %d caused by call: %s", f.Cause, f.Depth, f.Call)
}

// Unwrap returns the original error.
func (f *Failure) Unwrap() error { return f.Cause }

// AsFailure extracts the Failure carried by err, if any.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// panicError turns a recovered panic value into an error.
func panicError(v any) error {
	if err, ok := v.(error); ok {
		return errors.Wrap(err, "panic")
	}
	return errors.Newf("panic: %v", v)
}
