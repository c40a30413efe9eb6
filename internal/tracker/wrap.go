package tracker

import "drawrec/internal/callrec"

// FuncOption configures a wrapped function.
type FuncOption func(*funcConfig)

type funcConfig struct {
	stdout  bool
	graph   bool
	ignored map[string]struct{}
}

func newFuncConfig(opts []FuncOption) *funcConfig {
	cfg := &funcConfig{graph: true, ignored: make(map[string]struct{})}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ReportToStdout runs the tracker's stdout reporters after top-level calls of
// the function. Off by default.
func ReportToStdout(on bool) FuncOption {
	return func(c *funcConfig) { c.stdout = on }
}

// EmitGraphReport runs the tracker's graph reporters after top-level calls of
// the function. On by default.
func EmitGraphReport(on bool) FuncOption {
	return func(c *funcConfig) { c.graph = on }
}

// IgnoreKeywords hides the named keyword arguments from every rendered
// signature, e.g. a memoization table threaded through the recursion.
func IgnoreKeywords(names ...string) FuncOption {
	return func(c *funcConfig) {
		for _, n := range names {
			c.ignored[n] = struct{}{}
		}
	}
}

// Since Go has no variadic generics, the wrappers below cover the common
// arities. The returned function has the same signature as fn; recursive
// calls must go through it to be recorded:
//
//	var fib func(int) (int, error)
//	fib = tracker.Wrap1(t, "fib", func(n int) (int, error) {
//		if n < 2 {
//			return n, nil
//		}
//		a, err := fib(n - 1)
//		...
//	})

// Wrap0 tracks a function without arguments.
func Wrap0[R any](t *Tracker, name string, fn func() (R, error), opts ...FuncOption) func() (R, error) {
	cfg := newFuncConfig(opts)
	return func() (R, error) {
		return track(t, name, cfg, nil, fn)
	}
}

// Wrap1 tracks a function of one argument.
func Wrap1[A, R any](t *Tracker, name string, fn func(A) (R, error), opts ...FuncOption) func(A) (R, error) {
	cfg := newFuncConfig(opts)
	return func(a A) (R, error) {
		return track(t, name, cfg, []callrec.Arg{callrec.Pos(a)}, func() (R, error) {
			return fn(a)
		})
	}
}

// Wrap2 tracks a function of two arguments.
func Wrap2[A, B, R any](t *Tracker, name string, fn func(A, B) (R, error), opts ...FuncOption) func(A, B) (R, error) {
	cfg := newFuncConfig(opts)
	return func(a A, b B) (R, error) {
		return track(t, name, cfg, []callrec.Arg{callrec.Pos(a), callrec.Pos(b)}, func() (R, error) {
			return fn(a, b)
		})
	}
}

// Wrap3 tracks a function of three arguments.
func Wrap3[A, B, C, R any](t *Tracker, name string, fn func(A, B, C) (R, error), opts ...FuncOption) func(A, B, C) (R, error) {
	cfg := newFuncConfig(opts)
	return func(a A, b B, c C) (R, error) {
		args := []callrec.Arg{callrec.Pos(a), callrec.Pos(b), callrec.Pos(c)}
		return track(t, name, cfg, args, func() (R, error) {
			return fn(a, b, c)
		})
	}
}

// WrapArgs tracks a function that takes positional and keyword arguments
// built with callrec.Pos and callrec.KW.
func WrapArgs[R any](t *Tracker, name string, fn func(callrec.Args) (R, error), opts ...FuncOption) func(...callrec.Arg) (R, error) {
	cfg := newFuncConfig(opts)
	return func(args ...callrec.Arg) (R, error) {
		return track(t, name, cfg, args, func() (R, error) {
			return fn(args)
		})
	}
}

func track[R any](t *Tracker, name string, cfg *funcConfig, args []callrec.Arg, fn func() (R, error)) (R, error) {
	var out R
	err := t.enter(name, cfg, args, func() (any, error) {
		r, err := fn()
		out = r
		return r, err
	})
	return out, err
}
