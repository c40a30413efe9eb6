// Package catalog holds the instrumented recursive functions the CLI can run.
package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"drawrec/internal/callrec"
	"drawrec/internal/tracker"
)

// ErrUnknownExample is returned by Lookup for names not in the catalog.
var ErrUnknownExample = errors.New("unknown example")

// Example is one runnable recursive function.
type Example struct {
	Name        string
	Usage       string
	Description string
	Arity       int
	Defaults    []int // used when Run gets no arguments

	check func(args []int) error
	run   func(t *tracker.Tracker, args []int, opts []tracker.FuncOption) (any, error)
}

// Run calls the example once on the tracker attached to ctx and returns the
// rendered result. opts apply to every tracked function of the example.
func (e *Example) Run(ctx context.Context, args []int, opts ...tracker.FuncOption) (string, error) {
	if len(args) == 0 {
		args = e.Defaults
	}
	if len(args) != e.Arity {
		return "", errors.Newf("%s: expected %d argument(s), got %d (usage: %s)", e.Name, e.Arity, len(args), e.Usage)
	}
	if e.check != nil {
		if err := e.check(args); err != nil {
			return "", errors.Wrapf(err, "%s", e.Name)
		}
	}
	v, err := e.run(tracker.FromContext(ctx), args, opts)
	if err != nil {
		return "", err
	}
	return callrec.Display(v), nil
}

var registry = map[string]*Example{}

func register(e *Example) {
	if _, dup := registry[e.Name]; dup {
		panic("catalog: duplicate example " + e.Name)
	}
	registry[e.Name] = e
}

// All returns the examples sorted by name.
func All() []*Example {
	out := make([]*Example, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds an example by name.
func Lookup(name string) (*Example, error) {
	if e, ok := registry[name]; ok {
		return e, nil
	}
	return nil, errors.Wrapf(ErrUnknownExample, "%q", name)
}

// ParseInvocation splits "fib:7" or "ackermann:2,3" into the example and its
// integer arguments. A bare name uses the example's defaults.
func ParseInvocation(s string) (*Example, []int, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(s), ":")
	e, err := Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	if rest == "" {
		return e, nil, nil
	}
	args, err := ParseInts(strings.Split(rest, ","))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "%s", s)
	}
	return e, args, nil
}

// ParseInts converts command-line arguments to ints.
func ParseInts(fields []string) ([]int, error) {
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Newf("invalid integer argument %q", f)
		}
		out = append(out, n)
	}
	return out, nil
}

func between(i int, lo, hi int) func([]int) error {
	return func(args []int) error {
		if args[i] < lo || args[i] > hi {
			return errors.Newf("argument %d must be in [%d, %d], got %d", i+1, lo, hi, args[i])
		}
		return nil
	}
}

func all(checks ...func([]int) error) func([]int) error {
	return func(args []int) error {
		for _, c := range checks {
			if err := c(args); err != nil {
				return err
			}
		}
		return nil
	}
}
