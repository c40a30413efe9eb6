package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"drawrec/internal/summary"
	"drawrec/internal/testkit"
	"drawrec/internal/tracker"
)

func runExample(t *testing.T, name string, args ...int) (string, *summary.Summary, error) {
	t.Helper()
	e, err := Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", name, err)
	}
	var got *summary.Summary
	tr := tracker.New(
		tracker.WithReporter(tracker.ReporterFunc(func(s *summary.Summary) error {
			got = s
			return nil
		})),
		tracker.WithErrorHandler(func(err error) { t.Errorf("tracker error: %v", err) }),
	)
	out, err := e.Run(tracker.WithTracker(context.Background(), tr), args)
	return out, got, err
}

func TestExamples(t *testing.T) {
	tests := []struct {
		name     string
		args     []int
		want     string
		calls    int
		maxDepth int
	}{
		{"fib", []int{7}, "13", 41, 6},
		{"fib", []int{1}, "1", 1, 0},
		{"fastExp", []int{17, 19}, "239072435685151324847153", 5, 4},
		{"fastExp", nil, "239072435685151324847153", 5, 4},
		{"gridTraveler", []int{3, 3}, "10", 31, 7},
		{"ackermann", []int{2, 2}, "7", 27, 7},
		{"hanoi", []int{3}, "7", 15, 3},
	}
	for _, tt := range tests {
		out, s, err := runExample(t, tt.name, tt.args...)
		if err != nil {
			t.Fatalf("%s%v: %v", tt.name, tt.args, err)
		}
		if out != tt.want {
			t.Errorf("%s%v = %q, want %q", tt.name, tt.args, out, tt.want)
		}
		if s == nil {
			t.Fatalf("%s%v: no summary", tt.name, tt.args)
		}
		if err := testkit.CheckNodes(s.Nodes); err != nil {
			t.Errorf("%s%v: %v", tt.name, tt.args, err)
		}
		if s.TotalCalls != tt.calls {
			t.Errorf("%s%v: calls = %d, want %d", tt.name, tt.args, s.TotalCalls, tt.calls)
		}
		if tt.maxDepth > 0 && s.MaxDepth != tt.maxDepth {
			t.Errorf("%s%v: depth = %d, want %d", tt.name, tt.args, s.MaxDepth, tt.maxDepth)
		}
	}
}

func TestGridTravelerHidesMemo(t *testing.T) {
	_, s, err := runExample(t, "gridTraveler", 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(s.Graph, "memo") || s.Invocation != "gridTraveler(2,3)" {
		t.Fatalf("memo leaked: invocation=%q", s.Invocation)
	}
}

func TestHanoiRendersKeywords(t *testing.T) {
	_, s, err := runExample(t, "hanoi", 1)
	if err != nil {
		t.Fatal(err)
	}
	if s.Invocation != `hanoi(1,from="A",to="C",via="B")` {
		t.Fatalf("Invocation = %q", s.Invocation)
	}
}

func TestWillPanic(t *testing.T) {
	_, s, err := runExample(t, "willPanic", 3)
	f, ok := tracker.AsFailure(err)
	if !ok {
		t.Fatalf("error = %v, want *tracker.Failure", err)
	}
	if f.Depth != 3 || f.Call != "willPanic(0)-> !" {
		t.Fatalf("failure = %+v", f)
	}
	if s.TotalCalls != 4 || !s.Failed() {
		t.Fatalf("summary calls=%d failed=%v", s.TotalCalls, s.Failed())
	}
}

func TestRandomPanicIsSeeded(t *testing.T) {
	_, a, errA := runExample(t, "randomPanic", 42)
	_, b, errB := runExample(t, "randomPanic", 42)
	if errA == nil || errB == nil {
		t.Fatalf("randomPanic returned without failing")
	}
	if !strings.HasPrefix(errA.Error(), "Panic! at depth ") {
		t.Fatalf("error = %q", errA)
	}
	if a.TotalCalls != b.TotalCalls {
		t.Fatalf("same seed gave %d and %d calls", a.TotalCalls, b.TotalCalls)
	}
}

func TestRunValidatesArguments(t *testing.T) {
	e, _ := Lookup("ackermann")
	if _, err := e.Run(context.Background(), []int{1}); err == nil || !strings.Contains(err.Error(), "expected 2 argument(s)") {
		t.Fatalf("arity error = %v", err)
	}
	if _, err := e.Run(context.Background(), []int{4, 1}); err == nil || !strings.Contains(err.Error(), "must be in [0, 3]") {
		t.Fatalf("range error = %v", err)
	}
}

func TestParseInvocation(t *testing.T) {
	e, args, err := ParseInvocation("ackermann:2, 3")
	if err != nil || e.Name != "ackermann" || len(args) != 2 || args[1] != 3 {
		t.Fatalf("ParseInvocation = %v %v %v", e, args, err)
	}
	e, args, err = ParseInvocation("fib")
	if err != nil || e.Name != "fib" || args != nil {
		t.Fatalf("bare name = %v %v %v", e, args, err)
	}
	if _, _, err := ParseInvocation("nope:1"); !errors.Is(err, ErrUnknownExample) {
		t.Fatalf("unknown error = %v", err)
	}
	if _, _, err := ParseInvocation("fib:x"); err == nil {
		t.Fatalf("expected integer parse error")
	}
}

func TestAllSorted(t *testing.T) {
	all := All()
	if len(all) != 7 {
		t.Fatalf("len(All()) = %d, want 7", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Fatalf("not sorted: %s before %s", all[i-1].Name, all[i].Name)
		}
	}
}
