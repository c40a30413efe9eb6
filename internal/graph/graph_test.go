package graph

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"

	"drawrec/internal/callrec"
)

// parseTree builds a ledger from an indented listing, one call per line:
//
//	name arg... [-> result] [fail]
//
// Two spaces of indentation per depth level; lines appear in call order.
func parseTree(t *testing.T, input string) []*callrec.Record {
	t.Helper()
	var ledger, stack []*callrec.Record
	for _, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth := (len(line) - len(strings.TrimLeft(line, " "))) / 2
		fields := strings.Fields(line)
		var args []callrec.Arg
		var result string
		var returned, failed bool
		for i := 1; i < len(fields); i++ {
			switch fields[i] {
			case "->":
				i++
				result, returned = fields[i], true
			case "fail":
				failed = true
			default:
				if n, err := strconv.Atoi(fields[i]); err == nil {
					args = append(args, callrec.Pos(n))
				} else {
					args = append(args, callrec.Pos(fields[i]))
				}
			}
		}
		r := callrec.New(len(ledger)+1, fields[0], args, nil)
		if returned {
			r.Return(result)
		}
		if failed {
			r.Fail(errors.New("failed"))
		}
		stack = stack[:depth]
		if depth > 0 {
			stack[depth-1].AddChild(r)
		}
		stack = append(stack, r)
		ledger = append(ledger, r)
	}
	return ledger
}

func TestGraph(t *testing.T) {
	datadriven.RunTest(t, "testdata/graph", func(t *testing.T, d *datadriven.TestData) string {
		ledger := parseTree(t, d.Input)
		switch d.Cmd {
		case "build":
			var b Builder
			if d.HasArg("name") {
				d.ScanArgs(t, "name", &b.Name)
			}
			if d.HasArg("error") {
				d.ScanArgs(t, "error", &b.Palette.Error)
			}
			out, err := b.Build(ledger)
			if err != nil {
				return fmt.Sprintf("error: %v\n", err)
			}
			return out + "\n"
		case "edges":
			if len(ledger) == 0 {
				return "none\n"
			}
			var sb strings.Builder
			for _, e := range Edges(ledger[0]) {
				fmt.Fprintf(&sb, "%d -> %d\n", e.From, e.To)
			}
			return sb.String()
		default:
			return fmt.Sprintf("unknown command: %s", d.Cmd)
		}
	})
}

func TestBuildEmptyLedgerIsAssertion(t *testing.T) {
	_, err := Build(nil)
	if !errors.Is(err, ErrEmptyLedger) {
		t.Fatalf("Build(nil) error = %v, want ErrEmptyLedger", err)
	}
	if !errors.HasAssertionFailure(err) {
		t.Fatalf("Build(nil) error should be an assertion failure")
	}
}

func TestClassifyOrder(t *testing.T) {
	parent := callrec.New(1, "f", nil, nil)
	child := callrec.New(2, "f", nil, nil)
	parent.AddChild(child)
	if got := Classify(parent); got != StatusInternal {
		t.Fatalf("Classify(parent) = %v, want internal", got)
	}
	if got := Classify(child); got != StatusLeaf {
		t.Fatalf("Classify(child) = %v, want leaf", got)
	}
	child.Fail(errors.New("boom"))
	parent.Fail(errors.New("boom"))
	if Classify(parent) != StatusError || Classify(child) != StatusError {
		t.Fatalf("failed records must classify as error regardless of children")
	}
}

func TestEdgeCountIsRecordsMinusOne(t *testing.T) {
	ledger := parseTree(t, `fib 4 -> 3
  fib 3 -> 2
    fib 2 -> 1
      fib 1 -> 1
      fib 0 -> 0
    fib 1 -> 1
  fib 2 -> 1
    fib 1 -> 1
    fib 0 -> 0`)
	if got, want := len(Edges(ledger[0])), len(ledger)-1; got != want {
		t.Fatalf("len(Edges) = %d, want %d", got, want)
	}
}

func TestPaletteFallback(t *testing.T) {
	p := Palette{Leaf: "blue"}
	if got := p.Color(StatusLeaf); got != "blue" {
		t.Fatalf("Color(leaf) = %q, want blue", got)
	}
	if got := p.Color(StatusError); got != "red" {
		t.Fatalf("Color(error) = %q, want red", got)
	}
}
