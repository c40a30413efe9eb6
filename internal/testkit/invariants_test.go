package testkit

import (
	"strings"
	"testing"

	"drawrec/internal/callrec"
	"drawrec/internal/summary"
)

func TestCheckLedger(t *testing.T) {
	root := callrec.New(1, "f", []callrec.Arg{callrec.Pos(2)}, nil)
	a := callrec.New(2, "f", []callrec.Arg{callrec.Pos(1)}, nil)
	b := callrec.New(3, "f", []callrec.Arg{callrec.Pos(0)}, nil)
	root.AddChild(a)
	root.AddChild(b)
	if err := CheckLedger([]*callrec.Record{root, a, b}); err != nil {
		t.Fatalf("valid ledger: %v", err)
	}
	if err := CheckLedger([]*callrec.Record{root, b, a}); err == nil || !strings.Contains(err.Error(), "seq") {
		t.Fatalf("reordered ledger: %v", err)
	}
	orphan := callrec.New(2, "f", nil, nil)
	if err := CheckLedger([]*callrec.Record{root, orphan}); err == nil || !strings.Contains(err.Error(), "no earlier parent") {
		t.Fatalf("orphan: %v", err)
	}
	if err := CheckLedger(nil); err == nil {
		t.Fatalf("empty ledger accepted")
	}
}

func TestCheckNodes(t *testing.T) {
	valid := []summary.Node{
		{Seq: 1},
		{Seq: 2, Parent: 1, Depth: 1},
		{Seq: 3, Parent: 2, Depth: 2},
		{Seq: 4, Parent: 1, Depth: 1},
	}
	if err := CheckNodes(valid); err != nil {
		t.Fatalf("valid nodes: %v", err)
	}
	tests := []struct {
		name  string
		nodes []summary.Node
		want  string
	}{
		{"root depth", []summary.Node{{Seq: 1, Depth: 1}}, "root"},
		{"forward parent", []summary.Node{{Seq: 1}, {Seq: 2, Parent: 3, Depth: 1}}, "parent 3"},
		{"depth", []summary.Node{{Seq: 1}, {Seq: 2, Parent: 1, Depth: 2}}, "depth 2"},
		{"gap", []summary.Node{{Seq: 1}, {Seq: 3, Parent: 1, Depth: 1}}, "seq 3"},
	}
	for _, tt := range tests {
		if err := CheckNodes(tt.nodes); err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error = %v, want it to mention %q", tt.name, err, tt.want)
		}
	}
}
