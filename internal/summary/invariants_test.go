package summary_test

import (
	"testing"
	"time"

	"drawrec/internal/callrec"
	"drawrec/internal/summary"
	"drawrec/internal/testkit"
)

// binary builds the ledger of a call tree where every call with n > 0 makes
// two calls with n-1, in the order a tracker would record them.
func binary(n int) []*callrec.Record {
	var ledger []*callrec.Record
	var call func(parent *callrec.Record, n int)
	call = func(parent *callrec.Record, n int) {
		r := callrec.New(len(ledger)+1, "split", []callrec.Arg{callrec.Pos(n)}, nil)
		if parent != nil {
			parent.AddChild(r)
		}
		ledger = append(ledger, r)
		if n > 0 {
			call(r, n-1)
			call(r, n-1)
		}
		r.Return(n)
	}
	call(nil, n)
	return ledger
}

func TestNodesKeepLedgerInvariants(t *testing.T) {
	ledger := binary(3)
	if err := testkit.CheckLedger(ledger); err != nil {
		t.Fatalf("ledger: %v", err)
	}
	s, err := summary.Build(ledger, time.Now(), time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := testkit.CheckNodes(s.Nodes); err != nil {
		t.Fatalf("nodes: %v", err)
	}
	if s.TotalCalls != 15 || s.MaxDepth != 3 || s.CallsPerDepth[3] != 8 {
		t.Fatalf("calls=%d depth=%d per-depth=%v", s.TotalCalls, s.MaxDepth, s.CallsPerDepth)
	}
}
