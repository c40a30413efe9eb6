// Package testkit holds structural checks shared by tests.
package testkit

import (
	"github.com/cockroachdb/errors"

	"drawrec/internal/callrec"
	"drawrec/internal/summary"
)

// CheckLedger verifies the invariants of a completed ledger:
//  1. sequence numbers are 1..n in ledger order
//  2. the first record is the only root and has depth 0
//  3. every other record's parent appears earlier, one level up
//  4. each parent's children are in entry order
func CheckLedger(ledger []*callrec.Record) error {
	if len(ledger) == 0 {
		return errors.New("empty ledger")
	}
	pos := make(map[*callrec.Record]int, len(ledger))
	for i, r := range ledger {
		if r.Seq != i+1 {
			return errors.Newf("record %d has seq %d", i, r.Seq)
		}
		if i == 0 {
			if r.Parent != nil || r.Depth != 0 {
				return errors.Newf("root %s has parent=%v depth=%d", r.Invocation(), r.Parent != nil, r.Depth)
			}
		} else {
			p, ok := pos[r.Parent]
			if r.Parent == nil || !ok {
				return errors.Newf("record %d (%s) has no earlier parent", r.Seq, r.Invocation())
			}
			if r.Depth != ledger[p].Depth+1 {
				return errors.Newf("record %d depth %d under parent depth %d", r.Seq, r.Depth, ledger[p].Depth)
			}
		}
		pos[r] = i
		for j := 1; j < len(r.Children); j++ {
			if r.Children[j-1].Seq >= r.Children[j].Seq {
				return errors.Newf("children of %d out of entry order", r.Seq)
			}
		}
	}
	return nil
}

// CheckNodes verifies the same invariants on a summary's flattened nodes.
func CheckNodes(nodes []summary.Node) error {
	if len(nodes) == 0 {
		return errors.New("no nodes")
	}
	lastChild := make(map[int]int, len(nodes))
	for i, n := range nodes {
		if n.Seq != i+1 {
			return errors.Newf("node %d has seq %d", i, n.Seq)
		}
		if i == 0 {
			if n.Parent != 0 || n.Depth != 0 {
				return errors.Newf("root has parent=%d depth=%d", n.Parent, n.Depth)
			}
			continue
		}
		if n.Parent < 1 || n.Parent >= n.Seq {
			return errors.Newf("node %d has parent %d", n.Seq, n.Parent)
		}
		if parent := nodes[n.Parent-1]; n.Depth != parent.Depth+1 {
			return errors.Newf("node %d depth %d under parent depth %d", n.Seq, n.Depth, parent.Depth)
		}
		if prev := lastChild[n.Parent]; prev >= n.Seq {
			return errors.Newf("children of %d out of entry order", n.Parent)
		}
		lastChild[n.Parent] = n.Seq
	}
	return nil
}
