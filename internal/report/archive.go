package report

import (
	"bytes"
	"os"
	"time"

	"fortio.org/safecast"
	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"

	"drawrec/internal/graph"
	"drawrec/internal/summary"
)

// Current schema version - increment when archivedRun changes
const archiveSchemaVersion uint16 = 1

// ArchiveExt is the file extension of archived runs.
const ArchiveExt = ".mp"

// archivedRun is the on-disk form of a summary.
type archivedRun struct {
	Schema uint16

	Func       string
	FirstCall  string
	Invocation string
	Return     string
	Failure    string

	TotalCalls uint32
	MaxDepth   uint32
	Started    int64 // unix nanoseconds
	Runtime    int64 // nanoseconds

	Graph         string
	CallsPerDepth []uint32
	Nodes         []archivedNode
}

type archivedNode struct {
	Seq    uint32
	Parent uint32
	Depth  uint32
	Label  string
	Status uint8
}

// Archive stores each run as a msgpack record so it can be replayed later.
type Archive struct {
	Dir       string // defaults to DefaultDir
	Overwrite bool

	// Written receives the path of each archive, if set.
	Written func(path string)
}

// Report implements tracker.Reporter.
func (a *Archive) Report(s *summary.Summary) error {
	path, err := a.Write(s)
	if err != nil {
		return err
	}
	if a.Written != nil {
		a.Written(path)
	}
	return nil
}

// Write encodes s and stores it under the sanitized invocation.
func (a *Archive) Write(s *summary.Summary) (string, error) {
	run, err := toArchived(s)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(run); err != nil {
		return "", errors.Wrap(err, "encode archive")
	}
	return writeArtifact(dirOrDefault(a.Dir), SanitizeName(s.Invocation), ArchiveExt, a.Overwrite, buf.Bytes())
}

// ReadArchive loads a run written by Archive.
func ReadArchive(path string) (*summary.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var run archivedRun
	if err := msgpack.NewDecoder(f).Decode(&run); err != nil {
		return nil, errors.Wrapf(err, "decode archive %s", path)
	}
	if run.Schema != archiveSchemaVersion {
		return nil, errors.Newf("%s: unsupported archive schema %d (want %d)", path, run.Schema, archiveSchemaVersion)
	}
	return fromArchived(&run), nil
}

func toArchived(s *summary.Summary) (*archivedRun, error) {
	calls, err := safecast.Conv[uint32](s.TotalCalls)
	if err != nil {
		return nil, errors.Wrap(err, "total calls overflow")
	}
	depth, err := safecast.Conv[uint32](s.MaxDepth)
	if err != nil {
		return nil, errors.Wrap(err, "max depth overflow")
	}
	run := &archivedRun{
		Schema:        archiveSchemaVersion,
		Func:          s.Func,
		FirstCall:     s.FirstCall,
		Invocation:    s.Invocation,
		Return:        s.Return,
		Failure:       s.Failure,
		TotalCalls:    calls,
		MaxDepth:      depth,
		Started:       s.Started.UnixNano(),
		Runtime:       int64(s.Runtime),
		Graph:         s.Graph,
		CallsPerDepth: make([]uint32, len(s.CallsPerDepth)),
		Nodes:         make([]archivedNode, len(s.Nodes)),
	}
	for i, n := range s.CallsPerDepth {
		if run.CallsPerDepth[i], err = safecast.Conv[uint32](n); err != nil {
			return nil, errors.Wrap(err, "calls per depth overflow")
		}
	}
	for i, n := range s.Nodes {
		node := archivedNode{Label: n.Label, Status: uint8(n.Status)}
		if node.Seq, err = safecast.Conv[uint32](n.Seq); err != nil {
			return nil, err
		}
		if node.Parent, err = safecast.Conv[uint32](n.Parent); err != nil {
			return nil, err
		}
		if node.Depth, err = safecast.Conv[uint32](n.Depth); err != nil {
			return nil, err
		}
		run.Nodes[i] = node
	}
	return run, nil
}

func fromArchived(run *archivedRun) *summary.Summary {
	s := &summary.Summary{
		Func:          run.Func,
		FirstCall:     run.FirstCall,
		Invocation:    run.Invocation,
		Return:        run.Return,
		Failure:       run.Failure,
		TotalCalls:    int(run.TotalCalls),
		MaxDepth:      int(run.MaxDepth),
		Started:       time.Unix(0, run.Started),
		Runtime:       time.Duration(run.Runtime),
		Graph:         run.Graph,
		CallsPerDepth: make([]int, len(run.CallsPerDepth)),
		Nodes:         make([]summary.Node, len(run.Nodes)),
	}
	for i, n := range run.CallsPerDepth {
		s.CallsPerDepth[i] = int(n)
	}
	for i, n := range run.Nodes {
		s.Nodes[i] = summary.Node{
			Seq:    int(n.Seq),
			Parent: int(n.Parent),
			Depth:  int(n.Depth),
			Label:  n.Label,
			Status: graph.Status(n.Status),
		}
	}
	return s
}
