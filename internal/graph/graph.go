// Package graph renders a completed call ledger as a Graphviz DOT digraph.
package graph

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"drawrec/internal/callrec"
)

// ErrEmptyLedger is returned when a graph is requested for a ledger with no
// records.
var ErrEmptyLedger = errors.New("empty ledger")

// Status classifies a record for coloring.
type Status uint8

const (
	StatusInternal Status = iota // has children and returned
	StatusLeaf                   // no children and returned
	StatusError                  // raised a failure
)

// String returns the string representation of Status.
func (s Status) String() string {
	switch s {
	case StatusInternal:
		return "internal"
	case StatusLeaf:
		return "leaf"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Classify picks the status of r. Failure wins over shape.
func Classify(r *callrec.Record) Status {
	switch {
	case r.Failed():
		return StatusError
	case len(r.Children) == 0:
		return StatusLeaf
	default:
		return StatusInternal
	}
}

// Palette maps statuses to DOT color names.
type Palette struct {
	Error    string
	Leaf     string
	Internal string
}

// DefaultPalette is red for failures, light green for leaves and orange for
// everything else.
var DefaultPalette = Palette{Error: "red", Leaf: "lightgreen", Internal: "orange"}

// Color returns the palette entry for s, falling back to DefaultPalette.
func (p Palette) Color(s Status) string {
	var c, def string
	switch s {
	case StatusError:
		c, def = p.Error, DefaultPalette.Error
	case StatusLeaf:
		c, def = p.Leaf, DefaultPalette.Leaf
	default:
		c, def = p.Internal, DefaultPalette.Internal
	}
	if c == "" {
		return def
	}
	return c
}

// Edge is a parent→child call.
type Edge struct {
	From int
	To   int
}

// Edges walks the tree under root breadth-first, following children in the
// order they were entered.
func Edges(root *callrec.Record) []Edge {
	if root == nil {
		return nil
	}
	var edges []Edge
	queue := []*callrec.Record{root}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for _, child := range r.Children {
			edges = append(edges, Edge{From: r.Seq, To: child.Seq})
			queue = append(queue, child)
		}
	}
	return edges
}

// Builder renders ledgers. The zero value uses DefaultPalette and the graph
// name "graphname".
type Builder struct {
	Name    string
	Palette Palette
}

// Build renders ledger with the zero Builder.
func Build(ledger []*callrec.Record) (string, error) {
	return Builder{}.Build(ledger)
}

// Build renders ledger, whose first element must be the root call.
func (b Builder) Build(ledger []*callrec.Record) (string, error) {
	if len(ledger) == 0 {
		return "", errors.WithAssertionFailure(ErrEmptyLedger)
	}
	name := b.Name
	if name == "" {
		name = "graphname"
	}

	var sb strings.Builder
	sb.WriteString("digraph ")
	sb.WriteString(name)
	sb.WriteString(" {\n")
	for _, r := range ledger {
		sb.WriteString("  ")
		sb.WriteString(strconv.Itoa(r.Seq))
		sb.WriteString(" [label=")
		sb.WriteString(quote(r.Signature()))
		sb.WriteString(" color=")
		sb.WriteString(b.Palette.Color(Classify(r)))
		sb.WriteString("];\n")
	}
	for _, e := range Edges(ledger[0]) {
		sb.WriteString("  ")
		sb.WriteString(strconv.Itoa(e.From))
		sb.WriteString(" -> ")
		sb.WriteString(strconv.Itoa(e.To))
		sb.WriteString(";\n")
	}
	sb.WriteString("}")
	return sb.String(), nil
}

// quote makes s a DOT double-quoted string.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
