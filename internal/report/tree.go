package report

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"drawrec/internal/graph"
	"drawrec/internal/summary"
)

// Tree prints the call tree as indented text, colored by node status.
type Tree struct {
	Out io.Writer // defaults to os.Stdout
}

// Report implements tracker.Reporter.
func (t *Tree) Report(s *summary.Summary) error {
	out := t.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := io.WriteString(out, RenderTree(lipgloss.NewRenderer(out), s))
	return err
}

// RenderTree draws s.Nodes depth-first with box-drawing connectors.
func RenderTree(r *lipgloss.Renderer, s *summary.Summary) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	styles := map[graph.Status]lipgloss.Style{
		graph.StatusError:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		graph.StatusLeaf:     r.NewStyle().Foreground(lipgloss.Color("2")),
		graph.StatusInternal: r.NewStyle().Foreground(lipgloss.Color("3")),
	}
	children := make(map[int][]summary.Node, len(s.Nodes))
	for _, n := range s.Nodes[1:] {
		children[n.Parent] = append(children[n.Parent], n)
	}

	var b strings.Builder
	var walk func(n summary.Node, prefix string, last bool, root bool)
	walk = func(n summary.Node, prefix string, last bool, root bool) {
		next := prefix
		if !root {
			if last {
				b.WriteString(prefix + "└── ")
				next += "    "
			} else {
				b.WriteString(prefix + "├── ")
				next += "│   "
			}
		}
		b.WriteString(styles[n.Status].Render(n.Label))
		b.WriteString("\n")
		kids := children[n.Seq]
		for i, c := range kids {
			walk(c, next, i == len(kids)-1, false)
		}
	}
	walk(s.Nodes[0], "", true, true)
	return b.String()
}
