// Package report contains the consumers of a finished run summary: a console
// banner, an HTML page, a msgpack archive, and a styled call tree.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"drawrec/internal/summary"
)

const defaultWidth = 80

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
)

// Console prints a boundary banner and the run metrics.
type Console struct {
	Out       io.Writer // defaults to os.Stdout
	Width     int       // banner width; 0 asks the terminal
	NoColor   bool
	DepthPlot bool // append a calls-per-depth plot
}

// Report implements tracker.Reporter.
func (c *Console) Report(s *summary.Summary) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(c.Banner(s, c.width(out)))
	b.WriteString("\n")
	if !s.Failed() {
		fmt.Fprintf(&b, "Return Value: %s\n", s.Return)
		fmt.Fprintf(&b, "Max Recursion Depth: %d\n", s.MaxDepth)
		fmt.Fprintf(&b, "Total Recursive Calls: %d\n", s.TotalCalls)
	} else {
		fmt.Fprintf(&b, "%s failed with uncaught error: %s\n", s.FirstCall, s.Failure)
	}
	if c.DepthPlot && len(s.CallsPerDepth) > 1 {
		b.WriteString(DepthPlot(s, 8))
		b.WriteString("\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

// Banner centers the outcome message between runs of '=' spanning width
// columns: green when the root returned, red when it failed.
func (c *Console) Banner(s *summary.Summary, width int) string {
	var msg string
	paint := successColor
	if s.Failed() {
		msg = fmt.Sprintf(" %s failed ", s.FirstCall)
		paint = failureColor
	} else {
		msg = fmt.Sprintf(" %s successfully returned in %ss ", s.FirstCall, roundSeconds(s.RuntimeSeconds(), 4))
	}
	pad := (width - runewidth.StringWidth(msg)) / 2
	if pad < 0 {
		pad = 0
	}
	fill := strings.Repeat("=", pad)
	line := fill + msg + fill
	if c.NoColor {
		return line
	}
	return paint.Sprint(line)
}

// DepthPlot draws the number of calls made at each depth.
func DepthPlot(s *summary.Summary, height int) string {
	data := make([]float64, len(s.CallsPerDepth))
	for i, n := range s.CallsPerDepth {
		data[i] = float64(n)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Precision(0),
		asciigraph.Caption("calls per depth"))
}

func (c *Console) width(out io.Writer) int {
	if c.Width > 0 {
		return c.Width
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

// roundSeconds formats v with at most places decimals and no trailing zeros.
func roundSeconds(v float64, places int) string {
	p := math.Pow(10, float64(places))
	s := fmt.Sprintf("%.*f", places, math.Round(v*p)/p)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
