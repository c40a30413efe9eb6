package report

import (
	"bytes"
	_ "embed"
	"html/template"
	"strconv"

	"github.com/cockroachdb/errors"

	"drawrec/internal/summary"
)

//go:embed template.html
var pageTemplate string

var page = template.Must(template.New("page").Parse(pageTemplate))

// DefaultDir is where pages and archives go when no directory is configured.
const DefaultDir = "htmlreports"

// HTML writes one self-contained page per run that draws the call graph
// with vis-network.
type HTML struct {
	Dir       string // defaults to DefaultDir
	Overwrite bool   // replace a page of the same invocation instead of versioning

	// Written receives the path of each page, if set.
	Written func(path string)
}

type pageData struct {
	FirstCall  string
	TotalCalls int
	Outcome    string
	Return     string
	MaxDepth   int
	Runtime    string
	Graph      string
}

// Render executes the page template for s.
func Render(s *summary.Summary) ([]byte, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, pageData{
		FirstCall:  s.FirstCall,
		TotalCalls: s.TotalCalls,
		Outcome:    s.Outcome(),
		Return:     s.Return,
		MaxDepth:   s.MaxDepth,
		Runtime:    strconv.FormatFloat(s.RuntimeSeconds(), 'f', 6, 64),
		Graph:      s.Graph,
	})
	if err != nil {
		return nil, errors.Wrap(err, "render page")
	}
	return buf.Bytes(), nil
}

// Report implements tracker.Reporter.
func (h *HTML) Report(s *summary.Summary) error {
	path, err := h.Write(s)
	if err != nil {
		return err
	}
	if h.Written != nil {
		h.Written(path)
	}
	return nil
}

// Write renders s and stores it under the sanitized invocation, returning the
// path of the new page.
func (h *HTML) Write(s *summary.Summary) (string, error) {
	data, err := Render(s)
	if err != nil {
		return "", err
	}
	return writeArtifact(dirOrDefault(h.Dir), SanitizeName(s.Invocation), ".html", h.Overwrite, data)
}

func dirOrDefault(dir string) string {
	if dir == "" {
		return DefaultDir
	}
	return dir
}
