// Package export renders a parsed report for people and downstream tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/goanalysis/internal/issue"
)

// Format selects the output representation.
type Format string

const (
	JSON     Format = "json"
	YAML     Format = "yaml"
	Markdown Format = "markdown"
	PDF      Format = "pdf"
)

// ParseFormat accepts the format names and the common aliases "yml" and "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "markdown", "md":
		return Markdown, nil
	case "pdf":
		return PDF, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Document is the exported view of one parse.
type Document struct {
	Source       string            `json:"source" yaml:"source"`
	Tool         string            `json:"tool" yaml:"tool"`
	Summary      map[string]int    `json:"summary" yaml:"summary"`
	Issues       []issue.Issue     `json:"issues" yaml:"issues"`
	Info         []string          `json:"info,omitempty" yaml:"info,omitempty"`
	Descriptions map[string]string `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
}

// NewDocument assembles a Document; descriptions may be nil.
func NewDocument(sourceName, tool string, r *issue.Report, descriptions map[string]string) Document {
	summary := map[string]int{}
	for s, n := range r.CountBySeverity() {
		summary[s.String()] = n
	}
	issues := r.Issues()
	if issues == nil {
		issues = []issue.Issue{}
	}
	if len(descriptions) == 0 {
		descriptions = nil
	}
	return Document{
		Source:       sourceName,
		Tool:         tool,
		Summary:      summary,
		Issues:       issues,
		Info:         r.Info(),
		Descriptions: descriptions,
	}
}

// Write renders doc in a text format. PDF needs a file; use WriteFile.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case Markdown:
		_, err := io.WriteString(w, renderMarkdown(doc))
		return err
	default:
		return fmt.Errorf("format %q cannot be streamed", f)
	}
}

// WriteFile renders doc to path, or to stdout when path is "-" or empty.
func WriteFile(path string, f Format, doc Document) error {
	if f == PDF {
		if path == "" || path == "-" {
			return fmt.Errorf("pdf output needs a file path")
		}
		return writePDF(renderMarkdown(doc), path)
	}
	if path == "" || path == "-" {
		return Write(os.Stdout, f, doc)
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(fh, f, doc); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
