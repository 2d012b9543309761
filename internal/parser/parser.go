// Package parser defines the contract shared by all report parsers: the
// input a parser reads (ReaderFactory), the result it returns and the single
// error type it fails with.
package parser

import (
	"io"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"

	"github.com/hyperifyio/goanalysis/internal/issue"
)

// ReaderFactory provides the content of one report file. Encoding detection
// and file access are the implementation's concern; every method returns
// UTF-8 content and may be called more than once.
type ReaderFactory interface {
	// FileName is the name of the report, used for format checks and errors.
	FileName() string
	// ReadStream opens the decoded text. Callers close it.
	ReadStream() (io.ReadCloser, error)
	// ReadHTML parses the content as an HTML document.
	ReadHTML() (*html.Node, error)
	// ReadXML parses the content as an XML document.
	ReadXML() (*xmlquery.Node, error)
}

// Parser converts one report into issues. Parse either returns a complete
// report or a *ParsingError, never both.
type Parser interface {
	Parse(rf ReaderFactory) (*issue.Report, error)
	// Accepts reports whether the parser can handle a file with this name.
	Accepts(fileName string) bool
}

// AcceptAll can be embedded by parsers that do not restrict file names.
type AcceptAll struct{}

func (AcceptAll) Accepts(string) bool { return true }
