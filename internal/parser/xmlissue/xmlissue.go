// Package xmlissue reads issues from XML documents that mirror the Issue
// properties one element per field, e.g.
//
//	<issue>
//	  <fileName>src/a.c</fileName>
//	  <lineStart>10</lineStart>
//	  <severity>HIGH</severity>
//	  <lineRanges><lineRange><start>10</start><end>12</end></lineRange></lineRanges>
//	</issue>
package xmlissue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/hyperifyio/goanalysis/internal/issue"
	"github.com/hyperifyio/goanalysis/internal/parser"
)

// DefaultRootPath selects a single top-level issue element.
const DefaultRootPath = "/issue"

// Field sub-paths, relative to an issue element.
const (
	pathFileName             = "fileName"
	pathLineStart            = "lineStart"
	pathLineEnd              = "lineEnd"
	pathColumnStart          = "columnStart"
	pathColumnEnd            = "columnEnd"
	pathCategory             = "category"
	pathType                 = "type"
	pathSeverity             = "severity"
	pathMessage              = "message"
	pathDescription          = "description"
	pathPackageName          = "packageName"
	pathModuleName           = "moduleName"
	pathOrigin               = "origin"
	pathFingerprint          = "fingerprint"
	pathAdditionalProperties = "additionalProperties"

	pathLineRanges     = "lineRanges/lineRange"
	pathLineRangeStart = "start"
	pathLineRangeEnd   = "end"
)

// Parser selects issue elements with an XPath expression.
type Parser struct {
	root string
}

// New returns a parser that selects issues with root. An empty root selects
// DefaultRootPath.
func New(root string) *Parser {
	if strings.TrimSpace(root) == "" {
		root = DefaultRootPath
	}
	return &Parser{root: root}
}

// Default returns a parser for DefaultRootPath.
func Default() *Parser { return New("") }

// Root returns the issue selection expression.
func (p *Parser) Root() string { return p.root }

// Accepts is true for files with the .xml extension.
func (p *Parser) Accepts(fileName string) bool {
	return strings.HasSuffix(fileName, ".xml")
}

func (p *Parser) Parse(rf parser.ReaderFactory) (*issue.Report, error) {
	doc, err := rf.ReadXML()
	if err != nil {
		return nil, parser.Fail(rf.FileName(), err)
	}
	report, err := p.parseDocument(doc)
	if err != nil {
		return nil, parser.Fail(rf.FileName(), err)
	}
	return report, nil
}

func (p *Parser) parseDocument(doc *xmlquery.Node) (*issue.Report, error) {
	elements, err := xmlquery.QueryAll(doc, p.root)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", p.root, err)
	}

	e := &evaluator{}
	builder := issue.NewBuilder()
	report := issue.NewReport()
	for _, el := range elements {
		builder.
			SetFileName(e.text(el, pathFileName)).
			SetLineStartText(e.text(el, pathLineStart)).
			SetLineEndText(e.text(el, pathLineEnd)).
			SetColumnStartText(e.text(el, pathColumnStart)).
			SetColumnEndText(e.text(el, pathColumnEnd)).
			SetLineRanges(e.lineRanges(el)).
			SetCategory(e.text(el, pathCategory)).
			SetType(e.text(el, pathType)).
			SetSeverity(issue.ParseSeverity(e.text(el, pathSeverity))).
			SetMessage(e.text(el, pathMessage)).
			SetDescription(e.text(el, pathDescription)).
			SetPackageName(e.text(el, pathPackageName)).
			SetModuleName(e.text(el, pathModuleName)).
			SetOrigin(e.text(el, pathOrigin)).
			SetFingerprint(e.text(el, pathFingerprint)).
			SetAdditionalProperties(e.text(el, pathAdditionalProperties))
		if e.err != nil {
			return nil, e.err
		}
		report.Add(builder.BuildAndClean())
	}
	return report, nil
}

// evaluator caches compiled sub-path expressions and keeps the first
// evaluation error so the field chain above stays linear.
type evaluator struct {
	compiled map[string]*xpath.Expr
	err      error
}

func (e *evaluator) expr(path string) *xpath.Expr {
	if x, ok := e.compiled[path]; ok {
		return x
	}
	x, err := xpath.Compile(path)
	if err != nil {
		if e.err == nil {
			e.err = fmt.Errorf("compile %q: %w", path, err)
		}
		return nil
	}
	if e.compiled == nil {
		e.compiled = make(map[string]*xpath.Expr)
	}
	e.compiled[path] = x
	return x
}

// text evaluates path against n with XPath string() semantics: a node-set
// yields the text of its first node, an empty node-set the empty string.
func (e *evaluator) text(n *xmlquery.Node, path string) string {
	x := e.expr(path)
	if x == nil {
		return ""
	}
	switch v := x.Evaluate(xmlquery.CreateXPathNavigator(n)).(type) {
	case *xpath.NodeIterator:
		if v.MoveNext() {
			return v.Current().Value()
		}
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// lineRanges reads every range child of n. A range is kept only when both
// endpoints are present and integers.
func (e *evaluator) lineRanges(n *xmlquery.Node) []issue.LineRange {
	x := e.expr(pathLineRanges)
	if x == nil {
		return nil
	}
	var ranges []issue.LineRange
	for _, r := range xmlquery.QuerySelectorAll(n, x) {
		start, okStart := endpoint(r, pathLineRangeStart)
		end, okEnd := endpoint(r, pathLineRangeEnd)
		if okStart && okEnd {
			ranges = append(ranges, issue.NewLineRange(start, end))
		}
	}
	return ranges
}

func endpoint(r *xmlquery.Node, name string) (int, bool) {
	el := xmlquery.FindOne(r, name)
	if el == nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(el.InnerText()))
	if err != nil {
		return 0, false
	}
	return v, true
}
