// Package simulink parses the HTML reports written by the Simulink Check
// model advisor.
package simulink

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goanalysis/internal/issue"
	"github.com/hyperifyio/goanalysis/internal/parser"
)

const (
	systemSelector  = "div.ReportContent"
	headingSelector = "span.CheckHeading"
	// swMarker identifies software component names in headings and ids.
	swMarker = "SW"
)

// check is one result category of the advisor report.
type check struct {
	selector string
	label    string
	severity issue.Severity
}

// checks are processed in this order; issues follow it in the report.
var checks = []check{
	{selector: "div.WarningCheck", label: "Warning", severity: issue.WarningNormal},
	{selector: "div.FailedCheck", label: "Failed", severity: issue.Error},
	{selector: "div.NotRunCheck", label: "Not Run", severity: issue.WarningHigh},
	{selector: "div.IncompleteCheck", label: "Incomplete", severity: issue.WarningLow},
}

// Parser reads Simulink Check HTML reports.
type Parser struct {
	parser.AcceptAll
}

// New returns a Simulink Check parser.
func New() *Parser { return &Parser{} }

func (p *Parser) Parse(rf parser.ReaderFactory) (*issue.Report, error) {
	root, err := rf.ReadHTML()
	if err != nil {
		return nil, parser.Fail(rf.FileName(), err)
	}
	doc := goquery.NewDocumentFromNode(root)

	report := issue.NewReport()
	content := doc.Find(systemSelector).First()
	system, ok := content.Attr("id")
	if !ok {
		log.Warn().Str("file", rf.FileName()).Msg("simulink report has no ReportContent id")
		report.Logf("no %s element with an id; file name left undefined", systemSelector)
	}

	builder := issue.NewBuilder()
	for _, c := range checks {
		doc.Find(c.selector).Each(func(_ int, el *goquery.Selection) {
			heading := el.Find(headingSelector)
			if heading.Length() == 0 {
				report.Logf("skipped %s element without %s", c.selector, headingSelector)
				return
			}
			d := deriveModule(headingText(heading), heading.First().AttrOr("id", ""),
				el.Parent().AttrOr("id", ""))
			builder.
				SetFileName(system).
				SetCategory(c.label).
				SetSeverity(c.severity).
				SetModuleName(d.Module).
				SetDescription(d.Description)
			if d.Kind == fromID {
				builder.SetAdditionalProperties(d.ParentID)
			}
			report.Add(builder.BuildAndClean())
		})
	}
	return report, nil
}

// derivationKind tells which part of the markup named the module.
type derivationKind int

const (
	// fromHeading: the heading text carries the component name before a colon.
	fromHeading derivationKind = iota + 1
	// fromParent: the enclosing element id carries the component name.
	fromParent
	// fromID: only the heading id is usable.
	fromID
)

// derivation is the module and description taken from one check heading.
type derivation struct {
	Kind        derivationKind
	Module      string
	Description string
	ParentID    string
}

// deriveModule names the module of a check from its heading text, heading id
// and the id of the enclosing element.
func deriveModule(text, headingID, parentID string) derivation {
	segments := strings.Split(headingID, ".")
	last := segments[len(segments)-1]

	if strings.Contains(text, swMarker) {
		name, desc, _ := strings.Cut(text, ":")
		return derivation{Kind: fromHeading, Module: name + "." + last, Description: desc}
	}
	if i := strings.Index(parentID, swMarker); i >= 0 {
		return derivation{Kind: fromParent, Module: parentID[i:] + "." + last, Description: text}
	}
	module := last
	if len(segments) > 1 {
		module = last + "." + segments[len(segments)-2]
	}
	return derivation{Kind: fromID, Module: module, Description: text, ParentID: parentID}
}

// headingText joins the text of every matched heading with single spaces.
func headingText(heading *goquery.Selection) string {
	texts := heading.Map(func(_ int, s *goquery.Selection) string {
		return normalizeSpace(s.Text())
	})
	return normalizeSpace(strings.Join(texts, " "))
}

// normalizeSpace collapses whitespace runs to single spaces and trims the
// result, matching how browsers render heading text.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
