// Package polyspace parses the tab-separated result exports of Polyspace Bug
// Finder and Code Prover.
package polyspace

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goanalysis/internal/issue"
	"github.com/hyperifyio/goanalysis/internal/parser"
)

// Fixed column offsets shared by both export layouts.
const (
	idIndex       = 0
	familyIndex   = 1
	groupIndex    = 2
	colorIndex    = 3
	checkIndex    = 5
	infoIndex     = 6
	functionIndex = 7
	fileIndex     = 8
	statusIndex   = 9
	severityIndex = 10
)

// schema is one of the export layouts. Bug Finder exports carry an extra CWE
// column, which shifts the trailing line and column fields by one.
type schema struct {
	name   string
	fields int
	line   int
	column int
}

var (
	bugFinder  = schema{name: "bug-finder", fields: 16, line: 14, column: 15}
	codeProver = schema{name: "code-prover", fields: 15, line: 13, column: 14}
)

// classify picks the layout of a single record.
func classify(line string) schema {
	if strings.Contains(line, "CWE") {
		return bugFinder
	}
	return codeProver
}

// openStatuses are the review states that still need attention. Matching is
// a case-insensitive substring test.
var openStatuses = []string{"unreviewed", "to investigate", "to fix", "other"}

// Parser reads Polyspace exports. The first line is a header.
type Parser struct {
	parser.AcceptAll
}

// New returns a Polyspace parser.
func New() *Parser { return &Parser{} }

func (p *Parser) Parse(rf parser.ReaderFactory) (*issue.Report, error) {
	rc, err := rf.ReadStream()
	if err != nil {
		return nil, parser.Fail(rf.FileName(), err)
	}
	defer rc.Close()

	builder := issue.NewBuilder()
	report := issue.NewReport()
	lineNo := 1
	skipped := 0
	err = parser.ScanLines(rc, 1, func(line string) {
		lineNo++
		if strings.TrimSpace(line) == "" {
			return
		}
		layout := classify(line)
		fields := strings.SplitN(line, "\t", layout.fields)
		if len(fields) < layout.fields {
			skipped++
			log.Debug().Str("file", rf.FileName()).Int("line", lineNo).Str("schema", layout.name).
				Int("fields", len(fields)).Int("want", layout.fields).Msg("skipping short polyspace record")
			return
		}
		if !containsAnyFold(fields[statusIndex], openStatuses) {
			return
		}
		report.Add(builder.
			SetFileName(fields[fileIndex]).
			SetCategory(fields[groupIndex]).
			SetDescription(fields[familyIndex]).
			SetMessage("Check: " + fields[checkIndex] + " " + fields[infoIndex]).
			SetModuleName(fields[functionIndex]).
			SetColumnStartText(fields[layout.column]).
			SetLineStartText(fields[layout.line]).
			SetSeverity(severityOf(fields)).
			SetAdditionalProperties(fields[idIndex]).
			BuildAndClean())
	})
	if err != nil {
		return nil, parser.Fail(rf.FileName(), err)
	}
	if skipped > 0 {
		report.Logf("skipped %d polyspace records with too few fields", skipped)
	}
	return report, nil
}

var explicitSeverities = map[string]issue.Severity{
	"high":   issue.WarningHigh,
	"medium": issue.WarningNormal,
	"low":    issue.WarningLow,
}

// severityOf maps a record to a severity. An explicit High/Medium/Low wins;
// for "Unset" the family and color columns decide.
func severityOf(fields []string) issue.Severity {
	if !strings.EqualFold(fields[severityIndex], "Unset") {
		return issue.SeverityFrom(fields[severityIndex], explicitSeverities)
	}
	color := fields[colorIndex]
	switch {
	case strings.EqualFold(fields[familyIndex], "Defect") || strings.EqualFold(color, "Red"):
		return issue.WarningHigh
	case containsAnyFold(color, []string{"orange", "not applicable"}):
		return issue.WarningNormal
	case containsAnyFold(color, []string{"gray", "green"}):
		return issue.WarningLow
	default:
		return issue.WarningNormal
	}
}

// containsAnyFold reports whether s contains one of the lower-case needles,
// ignoring case.
func containsAnyFold(s string, needles []string) bool {
	s = strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
