// Package issue holds the canonical record model shared by every report
// parser: Issue, LineRange, Severity and the ordered Report collection.
package issue

import "fmt"

// Undefined marks a string property the source did not provide.
const Undefined = "-"

// LineRange is an inclusive pair of line numbers with Start <= End.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// NewLineRange orders the endpoints so that Start <= End.
func NewLineRange(start, end int) LineRange {
	if start > end {
		start, end = end, start
	}
	return LineRange{Start: start, End: end}
}

func (r LineRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Issue is one normalized finding. Values are produced by Builder and are
// not modified afterwards; LineRanges is owned by the Issue and must not be
// mutated by callers.
type Issue struct {
	FileName             string      `json:"fileName" yaml:"fileName"`
	LineStart            int         `json:"lineStart" yaml:"lineStart"`
	LineEnd              int         `json:"lineEnd" yaml:"lineEnd"`
	ColumnStart          int         `json:"columnStart" yaml:"columnStart"`
	ColumnEnd            int         `json:"columnEnd" yaml:"columnEnd"`
	LineRanges           []LineRange `json:"lineRanges,omitempty" yaml:"lineRanges,omitempty"`
	Category             string      `json:"category" yaml:"category"`
	Type                 string      `json:"type" yaml:"type"`
	Severity             Severity    `json:"severity" yaml:"severity"`
	Message              string      `json:"message" yaml:"message"`
	Description          string      `json:"description" yaml:"description"`
	PackageName          string      `json:"packageName" yaml:"packageName"`
	ModuleName           string      `json:"moduleName" yaml:"moduleName"`
	Origin               string      `json:"origin,omitempty" yaml:"origin,omitempty"`
	Fingerprint          string      `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	AdditionalProperties string      `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

// Location renders file:line[:column] for log lines and exports.
func (i Issue) Location() string {
	switch {
	case i.LineStart == 0:
		return i.FileName
	case i.ColumnStart == 0:
		return fmt.Sprintf("%s:%d", i.FileName, i.LineStart)
	default:
		return fmt.Sprintf("%s:%d:%d", i.FileName, i.LineStart, i.ColumnStart)
	}
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s: %s", i.Location(), i.Severity, i.Category, i.Message)
}
