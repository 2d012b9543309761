package issue

import (
	"strconv"
	"strings"
)

// Builder accumulates the fields of one issue at a time. A parse call creates
// one Builder, fills it per record and calls BuildAndClean (or Build followed
// by Reset) to materialize each Issue. The zero value is ready to use.
type Builder struct {
	fileName             string
	lineStart            int
	lineEnd              int
	columnStart          int
	columnEnd            int
	lineRanges           []LineRange
	category             string
	issueType            string
	severity             Severity
	message              string
	description          string
	packageName          string
	moduleName           string
	origin               string
	fingerprint          string
	additionalProperties string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) SetFileName(v string) *Builder    { b.fileName = v; return b }
func (b *Builder) SetLineStart(v int) *Builder      { b.lineStart = v; return b }
func (b *Builder) SetLineEnd(v int) *Builder        { b.lineEnd = v; return b }
func (b *Builder) SetColumnStart(v int) *Builder    { b.columnStart = v; return b }
func (b *Builder) SetColumnEnd(v int) *Builder      { b.columnEnd = v; return b }
func (b *Builder) SetCategory(v string) *Builder    { b.category = v; return b }
func (b *Builder) SetType(v string) *Builder        { b.issueType = v; return b }
func (b *Builder) SetSeverity(v Severity) *Builder  { b.severity = v; return b }
func (b *Builder) SetMessage(v string) *Builder     { b.message = v; return b }
func (b *Builder) SetDescription(v string) *Builder { b.description = v; return b }
func (b *Builder) SetPackageName(v string) *Builder { b.packageName = v; return b }
func (b *Builder) SetModuleName(v string) *Builder  { b.moduleName = v; return b }
func (b *Builder) SetOrigin(v string) *Builder      { b.origin = v; return b }
func (b *Builder) SetFingerprint(v string) *Builder { b.fingerprint = v; return b }

func (b *Builder) SetAdditionalProperties(v string) *Builder {
	b.additionalProperties = v
	return b
}

// SetLineStartText, SetLineEndText, SetColumnStartText and SetColumnEndText
// accept raw report text. Text that is not an integer leaves the field unset.
func (b *Builder) SetLineStartText(v string) *Builder   { b.lineStart = atoi(v); return b }
func (b *Builder) SetLineEndText(v string) *Builder     { b.lineEnd = atoi(v); return b }
func (b *Builder) SetColumnStartText(v string) *Builder { b.columnStart = atoi(v); return b }
func (b *Builder) SetColumnEndText(v string) *Builder   { b.columnEnd = atoi(v); return b }

// SetLineRanges replaces the line ranges; the slice is copied.
func (b *Builder) SetLineRanges(ranges []LineRange) *Builder {
	b.lineRanges = append([]LineRange(nil), ranges...)
	return b
}

// AddLineRange appends one range, ordering its endpoints.
func (b *Builder) AddLineRange(start, end int) *Builder {
	b.lineRanges = append(b.lineRanges, NewLineRange(start, end))
	return b
}

// Build validates and defaults the accumulated fields and returns the Issue.
// The builder keeps its state, so fields shared across records may be set once.
func (b *Builder) Build() Issue {
	lineStart, lineEnd := span(b.lineStart, b.lineEnd)
	columnStart, columnEnd := span(b.columnStart, b.columnEnd)

	severity := b.severity
	if !severity.Valid() {
		severity = WarningNormal
	}

	var ranges []LineRange
	if len(b.lineRanges) > 0 {
		ranges = make([]LineRange, len(b.lineRanges))
		for i, r := range b.lineRanges {
			ranges[i] = NewLineRange(r.Start, r.End)
		}
	}

	return Issue{
		FileName:             orUndefined(strings.ReplaceAll(strings.TrimSpace(b.fileName), "\\", "/")),
		LineStart:            lineStart,
		LineEnd:              lineEnd,
		ColumnStart:          columnStart,
		ColumnEnd:            columnEnd,
		LineRanges:           ranges,
		Category:             strings.TrimSpace(b.category),
		Type:                 orUndefined(strings.TrimSpace(b.issueType)),
		Severity:             severity,
		Message:              strings.TrimSpace(b.message),
		Description:          strings.TrimSpace(b.description),
		PackageName:          orUndefined(strings.TrimSpace(b.packageName)),
		ModuleName:           strings.TrimSpace(b.moduleName),
		Origin:               strings.TrimSpace(b.origin),
		Fingerprint:          strings.TrimSpace(b.fingerprint),
		AdditionalProperties: strings.TrimSpace(b.additionalProperties),
	}
}

// BuildAndClean builds the Issue and resets the builder for the next record.
func (b *Builder) BuildAndClean() Issue {
	i := b.Build()
	b.Reset()
	return i
}

// Reset clears every field.
func (b *Builder) Reset() {
	*b = Builder{}
}

// span normalizes a start/end pair: negatives become 0, a missing endpoint
// takes the other one, and the result is ordered.
func span(start, end int) (int, int) {
	start = max(start, 0)
	end = max(end, 0)
	switch {
	case start == 0:
		return end, end
	case end == 0:
		return start, start
	default:
		return min(start, end), max(start, end)
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func orUndefined(s string) string {
	if s == "" {
		return Undefined
	}
	return s
}
