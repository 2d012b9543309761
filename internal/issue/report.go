package issue

import "fmt"

// Report is an ordered collection of issues produced by one parse call.
// Insertion order is kept and duplicates are allowed.
type Report struct {
	issues []Issue
	info   []string
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends issues in order.
func (r *Report) Add(issues ...Issue) *Report {
	r.issues = append(r.issues, issues...)
	return r
}

// AddAll appends every issue and log line of other.
func (r *Report) AddAll(other *Report) *Report {
	if other == nil {
		return r
	}
	r.issues = append(r.issues, other.issues...)
	r.info = append(r.info, other.info...)
	return r
}

// Len returns the number of issues.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.issues)
}

// IsEmpty reports whether the report holds no issues.
func (r *Report) IsEmpty() bool { return r.Len() == 0 }

// Get returns the issue at index i.
func (r *Report) Get(i int) Issue {
	return r.issues[i]
}

// Issues returns a copy of the issues in insertion order.
func (r *Report) Issues() []Issue {
	if r == nil {
		return nil
	}
	out := make([]Issue, len(r.issues))
	copy(out, r.issues)
	return out
}

// SizeOf counts the issues with the given severity.
func (r *Report) SizeOf(s Severity) int {
	n := 0
	for _, i := range r.Issues() {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// CountBySeverity returns the number of issues per severity; every level in
// All is present in the result.
func (r *Report) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int, len(All))
	for _, s := range All {
		counts[s] = 0
	}
	for _, i := range r.Issues() {
		counts[i.Severity]++
	}
	return counts
}

// Filter returns a new report with the issues accepted by keep.
func (r *Report) Filter(keep func(Issue) bool) *Report {
	out := NewReport()
	for _, i := range r.Issues() {
		if keep(i) {
			out.issues = append(out.issues, i)
		}
	}
	return out
}

// Logf records an informational message about the parse, e.g. skipped input.
func (r *Report) Logf(format string, args ...any) {
	r.info = append(r.info, fmt.Sprintf(format, args...))
}

// Info returns the informational messages recorded while parsing.
func (r *Report) Info() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.info...)
}
