package issue

import (
	"fmt"
	"strings"
)

// Severity is the normalized level of an issue. The zero value is reserved
// for "unset" inside the Builder; a built Issue always carries one of the
// four named levels.
type Severity int

const (
	severityUnset Severity = iota
	Error
	WarningHigh
	WarningNormal
	WarningLow
)

// All lists the severities from most to least severe.
var All = []Severity{Error, WarningHigh, WarningNormal, WarningLow}

// String returns the long name, e.g. "WARNING_HIGH".
func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case WarningHigh:
		return "WARNING_HIGH"
	case WarningNormal:
		return "WARNING_NORMAL"
	case WarningLow:
		return "WARNING_LOW"
	default:
		return "UNSET"
	}
}

// Label returns the short label used by report exports ("HIGH", "NORMAL", ...).
func (s Severity) Label() string {
	return strings.TrimPrefix(s.String(), "WARNING_")
}

// Valid reports whether s is one of the four named levels.
func (s Severity) Valid() bool {
	return s >= Error && s <= WarningLow
}

// MarshalText encodes the long name so JSON and YAML exports stay readable.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("issue: cannot marshal severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes any text accepted by ParseSeverity.
func (s *Severity) UnmarshalText(b []byte) error {
	*s = ParseSeverity(string(b))
	return nil
}

// canonical maps both long names and short labels, lower-cased.
var canonical = map[string]Severity{
	"error":          Error,
	"warning_high":   WarningHigh,
	"high":           WarningHigh,
	"warning_normal": WarningNormal,
	"normal":         WarningNormal,
	"warning_low":    WarningLow,
	"low":            WarningLow,
}

// ParseSeverity maps raw text to a severity. Matching ignores case and
// surrounding whitespace; anything unknown, including the empty string,
// yields WarningNormal.
func ParseSeverity(text string) Severity {
	return SeverityFrom(text, canonical)
}

// SeverityFrom looks text up in table (keys must be lower-case) and falls back
// to WarningNormal. Extractors pass their tool-specific vocabulary here so the
// fallback rule lives in one place.
func SeverityFrom(text string, table map[string]Severity) Severity {
	key := strings.ToLower(strings.TrimSpace(text))
	if s, ok := table[key]; ok && s.Valid() {
		return s
	}
	return WarningNormal
}
