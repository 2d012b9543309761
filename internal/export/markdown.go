package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyperifyio/goanalysis/internal/issue"
)

func renderMarkdown(doc Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Issues in %s\n\n", doc.Source)
	if doc.Tool != "" {
		fmt.Fprintf(&b, "Tool: %s\n\n", doc.Tool)
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Severity | Count |\n|---|---|\n")
	for _, s := range issue.All {
		fmt.Fprintf(&b, "| %s | %d |\n", s.Label(), doc.Summary[s.String()])
	}
	fmt.Fprintf(&b, "| Total | %d |\n\n", len(doc.Issues))

	if len(doc.Issues) > 0 {
		b.WriteString("## Issues\n\n")
		b.WriteString("| # | Severity | Location | Category | Module | Message |\n|---|---|---|---|---|---|\n")
		for n, i := range doc.Issues {
			msg := i.Message
			if msg == "" {
				msg = i.Description
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n", n+1, i.Severity.Label(),
				cell(i.Location()), cell(i.Category), cell(i.ModuleName), cell(msg))
		}
		b.WriteString("\n")
	}

	if len(doc.Descriptions) > 0 {
		b.WriteString("## Rule descriptions\n\n")
		keys := make([]string, 0, len(doc.Descriptions))
		for k := range doc.Descriptions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "### %s\n\n%s\n\n", k, doc.Descriptions[k])
		}
	}

	if len(doc.Info) > 0 {
		b.WriteString("## Parser notes\n\n")
		for _, line := range doc.Info {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	return b.String()
}

// cell escapes a value for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}
