package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders the console form of a report.
func WriteText(w io.Writer, r Report) error {
	var b strings.Builder

	b.WriteString("\n📊 Accessibility Report\n\n")
	fmt.Fprintf(&b, "Grade: %s (%d/100)\n", r.Grade, r.Score)
	fmt.Fprintf(&b, "Total Issues: %d (%d errors, %d warnings)\n\n", r.TotalIssues, r.Errors, r.Warnings)
	b.WriteString(r.Summary + "\n")

	if len(r.NeedsWork) > 0 {
		b.WriteString("\n❌ Needs Work:\n")
		for _, item := range r.NeedsWork {
			fmt.Fprintf(&b, "  • %s\n", item)
		}
	}

	if len(r.GoodPractices) > 0 {
		b.WriteString("\n✅ Good Practices:\n")
		for _, item := range r.GoodPractices {
			fmt.Fprintf(&b, "  • %s\n", item)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
