package reporters

import (
	"fmt"
	"io"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/report"
)

// TextReporter prints one console report per audited file followed by
// totals.
type TextReporter struct {
	Writer io.Writer
}

func (t TextReporter) Report(repository core.FindingRepository) error {
	files, errors, warnings, scoreSum := 0, 0, 0, 0

	iterator := repository.NewIterator()
	for iterator.HasNext() {
		set, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next audit set: %w", err)
		}

		for _, audit := range set.Audits {
			r := report.BuildReport(audit.Findings)
			if _, err := fmt.Fprintf(t.Writer, "\n📄 %s (%s)\n", audit.Path, audit.RepoName); err != nil {
				return err
			}
			if err := report.WriteText(t.Writer, r); err != nil {
				return err
			}
			for _, issue := range r.Issues {
				if _, err := fmt.Fprintf(t.Writer, "  %s\n", formatIssue(issue)); err != nil {
					return err
				}
			}

			files++
			errors += r.Errors
			warnings += r.Warnings
			scoreSum += r.Score
		}
	}

	if files == 0 {
		_, err := fmt.Fprintln(t.Writer, "\nNo files with markup were found.")
		return err
	}

	average := scoreSum / files
	_, err := fmt.Fprintf(t.Writer, "\n%d files audited: %d errors, %d warnings, average score %d (%s)\n",
		files, errors, warnings, average, report.Grade(average))
	return err
}

func formatIssue(finding core.Finding) string {
	location := ""
	if finding.Location != nil {
		location = fmt.Sprintf("%d:%d ", finding.Location.Line, finding.Location.Column)
	}
	return fmt.Sprintf("%s%s [%s] %s", location, finding.Severity, finding.RuleID, finding.Message)
}
