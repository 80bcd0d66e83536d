// Package report turns a flat list of findings into a graded report.
package report

import (
	"fmt"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/rules"
)

const (
	errorPenalty   = 10
	warningPenalty = 5
)

type Report struct {
	Grade         string         `json:"grade"`
	Score         int            `json:"score"`
	TotalIssues   int            `json:"totalIssues"`
	Errors        int            `json:"errors"`
	Warnings      int            `json:"warnings"`
	Issues        []core.Finding `json:"issues"`
	GoodPractices []string       `json:"goodPractices"`
	NeedsWork     []string       `json:"needsWork"`
	Summary       string         `json:"summary"`
}

// BuildReport is deterministic: the same findings always give the same report.
func BuildReport(findings []core.Finding) Report {
	if findings == nil {
		findings = []core.Finding{}
	}

	errors, warnings := 0, 0
	for _, finding := range findings {
		switch finding.Severity {
		case core.SeverityError:
			errors++
		case core.SeverityWarning:
			warnings++
		}
	}

	score := Score(errors, warnings)
	return Report{
		Grade:         Grade(score),
		Score:         score,
		TotalIssues:   len(findings),
		Errors:        errors,
		Warnings:      warnings,
		Issues:        findings,
		GoodPractices: goodPractices(findings),
		NeedsWork:     needsWork(findings),
		Summary:       summary(len(findings), errors, warnings),
	}
}

// Score never goes below zero.
func Score(errors, warnings int) int {
	return max(0, 100-errorPenalty*errors-warningPenalty*warnings)
}

func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// needsWork lists registry rules with findings in order of first occurrence.
// Synthetic ids such as parse-error have no description and are skipped.
func needsWork(findings []core.Finding) []string {
	counts := map[string]int{}
	var order []string
	for _, finding := range findings {
		if _, seen := counts[finding.RuleID]; !seen {
			order = append(order, finding.RuleID)
		}
		counts[finding.RuleID]++
	}

	lines := []string{}
	for _, id := range order {
		rule, ok := rules.Lookup(id)
		if !ok {
			continue
		}
		count := counts[id]
		lines = append(lines, fmt.Sprintf("%s: %s (Found %d %s)", rule.Name, rule.Fix, count, plural(count, "issue")))
	}
	return lines
}

func goodPractices(findings []core.Finding) []string {
	present := map[string]bool{}
	for _, finding := range findings {
		present[finding.RuleID] = true
	}

	lines := []string{}
	for _, rule := range rules.Registry {
		if !present[rule.ID] {
			lines = append(lines, fmt.Sprintf("%s: ✓ Correctly implemented", rule.Name))
		}
	}
	return lines
}

func summary(total, errors, warnings int) string {
	switch {
	case total == 0:
		return "Excellent! No accessibility issues found. Your code follows best practices."
	case errors == 0 && warnings > 0:
		return fmt.Sprintf("Good work! You have %d %s to address, but no critical errors.",
			warnings, plural(warnings, "warning"))
	case errors > 0:
		return fmt.Sprintf("Found %d critical %s and %d %s. Please address the errors first.",
			errors, plural(errors, "error"), warnings, plural(warnings, "warning"))
	}
	return ""
}

func plural(count int, noun string) string {
	if count > 1 {
		return noun + "s"
	}
	return noun
}
