// Package analyzers exposes the audit entry points: parse, evaluate rules,
// and fall back to markup extraction for non-markup sources.
package analyzers

import (
	"errors"
	"fmt"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/extractors"
	"github.com/reaandrew/a11ygrade/parsers"
	"github.com/reaandrew/a11ygrade/rules"
)

// AnalyzeMarkupComponent audits JSX/TSX source. A syntax error yields only
// the parse-error finding.
func AnalyzeMarkupComponent(text string) []core.Finding {
	return analyzeMarkup(text, core.FlavorComponent)
}

// AnalyzeDocument audits HTML.
func AnalyzeDocument(text string) []core.Finding {
	return analyzeMarkup(text, core.FlavorDocument)
}

// AnalyzeForeignSource extracts markup from source of an unknown language
// and audits every fragment.
func AnalyzeForeignSource(text string) []core.Finding {
	return AnalyzeWithStrategy(extractors.GenericStrategy{}, text)
}

// AnalyzeSource is AnalyzeForeignSource with the extraction strategy of a
// named language.
func AnalyzeSource(language string, text string) []core.Finding {
	return AnalyzeWithStrategy(extractors.ForLanguage(language), text)
}

// AnalyzeWithStrategy audits each extracted fragment independently and
// concatenates the findings. When nothing is extracted a single no-html-found
// warning is returned.
func AnalyzeWithStrategy(strategy extractors.Strategy, text string) []core.Finding {
	fragments := strategy.Extract(text)
	if len(fragments) == 0 {
		return []core.Finding{{
			RuleID:   core.NoHtmlFoundRuleID,
			Message:  strategy.NoContentMessage(),
			Severity: core.SeverityWarning,
		}}
	}

	findings := []core.Finding{}
	for _, fragment := range fragments {
		findings = append(findings, analyzeMarkup(fragment.Text, fragment.Flavor)...)
	}
	return findings
}

func analyzeMarkup(text string, flavor core.Flavor) []core.Finding {
	root, err := parsers.ParseMarkup(text, flavor)
	if err != nil {
		var failure *parsers.ParseFailure
		if !errors.As(err, &failure) {
			failure = &parsers.ParseFailure{Flavor: flavor, Reason: err.Error()}
		}
		return []core.Finding{failure.Finding()}
	}
	return rules.Evaluate(root)
}

// SafeAnalyze runs an entry point and turns a panic into an error so a fault
// inside the analysis never goes unnoticed by the caller.
func SafeAnalyze(analyze func() []core.Finding) (findings []core.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = fmt.Errorf("analysis failed: %v", r)
		}
	}()
	return analyze(), nil
}
