package parsers

import (
	"fmt"
	"strings"

	"github.com/reaandrew/a11ygrade/core"
)

// ParseFailure is returned when text cannot be turned into a tree. Rule
// evaluation never runs on a tree that produced a ParseFailure.
type ParseFailure struct {
	Flavor core.Flavor
	Reason string
}

func (p *ParseFailure) Error() string {
	return fmt.Sprintf("Failed to parse as %s: %s", flavorLabel(p.Flavor), firstLine(p.Reason))
}

// Finding converts the failure into the single parse-error finding reported
// for the fragment. It never carries a location.
func (p *ParseFailure) Finding() core.Finding {
	return core.Finding{
		RuleID:   core.ParseErrorRuleID,
		Message:  p.Error(),
		Severity: core.SeverityError,
	}
}

func flavorLabel(flavor core.Flavor) string {
	if flavor == core.FlavorDocument {
		return "HTML"
	}
	return "JSX/TSX"
}

func firstLine(reason string) string {
	reason = strings.TrimSpace(reason)
	if idx := strings.IndexByte(reason, '\n'); idx >= 0 {
		reason = strings.TrimSpace(reason[:idx])
	}
	if reason == "" {
		return "Unknown error"
	}
	return reason
}
