// Package parsers turns raw markup into trees the rule engine can walk.
package parsers

import (
	"fmt"

	"github.com/reaandrew/a11ygrade/core"
)

// ParseMarkup parses text with the grammar of the given flavor. Syntax errors
// are returned as *ParseFailure.
func ParseMarkup(text string, flavor core.Flavor) (core.Node, error) {
	switch flavor {
	case core.FlavorComponent:
		return ParseJsx(text)
	case core.FlavorDocument:
		return ParseHtml(text)
	default:
		return nil, fmt.Errorf("unsupported flavor: %s", flavor)
	}
}
