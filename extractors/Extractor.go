// Package extractors finds markup embedded in non-markup source files.
package extractors

import (
	"regexp"
	"strings"

	"github.com/reaandrew/a11ygrade/core"
)

var (
	componentTagPattern = regexp.MustCompile(`<[A-Za-z][\w-]*[\s>]`)
	plausibleTagPattern = regexp.MustCompile(`<[A-Za-z][\w-]*[\s/>]`)
)

// Fragment is a candidate piece of markup and the grammar to parse it with.
type Fragment struct {
	Text   string
	Flavor core.Flavor
}

// Strategy extracts fragments from the source of one language family.
type Strategy interface {
	Name() string
	Extract(source string) []Fragment
	// NoContentMessage is reported when Extract finds nothing to audit.
	NoContentMessage() string
}

// ExtractFragments runs the language independent strategy.
func ExtractFragments(source string) []Fragment {
	return GenericStrategy{}.Extract(source)
}

// ForLanguage picks the strategy for a language name as reported by
// language detection or given by a caller. Unknown names get the generic
// strategy.
func ForLanguage(language string) Strategy {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "javascript", "js", "mjs", "cjs", "node":
		return ScriptStrategy{Language: "JavaScript"}
	case "typescript", "ts":
		return ScriptStrategy{Language: "TypeScript"}
	case "python", "py":
		return PythonStrategy{}
	case "php":
		return PhpStrategy{}
	case "go", "golang":
		return GoStrategy{}
	default:
		return GenericStrategy{}
	}
}

// HasComponentSyntax reports whether text contains something that reads as
// a JSX tag.
func HasComponentSyntax(text string) bool {
	return componentTagPattern.MatchString(text)
}

// LooksLikeMarkup reports whether text has angle brackets and at least one
// plausible tag start.
func LooksLikeMarkup(text string) bool {
	return strings.Contains(text, "<") && strings.Contains(text, ">") && plausibleTagPattern.MatchString(text)
}

func documentFragments(texts []string) []Fragment {
	fragments := []Fragment{}
	for _, text := range texts {
		fragments = append(fragments, Fragment{Text: text, Flavor: core.FlavorDocument})
	}
	return fragments
}
