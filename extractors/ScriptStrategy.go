package extractors

import (
	"fmt"

	"github.com/reaandrew/a11ygrade/core"
)

var scriptScanner = sourceScanner{
	regions: []region{
		{open: "`", close: "`", escapes: true, multiline: true, clean: stripTemplateLiteral},
		{open: `"`, close: `"`, escapes: true},
		{open: `'`, close: `'`, escapes: true},
	},
	lineComments:  []string{"//"},
	blockComments: [][2]string{{"/*", "*/"}},
}

// ScriptStrategy handles JavaScript and TypeScript. JavaScript containing JSX
// is audited whole as a component; otherwise template literals and quoted
// strings are scanned. Plain TypeScript cannot hold JSX and uses <T>x for
// type assertions, so it is never sniffed for components.
type ScriptStrategy struct {
	Language string
}

func (s ScriptStrategy) Name() string {
	if s.Language == "" {
		return "JavaScript"
	}
	return s.Language
}

func (s ScriptStrategy) Extract(source string) []Fragment {
	if s.Name() != "TypeScript" && HasComponentSyntax(source) {
		return []Fragment{{Text: source, Flavor: core.FlavorComponent}}
	}
	return documentFragments(scriptScanner.scan(source))
}

func (s ScriptStrategy) NoContentMessage() string {
	return fmt.Sprintf("No HTML/JSX content found in %s code. This analyzer looks for HTML in template literals or string literals.",
		s.Name())
}
