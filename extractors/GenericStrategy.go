package extractors

import "github.com/reaandrew/a11ygrade/core"

var genericScanner = sourceScanner{
	regions: []region{
		{open: "`", close: "`", escapes: true, multiline: true, clean: stripAllSplices},
		{open: `"""`, close: `"""`, escapes: true, multiline: true, clean: stripAllSplices},
		{open: `'''`, close: `'''`, escapes: true, multiline: true, clean: stripAllSplices},
		{open: `"`, close: `"`, escapes: true, clean: stripAllSplices},
		{open: `'`, close: `'`, escapes: true, clean: stripAllSplices},
	},
	heredocs: true,
}

// GenericStrategy is used when the language is unknown. Component syntax
// anywhere in the source makes the whole source one component fragment.
type GenericStrategy struct{}

func (GenericStrategy) Name() string { return "source" }

func (GenericStrategy) Extract(source string) []Fragment {
	if HasComponentSyntax(source) {
		return []Fragment{{Text: source, Flavor: core.FlavorComponent}}
	}
	return documentFragments(genericScanner.scan(source))
}

func (GenericStrategy) NoContentMessage() string {
	return "No HTML content found in source code. This analyzer looks for HTML in string literals and templates."
}
