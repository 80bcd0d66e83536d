package extractors

var goScanner = sourceScanner{
	regions: []region{
		{open: "`", close: "`", multiline: true, clean: stripGoTemplates},
		{open: `"`, close: `"`, escapes: true, clean: stripGoTemplates},
		{open: `'`, close: `'`, escapes: true},
	},
	lineComments:  []string{"//"},
	blockComments: [][2]string{{"/*", "*/"}},
}

// GoStrategy scans raw string templates and interpreted strings. Template
// actions are stripped before parsing.
type GoStrategy struct{}

func (GoStrategy) Name() string { return "Go" }

func (GoStrategy) Extract(source string) []Fragment {
	return documentFragments(goScanner.scan(source))
}

func (GoStrategy) NoContentMessage() string {
	return "No HTML content found in Go code. This analyzer looks for HTML in raw string templates and string literals."
}
