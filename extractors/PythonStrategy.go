package extractors

var pythonScanner = sourceScanner{
	regions: []region{
		{open: `f"""`, close: `"""`, escapes: true, multiline: true, prefixed: true, clean: stripFormatFields},
		{open: `f'''`, close: `'''`, escapes: true, multiline: true, prefixed: true, clean: stripFormatFields},
		{open: `"""`, close: `"""`, escapes: true, multiline: true},
		{open: `'''`, close: `'''`, escapes: true, multiline: true},
		{open: `f"`, close: `"`, escapes: true, prefixed: true, clean: stripFormatFields},
		{open: `f'`, close: `'`, escapes: true, prefixed: true, clean: stripFormatFields},
		{open: `"`, close: `"`, escapes: true},
		{open: `'`, close: `'`, escapes: true},
	},
	lineComments: []string{"#"},
}

// PythonStrategy scans triple-quoted, quoted and f-string literals.
type PythonStrategy struct{}

func (PythonStrategy) Name() string { return "Python" }

func (PythonStrategy) Extract(source string) []Fragment {
	return documentFragments(pythonScanner.scan(source))
}

func (PythonStrategy) NoContentMessage() string {
	return "No HTML content found in Python code. This analyzer looks for HTML in string literals."
}
