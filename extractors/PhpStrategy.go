package extractors

import (
	"regexp"
	"strings"
)

var phpBlockPattern = regexp.MustCompile(`(?s)<\?(?:php|=)(.*?)(?:\?>|$)`)

var phpScanner = sourceScanner{
	regions: []region{
		{open: `"`, close: `"`, escapes: true, multiline: true, clean: stripPhpVariables},
		{open: `'`, close: `'`, escapes: true, multiline: true},
	},
	lineComments:  []string{"//", "#"},
	blockComments: [][2]string{{"/*", "*/"}},
	heredocs:      true,
}

// PhpStrategy audits the markup outside <?php ?> blocks as one document,
// then scans the code inside the blocks for strings, heredocs and nowdocs.
// Source without any PHP open tag is treated as a code snippet.
type PhpStrategy struct{}

func (PhpStrategy) Name() string { return "PHP" }

func (PhpStrategy) Extract(source string) []Fragment {
	blocks := phpBlockPattern.FindAllStringSubmatchIndex(source, -1)
	if len(blocks) == 0 {
		return documentFragments(phpScanner.scan(source))
	}

	var outside strings.Builder
	var texts []string
	last := 0
	for _, block := range blocks {
		outside.WriteString(source[last:block[0]])
		last = block[1]
	}
	outside.WriteString(source[last:])

	if markup := strings.TrimSpace(outside.String()); LooksLikeMarkup(markup) {
		texts = append(texts, markup)
	}
	for _, block := range blocks {
		texts = append(texts, phpScanner.scan(source[block[2]:block[3]])...)
	}
	return documentFragments(texts)
}

func (PhpStrategy) NoContentMessage() string {
	return "No HTML content found in PHP code. This analyzer looks for HTML in strings, heredoc, or outside PHP tags."
}
