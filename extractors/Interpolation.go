package extractors

import "regexp"

var (
	templateLiteralSplice = regexp.MustCompile(`\$\{[^}]*\}`)
	formatFieldSplice     = regexp.MustCompile(`\{[^}]*\}`)
	phpVariableSplice     = regexp.MustCompile(`\{\$[^}]*\}|\$\w+(?:->\w+|\[[^\]]*\])*`)
)

// Go template actions. Control actions vanish, value actions become a word
// so attribute values stay non-empty.
var goTemplateActions = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`\{\{-?\s*(?:if|else|range|with|define|block|template)\b[^}]*\}\}`), ""},
	{regexp.MustCompile(`\{\{-?\s*end\s*-?\}\}`), ""},
	{regexp.MustCompile(`\{\{[^}]+\}\}`), "placeholder"},
}

func stripTemplateLiteral(text string) string {
	return templateLiteralSplice.ReplaceAllString(text, "")
}

func stripFormatFields(text string) string {
	return formatFieldSplice.ReplaceAllString(text, "")
}

func stripPhpVariables(text string) string {
	return phpVariableSplice.ReplaceAllString(text, "")
}

func stripGoTemplates(text string) string {
	for _, action := range goTemplateActions {
		text = action.pattern.ReplaceAllString(text, action.replace)
	}
	return text
}

func stripAllSplices(text string) string {
	return stripPhpVariables(stripTemplateLiteral(stripGoTemplates(text)))
}
