package extractors

import (
	"testing"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(fragments []Fragment) []string {
	result := []string{}
	for _, f := range fragments {
		result = append(result, f.Text)
	}
	return result
}

func TestExtractFragments_ComponentSyntaxShortCircuits(t *testing.T) {
	source := "const html = `<p>x</p>`;\nconst el = <div className=\"a\">hi</div>;"
	fragments := ExtractFragments(source)

	require.Len(t, fragments, 1)
	assert.Equal(t, source, fragments[0].Text)
	assert.Equal(t, core.FlavorComponent, fragments[0].Flavor)
}

func TestExtractFragments_NoMarkup(t *testing.T) {
	assert.Empty(t, ExtractFragments(`x = 1 + 2; y = "a > b"; z = 'c < d'`))
	assert.Empty(t, ExtractFragments(``))
}

func TestExtractFragments_SelfClosingTagInString(t *testing.T) {
	fragments := ExtractFragments(`line = "<br/><img/>"`)
	require.Len(t, fragments, 1)
	assert.Equal(t, "<br/><img/>", fragments[0].Text)
	assert.Equal(t, core.FlavorDocument, fragments[0].Flavor)
}

func TestLooksLikeMarkup(t *testing.T) {
	assert.True(t, LooksLikeMarkup(`<div class="x">`))
	assert.True(t, LooksLikeMarkup(`<p>`))
	assert.True(t, LooksLikeMarkup(`<my-widget/>`))
	assert.False(t, LooksLikeMarkup(`a < b && c > d`))
	assert.False(t, LooksLikeMarkup(`<div`))
	assert.False(t, LooksLikeMarkup(`</div>`))
}

func TestScriptStrategy_TemplateLiteralsAndStrings(t *testing.T) {
	source := "// a '<b/>' comment is ignored\n" +
		"const row = `<hr/>${name}<br/>`;\n" +
		"const link = '<wbr/>';\n" +
		"const plain = \"not markup\";\n" +
		"/* `<p/>` */\n"
	fragments := ScriptStrategy{Language: "JavaScript"}.Extract(source)

	assert.Equal(t, []string{"<hr/><br/>", "<wbr/>"}, texts(fragments))
	for _, f := range fragments {
		assert.Equal(t, core.FlavorDocument, f.Flavor)
	}
}

func TestScriptStrategy_MarkupInStringsReadsAsComponent(t *testing.T) {
	source := "const row = `<tr><td>${name}</td></tr>`;"
	fragments := ScriptStrategy{Language: "JavaScript"}.Extract(source)

	require.Len(t, fragments, 1)
	assert.Equal(t, core.FlavorComponent, fragments[0].Flavor)
	assert.Equal(t, source, fragments[0].Text)
}

func TestScriptStrategy_JsxFile(t *testing.T) {
	fragments := ForLanguage("JavaScript").Extract(`export const A = () => <img src="a.png" />;`)
	require.Len(t, fragments, 1)
	assert.Equal(t, core.FlavorComponent, fragments[0].Flavor)
}

func TestScriptStrategy_TypeScriptAssertionIsNotComponent(t *testing.T) {
	source := "let s = <string>foo;\nconst row = `<hr/>`;\n"
	fragments := ForLanguage("TypeScript").Extract(source)

	assert.Equal(t, []string{"<hr/>"}, texts(fragments))
	assert.Equal(t, core.FlavorDocument, fragments[0].Flavor)
	assert.Empty(t, ForLanguage("ts").Extract("let s = <string>foo;\n"))
}

func TestPythonStrategy_EachLiteralYieldsOneFragment(t *testing.T) {
	source := `x = """<br/>'quoted' "<hr/>" """`
	fragments := PythonStrategy{}.Extract(source)

	require.Len(t, fragments, 1)
	assert.Equal(t, `<br/>'quoted' "<hr/>" `, fragments[0].Text)
}

func TestPythonStrategy(t *testing.T) {
	source := `# "<p>" in a comment
def render(user):
    page = """
    <h1>Title</h1>
    <h3>Skip</h3>
    """
    greeting = f"<span title='{user.name}'>{user.name}</span>"
    single = '<img src="a.png">'
    return "no markup here"
`
	fragments := PythonStrategy{}.Extract(source)

	require.Len(t, fragments, 3)
	assert.Contains(t, fragments[0].Text, "<h1>Title</h1>")
	assert.Equal(t, `<span title=''></span>`, fragments[1].Text)
	assert.Equal(t, `<img src="a.png">`, fragments[2].Text)
}

func TestPhpStrategy_OutsideTagsAndStrings(t *testing.T) {
	source := `<html><body>
<img src="<?= $src ?>">
<?php
  // echo "<p>ignored</p>";
  echo "<a href=\"/x\">{$label} $name</a>";
  echo '<button>Go</button>';
  $doc = <<<HTML
  <input type="text" value="$value">
  HTML;
  $raw = <<<'RAW'
  <label>$kept</label>
  RAW;
?>
</body></html>`
	fragments := PhpStrategy{}.Extract(source)

	require.Len(t, fragments, 5)
	assert.Contains(t, fragments[0].Text, `<img src="">`)
	assert.NotContains(t, fragments[0].Text, "echo")
	assert.Equal(t, `<a href=\"/x\"> </a>`, fragments[1].Text)
	assert.Equal(t, `<button>Go</button>`, fragments[2].Text)
	assert.Equal(t, `  <input type="text" value="">`, fragments[3].Text)
	assert.Equal(t, `  <label>$kept</label>`, fragments[4].Text)
}

func TestPhpStrategy_SnippetWithoutOpenTag(t *testing.T) {
	fragments := PhpStrategy{}.Extract(`echo "<img src='$src'>";`)
	require.Len(t, fragments, 1)
	assert.Equal(t, `<img src=''>`, fragments[0].Text)
}

func TestGoStrategy_StripsTemplateActions(t *testing.T) {
	source := "package views\n\n" +
		"// `<p>` commented\n" +
		"const page = `{{define \"page\"}}{{if .Ok}}<img src=\"{{.Src}}\" alt=\"{{.Alt}}\">{{end}}{{end}}`\n" +
		"var r = '\"'\n" +
		"var s = \"<br/>\"\n"
	fragments := GoStrategy{}.Extract(source)

	assert.Equal(t, []string{
		`<img src="placeholder" alt="placeholder">`,
		`<br/>`,
	}, texts(fragments))
}

func TestForLanguage(t *testing.T) {
	assert.Equal(t, "JavaScript", ForLanguage("javascript").Name())
	assert.Equal(t, "TypeScript", ForLanguage("TypeScript").Name())
	assert.Equal(t, "Python", ForLanguage("py").Name())
	assert.Equal(t, "PHP", ForLanguage("PHP").Name())
	assert.Equal(t, "Go", ForLanguage("golang").Name())
	assert.Equal(t, "source", ForLanguage("Ruby").Name())

	assert.Contains(t, ForLanguage("php").NoContentMessage(), "outside PHP tags")
	assert.Equal(t,
		"No HTML/JSX content found in JavaScript code. This analyzer looks for HTML in template literals or string literals.",
		ForLanguage("js").NoContentMessage())
}

func TestReadHeredoc(t *testing.T) {
	body, consumed, nowdoc, ok := readHeredoc("<<<EOT\n<p>a</p>\nEOT;\nrest")
	assert.True(t, ok)
	assert.False(t, nowdoc)
	assert.Equal(t, "<p>a</p>", body)
	assert.Equal(t, len("<<<EOT\n<p>a</p>\nEOT"), consumed)

	_, _, nowdoc, ok = readHeredoc("<<<'EOT'\nx\n  EOT\n")
	assert.True(t, ok)
	assert.True(t, nowdoc)

	_, _, _, ok = readHeredoc("<<<EOT\n<p>never closed</p>\nEOTX\n")
	assert.False(t, ok)

	_, _, _, ok = readHeredoc("<<<\"EOT'\nx\nEOT\n")
	assert.False(t, ok)
}
