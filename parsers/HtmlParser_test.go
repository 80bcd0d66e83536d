package parsers

import (
	"testing"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagNames(nodes []core.Node) []string {
	var names []string
	for _, n := range nodes {
		names = append(names, n.TagName())
	}
	return names
}

func TestParseHtml_FragmentHasNoWrappers(t *testing.T) {
	root, err := ParseHtml(`<h1>A</h1><h3>B</h3>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h3"}, tagNames(root.Children()))
	assert.Equal(t, core.FlavorDocument, root.Children()[0].Flavor())
	assert.Nil(t, root.Children()[0].Location())
}

func TestParseHtml_FullDocumentKeepsDocumentElements(t *testing.T) {
	root, err := ParseHtml(`<!DOCTYPE html><html lang="en"><head><title>t</title></head><body><img src="a.png"></body></html>`)
	require.NoError(t, err)
	require.Equal(t, []string{"html"}, tagNames(root.Children()))

	htmlElement := root.Children()[0]
	assert.Equal(t, []string{"head", "body"}, tagNames(htmlElement.Children()))
	body := htmlElement.Children()[1]
	assert.Equal(t, []string{"img"}, tagNames(body.Children()))
}

func TestParseHtml_AttributeNamesAreCaseInsensitive(t *testing.T) {
	root, err := ParseHtml(`<DIV TabIndex="2"></DIV>`)
	require.NoError(t, err)
	div := root.Children()[0]

	assert.Equal(t, "div", div.TagName())
	for _, name := range []string{"tabindex", "tabIndex", "TABINDEX"} {
		value, ok := div.Attr(name)
		assert.True(t, ok, name)
		assert.Equal(t, core.AttrValue{Value: "2", Resolved: true}, value)
	}
}

func TestParseHtml_ScriptContentIsNotWalked(t *testing.T) {
	root, err := ParseHtml(`<script>var s = "<img src=x>";</script><style>p > a { color: red }</style>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"script", "style"}, tagNames(root.Children()))
	for _, n := range root.Children() {
		assert.Empty(t, n.Children())
	}
}

func TestParseHtml_ParentChain(t *testing.T) {
	root, err := ParseHtml(`<label>Name <span><input type="text"></span></label>`)
	require.NoError(t, err)

	label := root.Children()[0]
	input := label.Children()[0].Children()[0]
	assert.Equal(t, "input", input.TagName())
	assert.Equal(t, "span", input.Parent().TagName())
	assert.Equal(t, "label", input.Parent().Parent().TagName())
	assert.Equal(t, "", label.Parent().TagName())
}

func TestParseMarkup_DispatchesOnFlavor(t *testing.T) {
	root, err := ParseMarkup(`<p>hi</p>`, core.FlavorDocument)
	require.NoError(t, err)
	assert.Equal(t, core.FlavorDocument, root.Children()[0].Flavor())

	root, err = ParseMarkup(`const p = <p>hi</p>;`, core.FlavorComponent)
	require.NoError(t, err)
	assert.Equal(t, core.FlavorComponent, root.Children()[0].Flavor())
}
