package parsers

import (
	"regexp"
	"strings"

	"github.com/reaandrew/a11ygrade/core"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var fullDocumentPattern = regexp.MustCompile(`(?is)^\s*(<!--.*?-->\s*)*(<!doctype|<html[\s>])`)

type htmlNode struct {
	node     *html.Node
	children []core.Node
	parent   *htmlNode
}

func (n *htmlNode) TagName() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// Attr matches names case-insensitively. The HTML parser already lower-cases
// attribute keys, so only the query needs folding.
func (n *htmlNode) Attr(name string) (core.AttrValue, bool) {
	if n.node == nil {
		return core.AttrValue{}, false
	}
	key := strings.ToLower(name)
	for _, attr := range n.node.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return core.AttrValue{Value: attr.Val, Resolved: true}, true
		}
	}
	return core.AttrValue{}, false
}

func (n *htmlNode) Children() []core.Node { return n.children }

func (n *htmlNode) Parent() core.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *htmlNode) Flavor() core.Flavor { return core.FlavorDocument }

func (n *htmlNode) Location() *core.Location { return nil }

// ParseHtml parses a complete document or a body fragment. Fragments are
// parsed in a <body> context so no html/head/body wrappers are synthesized.
// Text inside script and style elements stays raw and is never walked.
func ParseHtml(text string) (core.Node, error) {
	root := &htmlNode{}

	if fullDocumentPattern.MatchString(text) {
		doc, err := html.Parse(strings.NewReader(text))
		if err != nil {
			return nil, &ParseFailure{Flavor: core.FlavorDocument, Reason: err.Error()}
		}
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			adoptHtmlNode(root, c)
		}
		return root, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(text), body)
	if err != nil {
		return nil, &ParseFailure{Flavor: core.FlavorDocument, Reason: err.Error()}
	}
	for _, n := range nodes {
		adoptHtmlNode(root, n)
	}
	return root, nil
}

func adoptHtmlNode(parent *htmlNode, n *html.Node) {
	if n.Type != html.ElementNode {
		return
	}
	wrapped := &htmlNode{node: n, parent: parent}
	parent.children = append(parent.children, wrapped)

	if isRawTextElement(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		adoptHtmlNode(wrapped, c)
	}
}

func isRawTextElement(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style:
		return true
	}
	return false
}
