package parsers

import (
	"context"
	"fmt"
	"strings"

	"github.com/reaandrew/a11ygrade/core"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// tree-sitter TSX node types used while collecting JSX elements.
const (
	tsxElement          = "jsx_element"
	tsxSelfClosing      = "jsx_self_closing_element"
	tsxOpeningElement   = "jsx_opening_element"
	tsxAttribute        = "jsx_attribute"
	tsxExpression       = "jsx_expression"
	tsxNamespaceName    = "jsx_namespace_name"
	tsxString           = "string"
	tsxTemplateString   = "template_string"
	tsxTemplateSubst    = "template_substitution"
	tsxComment          = "comment"
	tsxIdentifier       = "identifier"
	tsxMemberExpression = "member_expression"
	tsxNestedIdentifier = "nested_identifier"
	tsxError            = "ERROR"
)

type jsxAttr struct {
	name  string
	value core.AttrValue
}

type jsxNode struct {
	name     string
	attrs    []jsxAttr
	children []core.Node
	parent   *jsxNode
	location *core.Location
}

func (n *jsxNode) TagName() string { return n.name }

// Attr matches names case-sensitively, first occurrence wins.
func (n *jsxNode) Attr(name string) (core.AttrValue, bool) {
	for _, attr := range n.attrs {
		if attr.name == name {
			return attr.value, true
		}
	}
	return core.AttrValue{}, false
}

func (n *jsxNode) Children() []core.Node { return n.children }

func (n *jsxNode) Parent() core.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *jsxNode) Flavor() core.Flavor { return core.FlavorComponent }

func (n *jsxNode) Location() *core.Location { return n.location }

// ParseJsx parses JSX/TSX source. Every JSX element found anywhere in the
// file becomes a node; its parent is the nearest enclosing JSX element.
// Fragments and namespaced tags are transparent.
func ParseJsx(text string) (core.Node, error) {
	source := []byte(text)

	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseFailure{Flavor: core.FlavorComponent, Reason: err.Error()}
	}

	program := tree.RootNode()
	if program.HasError() {
		return nil, &ParseFailure{Flavor: core.FlavorComponent, Reason: describeSyntaxError(program, source)}
	}

	root := &jsxNode{}
	collectJsxElements(program, source, root)
	return root, nil
}

func collectJsxElements(node *sitter.Node, source []byte, parent *jsxNode) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case tsxElement:
			appendJsxElement(child, openingElement(child), source, parent)
		case tsxSelfClosing:
			appendJsxElement(child, child, source, parent)
		default:
			collectJsxElements(child, source, parent)
		}
	}
}

// appendJsxElement records element under parent and walks into it.
func appendJsxElement(element, opening *sitter.Node, source []byte, parent *jsxNode) {
	name := ""
	if opening != nil {
		name = elementName(opening, source)
	}
	if name == "" {
		collectJsxElements(element, source, parent)
		return
	}

	start := opening.StartPoint()
	node := &jsxNode{
		name:   name,
		attrs:  elementAttributes(opening, source),
		parent: parent,
		location: &core.Location{
			Line:   int(start.Row) + 1,
			Column: int(start.Column) + 1,
		},
	}
	parent.children = append(parent.children, node)
	collectJsxElements(element, source, node)
}

func openingElement(element *sitter.Node) *sitter.Node {
	if open := element.ChildByFieldName("open_tag"); open != nil {
		return open
	}
	for i := 0; i < int(element.NamedChildCount()); i++ {
		child := element.NamedChild(i)
		if child != nil && child.Type() == tsxOpeningElement {
			return child
		}
	}
	return nil
}

// elementName returns "" for fragments and namespaced names. Member
// expressions resolve to their last property: <Foo.Bar> is "Bar".
func elementName(opening *sitter.Node, source []byte) string {
	nameNode := opening.ChildByFieldName("name")
	if nameNode == nil {
		for i := 0; i < int(opening.NamedChildCount()); i++ {
			child := opening.NamedChild(i)
			if child == nil {
				continue
			}
			switch child.Type() {
			case tsxIdentifier, tsxMemberExpression, tsxNestedIdentifier, tsxNamespaceName:
				nameNode = child
			}
			if nameNode != nil {
				break
			}
		}
	}
	if nameNode == nil || nameNode.Type() == tsxNamespaceName {
		return ""
	}

	name := nameNode.Content(source)
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSpace(name)
}

func elementAttributes(opening *sitter.Node, source []byte) []jsxAttr {
	var attrs []jsxAttr
	for i := 0; i < int(opening.NamedChildCount()); i++ {
		child := opening.NamedChild(i)
		if child == nil || child.Type() != tsxAttribute {
			continue
		}
		nameNode := child.NamedChild(0)
		if nameNode == nil {
			continue
		}

		value := core.AttrValue{Value: "", Resolved: true}
		if child.NamedChildCount() > 1 {
			value = attributeValue(child.NamedChild(1), source)
		}
		attrs = append(attrs, jsxAttr{name: nameNode.Content(source), value: value})
	}
	return attrs
}

// attributeValue reduces string literals and single-quasi template literals
// to their text. Everything else, numbers included, is unresolved.
func attributeValue(node *sitter.Node, source []byte) core.AttrValue {
	if node == nil {
		return core.AttrValue{}
	}
	switch node.Type() {
	case tsxString:
		return core.AttrValue{Value: unquote(node.Content(source)), Resolved: true}
	case tsxExpression:
		return attributeValue(firstExpression(node), source)
	case tsxTemplateString:
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if sub := node.NamedChild(i); sub != nil && sub.Type() == tsxTemplateSubst {
				return core.AttrValue{}
			}
		}
		return core.AttrValue{Value: unquote(node.Content(source)), Resolved: true}
	}
	return core.AttrValue{}
}

func firstExpression(container *sitter.Node) *sitter.Node {
	for i := 0; i < int(container.NamedChildCount()); i++ {
		child := container.NamedChild(i)
		if child != nil && child.Type() != tsxComment {
			return child
		}
	}
	return nil
}

func unquote(literal string) string {
	if len(literal) >= 2 {
		return literal[1 : len(literal)-1]
	}
	return ""
}

// describeSyntaxError names the first ERROR or MISSING node in document
// order, using 1-based lines and 0-based columns.
func describeSyntaxError(program *sitter.Node, source []byte) string {
	bad := firstSyntaxError(program)
	if bad == nil {
		return "Unexpected token"
	}
	start := bad.StartPoint()
	if bad.IsMissing() {
		return fmt.Sprintf("Missing %s. (%d:%d)", bad.Type(), start.Row+1, start.Column)
	}
	token := strings.TrimSpace(bad.Content(source))
	token = truncateRunes(token, 20)
	if token == "" {
		return fmt.Sprintf("Unexpected token (%d:%d)", start.Row+1, start.Column)
	}
	return fmt.Sprintf("Unexpected token %q (%d:%d)", firstLine(token), start.Row+1, start.Column)
}

func truncateRunes(s string, limit int) string {
	if runes := []rune(s); len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

func firstSyntaxError(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == tsxError || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if bad := firstSyntaxError(node.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
