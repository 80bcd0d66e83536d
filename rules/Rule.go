// Package rules holds the closed set of accessibility checks and the walk
// that applies them to a parsed tree.
package rules

import (
	"strings"

	"github.com/reaandrew/a11ygrade/core"
)

// WalkState is threaded through one traversal in document order. A zero
// LastHeadingLevel means no heading has been seen yet.
type WalkState struct {
	LastHeadingLevel int
}

// Rule is one entry of the registry. Name and Fix are the human readable
// description used by the report.
type Rule struct {
	ID       string
	Name     string
	Fix      string
	Severity core.Severity
	check    func(node core.Node, state WalkState) (string, bool)
}

// Check runs the rule against a single node and returns the finding it
// produces, if any.
func (r Rule) Check(node core.Node, state WalkState) (core.Finding, bool) {
	message, violated := r.check(node, state)
	if !violated {
		return core.Finding{}, false
	}
	return core.Finding{
		RuleID:   r.ID,
		Message:  message,
		Severity: r.Severity,
		Location: node.Location(),
	}, true
}

func tagOf(node core.Node) string {
	return strings.ToLower(node.TagName())
}

func hasAttr(node core.Node, name string) bool {
	_, ok := node.Attr(name)
	return ok
}

// literalAttr returns the literal value of the first attribute found among
// names. Missing and unresolved attributes both yield "".
func literalAttr(node core.Node, names ...string) string {
	for _, name := range names {
		if value, ok := node.Attr(name); ok {
			return value.Literal()
		}
	}
	return ""
}
