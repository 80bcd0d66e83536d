package rules

import "github.com/reaandrew/a11ygrade/core"

// Evaluate walks the tree once, depth first in document order, starting at
// the root's children. Heading state carries across subtrees so siblings and
// descendants all see the most recently visited heading.
func Evaluate(root core.Node) []core.Finding {
	findings := []core.Finding{}
	if root == nil {
		return findings
	}

	state := &WalkState{}
	for _, child := range root.Children() {
		findings = walk(child, state, findings)
	}
	return findings
}

func walk(node core.Node, state *WalkState, findings []core.Finding) []core.Finding {
	for _, rule := range Registry {
		if finding, ok := rule.Check(node, *state); ok {
			findings = append(findings, finding)
		}
	}
	if level := headingLevel(node); level > 0 {
		state.LastHeadingLevel = level
	}

	for _, child := range node.Children() {
		findings = walk(child, state, findings)
	}
	return findings
}
