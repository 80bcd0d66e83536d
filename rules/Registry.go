package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/reaandrew/a11ygrade/core"
)

const (
	ImgAlt           = "img-alt"
	AnchorHref       = "anchor-href"
	ButtonType       = "button-type"
	FormLabel        = "form-label"
	ClickKeyboard    = "click-keyboard"
	HeadingOrder     = "heading-order"
	TabindexPositive = "tabindex-positive"
)

var (
	headingPattern     = regexp.MustCompile(`^h([1-6])$`)
	digitsPattern      = regexp.MustCompile(`^\d+$`)
	labelledTags       = []string{"input", "select", "textarea"}
	interactiveTags    = []string{"a", "button", "input", "select", "textarea", "summary", "option"}
	keyboardHandlers   = []string{"onKeyDown", "onKeyUp", "onKeyPress", "onKeyDownCapture", "onKeyUpCapture"}
	tabindexAttributes = []string{"tabIndex", "tabindex"}
)

// Registry is the closed set of rules in report order. Every rule id the
// engine can emit appears here exactly once.
var Registry = []Rule{
	{
		ID:       ImgAlt,
		Name:     "Image Alt Text",
		Fix:      `Add descriptive alt text to all <img> elements. Use alt="" only for decorative images.`,
		Severity: core.SeverityError,
		check:    checkImgAlt,
	},
	{
		ID:       AnchorHref,
		Name:     "Anchor Links",
		Fix:      `All <a> elements must have an href attribute. Use href="#" or a proper URL.`,
		Severity: core.SeverityError,
		check:    checkAnchorHref,
	},
	{
		ID:       ButtonType,
		Name:     "Button Type",
		Fix:      `Add type="button", type="submit", or type="reset" to all <button> elements.`,
		Severity: core.SeverityWarning,
		check:    checkButtonType,
	},
	{
		ID:       FormLabel,
		Name:     "Form Labels",
		Fix:      "Wrap form inputs in <label> elements or use aria-label/aria-labelledby attributes.",
		Severity: core.SeverityError,
		check:    checkFormLabel,
	},
	{
		ID:       ClickKeyboard,
		Name:     "Keyboard Accessibility",
		Fix:      "Non-interactive elements with onClick need keyboard handlers (onKeyDown) and appropriate role attributes.",
		Severity: core.SeverityError,
		check:    checkClickKeyboard,
	},
	{
		ID:       HeadingOrder,
		Name:     "Heading Hierarchy",
		Fix:      "Maintain logical heading order (h1 → h2 → h3, etc.). Do not skip levels.",
		Severity: core.SeverityWarning,
		check:    checkHeadingOrder,
	},
	{
		ID:       TabindexPositive,
		Name:     "Tab Index",
		Fix:      `Avoid positive tabIndex values. Use tabIndex="0" for focusable elements or tabIndex="-1" to remove from tab order.`,
		Severity: core.SeverityWarning,
		check:    checkTabindexPositive,
	},
}

// Lookup finds a registry rule by id.
func Lookup(id string) (Rule, bool) {
	for _, rule := range Registry {
		if rule.ID == id {
			return rule, true
		}
	}
	return Rule{}, false
}

func checkImgAlt(node core.Node, _ WalkState) (string, bool) {
	if tagOf(node) != "img" {
		return "", false
	}
	if literalAttr(node, "role") == "presentation" || literalAttr(node, "aria-hidden") == "true" {
		return "", false
	}
	alt, ok := node.Attr("alt")
	if ok && alt.Resolved && strings.TrimSpace(alt.Value) != "" {
		return "", false
	}
	return "<img> elements must have non-empty alt text.", true
}

func checkAnchorHref(node core.Node, _ WalkState) (string, bool) {
	if tagOf(node) != "a" || hasAttr(node, "href") {
		return "", false
	}
	return "<a> elements must have an href attribute.", true
}

func checkButtonType(node core.Node, _ WalkState) (string, bool) {
	if tagOf(node) != "button" {
		return "", false
	}
	if value, ok := node.Attr("type"); ok && value.Resolved && value.Value != "" {
		return "", false
	}
	return "<button> should have an explicit type attribute (button, submit, or reset).", true
}

func checkFormLabel(node core.Node, _ WalkState) (string, bool) {
	if !slices.Contains(labelledTags, tagOf(node)) {
		return "", false
	}
	if hasAttr(node, "aria-label") || hasAttr(node, "aria-labelledby") {
		return "", false
	}
	for ancestor := node.Parent(); ancestor != nil; ancestor = ancestor.Parent() {
		if tagOf(ancestor) == "label" {
			return "", false
		}
	}
	return fmt.Sprintf("<%s> should have an associated label (wrap in <label>, or use aria-label/aria-labelledby).",
		node.TagName()), true
}

// checkClickKeyboard flags a click handler on a non-interactive element
// unless it has both a keyboard handler and a literal role.
func checkClickKeyboard(node core.Node, _ WalkState) (string, bool) {
	if node.Flavor() != core.FlavorComponent || !hasAttr(node, "onClick") {
		return "", false
	}
	if slices.Contains(interactiveTags, tagOf(node)) {
		return "", false
	}
	hasKeyboard := false
	for _, handler := range keyboardHandlers {
		if hasAttr(node, handler) {
			hasKeyboard = true
			break
		}
	}
	if hasKeyboard && literalAttr(node, "role") != "" {
		return "", false
	}
	return fmt.Sprintf("Non-interactive <%s> with onClick should have keyboard handlers and an appropriate role.",
		node.TagName()), true
}

func checkHeadingOrder(node core.Node, state WalkState) (string, bool) {
	level := headingLevel(node)
	if level == 0 {
		return "", false
	}
	last := state.LastHeadingLevel
	if last == 0 {
		last = level
	}
	if level <= last+1 {
		return "", false
	}
	return fmt.Sprintf("Heading level skips from h%d to h%d. Maintain logical heading hierarchy.", last, level), true
}

func checkTabindexPositive(node core.Node, _ WalkState) (string, bool) {
	value := literalAttr(node, tabindexAttributes...)
	if !digitsPattern.MatchString(value) || strings.TrimLeft(value, "0") == "" {
		return "", false
	}
	if node.Flavor() == core.FlavorDocument {
		return `Avoid positive tabIndex; it creates confusing tab order. Use tabIndex="0" or "-1" if needed.`, true
	}
	return "Avoid positive tabIndex; it creates confusing tab order. Use tabIndex={0} or -1 if needed.", true
}

// headingLevel returns 1-6 for heading tags and 0 for anything else.
func headingLevel(node core.Node) int {
	match := headingPattern.FindStringSubmatch(tagOf(node))
	if match == nil {
		return 0
	}
	return int(match[1][0] - '0')
}
