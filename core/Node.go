package core

// Flavor selects the tree grammar a piece of markup is parsed with.
type Flavor string

const (
	FlavorComponent Flavor = "component"
	FlavorDocument  Flavor = "document"
)

// AttrValue is the value of an attribute. Resolved is false when the value is
// a dynamic expression that could not be reduced to a literal string.
type AttrValue struct {
	Value    string
	Resolved bool
}

// Literal returns the literal value, or "" when the value is unresolved.
func (v AttrValue) Literal() string {
	if !v.Resolved {
		return ""
	}
	return v.Value
}

// Node is the capability set the rule engine needs from a parsed tree.
// Both the JSX element tree and the HTML DOM tree implement it.
type Node interface {
	// TagName returns the element name as written in the source. The root
	// node of a tree has an empty tag name.
	TagName() string
	// Attr looks an attribute up by name using the flavor's case rules.
	Attr(name string) (AttrValue, bool)
	Children() []Node
	// Parent returns nil for the root node.
	Parent() Node
	Flavor() Flavor
	// Location returns nil when the tree carries no position information.
	Location() *Location
}
