package element

import (
	"fmt"
	"strconv"
	"strings"
)

// ChildrenKey is the attribute under which a component receives its children.
const ChildrenKey = "children"

// NodeValueKey is the attribute carrying the content of a text leaf.
const NodeValueKey = "nodeValue"

// Attrs holds attributes and event listeners. Keys with the "on" prefix are
// event listeners (see IsEventKey).
type Attrs map[string]any

// Node is an immutable description of one tree position.
type Node struct {
	Kind     Kind
	Attrs    Attrs
	Children []*Node
}

// Build creates a node of the given kind.
// Children can be: nil (skipped), *Node, []*Node, string, fmt.Stringer,
// integers, floats and bools. Non-node values become text leaves.
func Build(kind Kind, attrs Attrs, children ...any) *Node {
	node := &Node{
		Kind:     kind,
		Attrs:    make(Attrs, len(attrs)),
		Children: make([]*Node, 0, len(children)),
	}
	for k, v := range attrs {
		if k == ChildrenKey {
			continue
		}
		node.Attrs[k] = v
	}
	for _, child := range children {
		node.Children = appendChild(node.Children, child)
	}
	return node
}

// El creates a host element.
func El(tag string, attrs Attrs, children ...any) *Node {
	return Build(Host(tag), attrs, children...)
}

// Comp creates a component node.
func Comp(c Component, attrs Attrs, children ...any) *Node {
	return Build(Func(c), attrs, children...)
}

// Text creates a text leaf.
func Text(s string) *Node {
	return &Node{
		Kind:     Host(TextTag),
		Attrs:    Attrs{NodeValueKey: s},
		Children: []*Node{},
	}
}

// Textf creates a text leaf from a format string.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

func appendChild(children []*Node, child any) []*Node {
	switch v := child.(type) {
	case nil:
		return children
	case *Node:
		if v == nil {
			return children
		}
		return append(children, v)
	case []*Node:
		for _, c := range v {
			if c != nil {
				children = append(children, c)
			}
		}
		return children
	case []any:
		for _, c := range v {
			children = appendChild(children, c)
		}
		return children
	case string:
		return append(children, Text(v))
	case fmt.Stringer:
		return append(children, Text(v.String()))
	case int:
		return append(children, Text(strconv.Itoa(v)))
	case int64:
		return append(children, Text(strconv.FormatInt(v, 10)))
	case float64:
		return append(children, Text(strconv.FormatFloat(v, 'f', -1, 64)))
	case bool:
		return append(children, Text(strconv.FormatBool(v)))
	default:
		return append(children, Text(fmt.Sprint(v)))
	}
}

// Props returns the attributes a component is invoked with: the node's
// attributes plus its children under ChildrenKey.
func (n *Node) Props() Attrs {
	props := make(Attrs, len(n.Attrs)+1)
	for k, v := range n.Attrs {
		props[k] = v
	}
	if len(n.Children) > 0 {
		props[ChildrenKey] = n.Children
	}
	return props
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool {
	return n != nil && n.Kind.IsText()
}

// TextValue returns the content of a text leaf.
func (n *Node) TextValue() string {
	if !n.IsText() {
		return ""
	}
	s, _ := n.Attrs[NodeValueKey].(string)
	return s
}

// ChildrenOf extracts the children a component received in its attributes.
func ChildrenOf(attrs Attrs) []*Node {
	children, _ := attrs[ChildrenKey].([]*Node)
	return children
}

// IsEventKey reports whether an attribute key binds an event listener.
// Matching is case-insensitive: onclick, onClick and ONCLICK all qualify.
func IsEventKey(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// EventName returns the event an event key binds ("onClick" -> "click").
func EventName(key string) string {
	if !IsEventKey(key) {
		return ""
	}
	return strings.ToLower(key[2:])
}
