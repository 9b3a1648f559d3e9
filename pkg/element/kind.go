package element

import (
	"fmt"
	"reflect"
	"runtime"
)

// TextTag is the reserved host tag for text leaves.
const TextTag = "#text"

// Component renders attributes into exactly one node.
type Component func(Attrs) *Node

// Kind discriminates host tags from components.
type Kind struct {
	tag  string
	comp Component
	// fn is the code pointer of comp, used for identity comparison.
	fn uintptr
}

// Host returns the kind for a host tag.
func Host(tag string) Kind {
	return Kind{tag: tag}
}

// Func returns the kind for a component function.
func Func(c Component) Kind {
	if c == nil {
		return Kind{}
	}
	return Kind{comp: c, fn: reflect.ValueOf(c).Pointer()}
}

// IsHost reports whether k is a host tag.
func (k Kind) IsHost() bool { return k.comp == nil && k.tag != "" }

// IsComponent reports whether k is a component function.
func (k Kind) IsComponent() bool { return k.comp != nil }

// IsZero reports whether k is neither a host tag nor a component.
func (k Kind) IsZero() bool { return k.comp == nil && k.tag == "" }

// IsText reports whether k is the reserved text kind.
func (k Kind) IsText() bool { return k.comp == nil && k.tag == TextTag }

// Tag returns the host tag, or "" for components.
func (k Kind) Tag() string { return k.tag }

// Component returns the component function, or nil for host tags.
func (k Kind) Component() Component { return k.comp }

// Equal reports whether two kinds are the same. Components compare by
// function identity, so two closures built from the same function literal
// are the same kind.
func (k Kind) Equal(o Kind) bool {
	if k.IsComponent() != o.IsComponent() {
		return false
	}
	if k.IsComponent() {
		return k.fn == o.fn
	}
	return k.tag == o.tag
}

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch {
	case k.IsComponent():
		if f := runtime.FuncForPC(k.fn); f != nil {
			return f.Name()
		}
		return fmt.Sprintf("component@%x", k.fn)
	case k.IsZero():
		return "<nil>"
	default:
		return k.tag
	}
}
