package fiber

import (
	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/vango-dev/minifiber/pkg/host"
)

// RootTag is the kind tag of the root fiber wrapping a host container.
const RootTag = "#root"

// Effect is the mutation a fiber asks the commit phase to apply.
type Effect uint8

const (
	EffectNone   Effect = iota // Root, or nothing to do
	EffectCreate               // Create the host node and insert it
	EffectUpdate               // Reuse the alternate's host node, apply Delta
)

// String returns the string representation of the Effect.
func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "NONE"
	case EffectCreate:
		return "CREATE"
	case EffectUpdate:
		return "UPDATE"
	default:
		return "UNKNOWN"
	}
}

// Fiber is one tree position in one render pass.
type Fiber struct {
	Kind  element.Kind
	Attrs element.Attrs

	// Children are the logical children of a host fiber, expanded when the
	// fiber is processed. Component fibers derive theirs from Node.
	Children []*element.Node

	// Node is the description this fiber was built from. Nil for roots.
	Node *element.Node

	// Handle is the host node owned by this fiber. Only host fibers own one.
	Handle host.Handle

	Parent  *Fiber
	Child   *Fiber
	Sibling *Fiber

	// Alternate and Effect describe the pass that built the fiber. Commit
	// clears Alternate, but Effect keeps its last value, so a committed
	// fiber may read UPDATE with no alternate. Each pass builds fresh
	// fibers, so the stale value only shows up in dumps of the baseline.
	Alternate *Fiber
	Effect    Effect

	// Delta is the attribute change set computed for host fibers before
	// commit.
	Delta *AttrDelta
}

// NewRoot creates the root fiber of a pass. The root owns the container
// handle and has the tree as its only logical child.
func NewRoot(container host.Handle, children []*element.Node, alternate *Fiber) *Fiber {
	return &Fiber{
		Kind:      element.Host(RootTag),
		Attrs:     element.Attrs{},
		Children:  children,
		Handle:    container,
		Alternate: alternate,
	}
}

// IsRoot reports whether f is a pass root.
func (f *Fiber) IsRoot() bool {
	return f != nil && f.Parent == nil && f.Kind.Tag() == RootTag
}

// IsHost reports whether f is built from a host tag (roots included).
func (f *Fiber) IsHost() bool {
	return f != nil && f.Kind.IsHost()
}

// IsComponent reports whether f is built from a component function.
func (f *Fiber) IsComponent() bool {
	return f != nil && f.Kind.IsComponent()
}

// Props returns the attributes a component fiber is rendered with.
func (f *Fiber) Props() element.Attrs {
	if f.Node != nil {
		return f.Node.Props()
	}
	return f.Attrs
}

// Count returns the number of fibers in the tree rooted at f.
func (f *Fiber) Count() int {
	if f == nil {
		return 0
	}
	n := 1
	_ = Walk(f.Child, func(*Fiber) error {
		n++
		return nil
	})
	return n
}
