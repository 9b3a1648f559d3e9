package fiber

import "github.com/vango-dev/minifiber/pkg/element"

// Reconcile builds f's child list from the logical children and returns
// the alternate children that were not reused.
//
// Children are paired with the alternate's child chain by index. A kind
// match at index i produces an EffectUpdate fiber sharing the old host
// handle; a mismatch or a missing alternate produces EffectCreate. The
// alternate pointer advances on every index regardless of the match.
func Reconcile(f *Fiber, children []*element.Node) (deletions []*Fiber) {
	var old *Fiber
	if f.Alternate != nil {
		old = f.Alternate.Child
	}

	f.Child = nil
	var prev *Fiber
	for _, child := range children {
		next := &Fiber{
			Kind:     child.Kind,
			Attrs:    child.Attrs,
			Children: child.Children,
			Node:     child,
			Parent:   f,
		}

		if old != nil && old.Kind.Equal(child.Kind) {
			next.Effect = EffectUpdate
			next.Handle = old.Handle
			next.Alternate = old
		} else {
			next.Effect = EffectCreate
			if old != nil {
				deletions = append(deletions, old)
			}
		}

		if old != nil {
			old = old.Sibling
		}

		if prev == nil {
			f.Child = next
		} else {
			prev.Sibling = next
		}
		prev = next
	}

	// Alternate children past the end of the new list
	for ; old != nil; old = old.Sibling {
		deletions = append(deletions, old)
	}

	return deletions
}
