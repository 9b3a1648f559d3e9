package fiber

import "github.com/vango-dev/minifiber/pkg/host"

// Next returns the fiber to visit after f: its child, else its sibling,
// else the sibling of the nearest ancestor that has one. Nil means the
// traversal is exhausted.
func Next(f *Fiber) *Fiber {
	if f == nil {
		return nil
	}
	if f.Child != nil {
		return f.Child
	}
	for n := f; n != nil; n = n.Parent {
		if n.Sibling != nil {
			return n.Sibling
		}
	}
	return nil
}

// Walk visits f, its subtree, then each following sibling and its subtree,
// depth first. It stops at the first error.
func Walk(f *Fiber, fn func(*Fiber) error) error {
	for ; f != nil; f = f.Sibling {
		if err := fn(f); err != nil {
			return err
		}
		if err := Walk(f.Child, fn); err != nil {
			return err
		}
	}
	return nil
}

// HostParent returns the nearest ancestor of f that owns a host handle.
// Component ancestors own none and are skipped.
func HostParent(f *Fiber) *Fiber {
	p := f.Parent
	for p != nil && p.Handle == nil {
		p = p.Parent
	}
	return p
}

// HostNodes returns the top-most host handles in the subtree rooted at f:
// f's own handle for host fibers, or the host roots below a component.
func HostNodes(f *Fiber) []host.Handle {
	if f == nil {
		return nil
	}
	if f.Handle != nil {
		return []host.Handle{f.Handle}
	}
	var out []host.Handle
	for c := f.Child; c != nil; c = c.Sibling {
		out = append(out, HostNodes(c)...)
	}
	return out
}

// MountedHostSibling returns the first host handle that follows f in its
// host parent and is already attached before commit reaches it. It is the
// reference node for inserting f's new host node in position. Nil means f
// belongs at the end.
func MountedHostSibling(f *Fiber) host.Handle {
	return MountedHostSiblingFunc(f, nil)
}

// MountedHostSiblingFunc is MountedHostSibling for hosts where some reused
// handles may be detached. Handles for which attached returns false are
// skipped. A nil attached treats every reused handle as attached.
func MountedHostSiblingFunc(f *Fiber, attached func(host.Handle) bool) host.Handle {
	for n := f; n != nil; n = n.Parent {
		for s := n.Sibling; s != nil; s = s.Sibling {
			if h := firstMounted(s, attached); h != nil {
				return h
			}
		}
		// Stop at the host parent boundary
		if n.Parent == nil || n.Parent.Handle != nil {
			return nil
		}
	}
	return nil
}

func firstMounted(f *Fiber, attached func(host.Handle) bool) host.Handle {
	if f.Effect != EffectUpdate {
		return nil
	}
	if f.Handle != nil {
		if attached != nil && !attached(f.Handle) {
			return nil
		}
		return f.Handle
	}
	for c := f.Child; c != nil; c = c.Sibling {
		if h := firstMounted(c, attached); h != nil {
			return h
		}
	}
	return nil
}
