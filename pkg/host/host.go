// Package host defines the mutation primitives the reconciler needs from the
// platform that owns the output tree.
//
// The reconciler never inspects host state. It only calls these primitives,
// and only during commit.
package host

// Handle references one node of the host tree. The zero value (nil) means
// "not created yet". Handles must be comparable.
type Handle any

// Host is the platform collaborator that owns the output tree.
type Host interface {
	// CreateNode creates a detached node of the given kind.
	CreateNode(kind string) (Handle, error)

	// SetAttribute sets a plain attribute.
	SetAttribute(h Handle, key string, value any) error

	// RemoveAttribute removes a plain attribute.
	RemoveAttribute(h Handle, key string) error

	// AddListener binds fn to event on h.
	AddListener(h Handle, event string, fn any) error

	// RemoveListener unbinds a listener previously bound with AddListener.
	RemoveListener(h Handle, event string, fn any) error

	// AppendChild attaches child as the last child of parent.
	AppendChild(parent, child Handle) error

	// InsertBefore attaches child to parent before ref. A nil ref appends.
	InsertBefore(parent, child, ref Handle) error

	// RemoveChild detaches child from parent.
	RemoveChild(parent, child Handle) error
}

// Flusher is implemented by hosts that buffer mutations. The reconciler
// calls Flush once after every successful commit.
type Flusher interface {
	Flush() error
}
