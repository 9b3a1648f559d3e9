// Package memhost is an in-memory host tree.
//
// It backs tests, the CLI and the dev server's server-side view. Every node
// keeps its attributes, listeners and children in plain Go values, so a
// rendered tree can be inspected, serialized to HTML and driven with
// synthetic events.
package memhost

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/vango-dev/minifiber/pkg/host"
)

// Op names a host primitive, for counters and fault injection.
type Op string

const (
	OpCreateNode      Op = "CreateNode"
	OpSetAttribute    Op = "SetAttribute"
	OpRemoveAttribute Op = "RemoveAttribute"
	OpAddListener     Op = "AddListener"
	OpRemoveListener  Op = "RemoveListener"
	OpAppendChild     Op = "AppendChild"
	OpInsertBefore    Op = "InsertBefore"
	OpRemoveChild     Op = "RemoveChild"
)

var (
	// ErrInjected is returned by a primitive armed with FailOn.
	ErrInjected = errors.New("memhost: injected failure")

	// ErrBadHandle is returned for handles not created by this host.
	ErrBadHandle = errors.New("memhost: invalid handle")

	// ErrNotChild is returned when a reference or removed node is not a
	// child of the given parent.
	ErrNotChild = errors.New("memhost: node is not a child of parent")
)

// Node is one node of the in-memory tree.
type Node struct {
	Kind      string
	Attrs     map[string]any
	Listeners map[string][]any
	Children  []*Node
	Parent    *Node
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Kind == element.TextTag
}

// Attr returns the value of a plain attribute.
func (n *Node) Attr(key string) (any, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		if v, ok := n.Attrs[element.NodeValueKey]; ok {
			return fmt.Sprint(v)
		}
		return ""
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Find returns the first node in document order, n included, for which
// match returns true.
func (n *Node) Find(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in document order for which match returns true.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(x *Node) {
		if match(x) {
			out = append(out, x)
		}
		for _, c := range x.Children {
			visit(c)
		}
	}
	visit(n)
	return out
}

// ByAttr returns a matcher for nodes whose attribute key formats to value.
func ByAttr(key, value string) func(*Node) bool {
	return func(n *Node) bool {
		v, ok := n.Attrs[key]
		return ok && fmt.Sprint(v) == value
	}
}

// ByKind returns a matcher for nodes of the given kind.
func ByKind(kind string) func(*Node) bool {
	return func(n *Node) bool { return n.Kind == kind }
}

// EventNames returns the events n has listeners for, sorted.
func (n *Node) EventNames() []string {
	names := make([]string, 0, len(n.Listeners))
	for name, fns := range n.Listeners {
		if len(fns) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach() {
	if n.Parent == nil {
		return
	}
	p := n.Parent
	if i := p.indexOf(n); i >= 0 {
		p.Children = append(p.Children[:i], p.Children[i+1:]...)
	}
	n.Parent = nil
}

// Host implements host.Host over Node values. It is safe for concurrent use.
type Host struct {
	mu       sync.Mutex
	counts   map[Op]int
	failures map[Op]int
}

var _ host.Host = (*Host)(nil)

// New creates an empty Host.
func New() *Host {
	return &Host{
		counts:   make(map[Op]int),
		failures: make(map[Op]int),
	}
}

// NewContainer creates a detached node to render into. It is not counted as
// a CreateNode call.
func NewContainer(kind string) *Node {
	return newNode(kind)
}

func newNode(kind string) *Node {
	return &Node{
		Kind:      kind,
		Attrs:     make(map[string]any),
		Listeners: make(map[string][]any),
	}
}

// FailOn arms op to fail on its n-th next call (n >= 1).
func (h *Host) FailOn(op Op, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[op] = n
}

// Count returns how many times op was called successfully.
func (h *Host) Count(op Op) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[op]
}

// Counts returns a copy of all counters.
func (h *Host) Counts() map[Op]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[Op]int, len(h.counts))
	for k, v := range h.counts {
		out[k] = v
	}
	return out
}

// ResetCounts zeroes all counters.
func (h *Host) ResetCounts() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts = make(map[Op]int)
}

// begin records a call to op, returning ErrInjected when it is armed.
func (h *Host) begin(op Op) error {
	if n, ok := h.failures[op]; ok {
		if n <= 1 {
			delete(h.failures, op)
			return fmt.Errorf("%s: %w", op, ErrInjected)
		}
		h.failures[op] = n - 1
	}
	h.counts[op]++
	return nil
}

func asNode(h host.Handle) (*Node, error) {
	n, ok := h.(*Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("%w: %T", ErrBadHandle, h)
	}
	return n, nil
}

// CreateNode implements host.Host.
func (h *Host) CreateNode(kind string) (host.Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.begin(OpCreateNode); err != nil {
		return nil, err
	}
	return newNode(kind), nil
}

// SetAttribute implements host.Host.
func (h *Host) SetAttribute(handle host.Handle, key string, value any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := asNode(handle)
	if err != nil {
		return err
	}
	if err := h.begin(OpSetAttribute); err != nil {
		return err
	}
	n.Attrs[key] = value
	return nil
}

// RemoveAttribute implements host.Host.
func (h *Host) RemoveAttribute(handle host.Handle, key string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := asNode(handle)
	if err != nil {
		return err
	}
	if err := h.begin(OpRemoveAttribute); err != nil {
		return err
	}
	delete(n.Attrs, key)
	return nil
}

// AddListener implements host.Host.
func (h *Host) AddListener(handle host.Handle, event string, fn any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := asNode(handle)
	if err != nil {
		return err
	}
	if err := h.begin(OpAddListener); err != nil {
		return err
	}
	n.Listeners[event] = append(n.Listeners[event], fn)
	return nil
}

// RemoveListener implements host.Host. Funcs cannot be compared, so the
// oldest listener for event is removed.
func (h *Host) RemoveListener(handle host.Handle, event string, fn any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := asNode(handle)
	if err != nil {
		return err
	}
	if err := h.begin(OpRemoveListener); err != nil {
		return err
	}
	if fns := n.Listeners[event]; len(fns) > 0 {
		n.Listeners[event] = fns[1:]
		if len(n.Listeners[event]) == 0 {
			delete(n.Listeners, event)
		}
	}
	return nil
}

// AppendChild implements host.Host. A child attached elsewhere is moved.
func (h *Host) AppendChild(parent, child host.Handle) error {
	return h.InsertBefore(parent, child, nil)
}

// InsertBefore implements host.Host.
func (h *Host) InsertBefore(parent, child, ref host.Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, err := asNode(parent)
	if err != nil {
		return err
	}
	c, err := asNode(child)
	if err != nil {
		return err
	}
	op := OpAppendChild
	if ref != nil {
		op = OpInsertBefore
	}

	var r *Node
	if ref != nil {
		if r, err = asNode(ref); err != nil {
			return err
		}
		if r.Parent != p {
			return fmt.Errorf("InsertBefore: %w", ErrNotChild)
		}
	}
	if err := h.begin(op); err != nil {
		return err
	}

	c.detach()
	c.Parent = p
	if r == nil {
		p.Children = append(p.Children, c)
		return nil
	}
	i := p.indexOf(r)
	p.Children = append(p.Children, nil)
	copy(p.Children[i+1:], p.Children[i:])
	p.Children[i] = c
	return nil
}

// RemoveChild implements host.Host.
func (h *Host) RemoveChild(parent, child host.Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, err := asNode(parent)
	if err != nil {
		return err
	}
	c, err := asNode(child)
	if err != nil {
		return err
	}
	if c.Parent != p {
		return fmt.Errorf("RemoveChild: %w", ErrNotChild)
	}
	if err := h.begin(OpRemoveChild); err != nil {
		return err
	}
	c.detach()
	return nil
}
