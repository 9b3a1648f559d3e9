// Package remote is a host whose tree lives in another process.
//
// Every mutation becomes a wire.Patch addressed by a string node ID. The
// patches of one commit are buffered until Flush, then sent to a Sink as
// sequence-numbered patches frames. Listeners stay in this process: the
// peer reports interactions as event frames naming a node ID, and Dispatch
// runs the bound functions.
//
// Host also keeps a shadow of the tree it has built, so a peer that joins
// late can be brought up to date with Snapshot. Mirror is the receiving
// side: it replays frames onto any host.Host.
package remote

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/vango-dev/minifiber/internal/errors"
	"github.com/vango-dev/minifiber/pkg/host"
	"github.com/vango-dev/minifiber/pkg/wire"
)

// RootID is the ID of the container node every Host starts with.
const RootID = "root"

// Sink receives encoded frames.
type Sink interface {
	SendFrame(f *wire.Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f *wire.Frame) error

// SendFrame implements Sink.
func (fn SinkFunc) SendFrame(f *wire.Frame) error { return fn(f) }

// Host implements host.Host by emitting patches. It is safe for concurrent
// use.
type Host struct {
	sink   Sink
	logger *slog.Logger

	mu      sync.Mutex
	lastID  uint64
	seq     uint64
	pending []wire.Patch
	nodes   map[string]*shadow
}

var (
	_ host.Host    = (*Host)(nil)
	_ host.Flusher = (*Host)(nil)
)

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Host sending frames to sink. A nil sink drops frames.
func New(sink Sink, opts ...Option) *Host {
	h := &Host{
		sink:   sink,
		logger: slog.Default(),
		nodes:  map[string]*shadow{RootID: newShadow(RootID, "")},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "remote")
	return h
}

// Container returns the handle of the root container.
func (h *Host) Container() host.Handle {
	return RootID
}

// Seq returns the sequence number of the last frame sent.
func (h *Host) Seq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}

// Pending returns a copy of the patches buffered since the last Flush.
func (h *Host) Pending() []wire.Patch {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]wire.Patch(nil), h.pending...)
}

// lookup resolves a handle to its shadow node. Callers hold mu.
func (h *Host) lookup(handle host.Handle) (*shadow, error) {
	id, ok := handle.(string)
	if !ok {
		return nil, errors.New("E041").WithDetailf("handle of type %T", handle)
	}
	n, ok := h.nodes[id]
	if !ok {
		return nil, errors.New("E041").WithDetail(id)
	}
	return n, nil
}

// CreateNode implements host.Host.
func (h *Host) CreateNode(kind string) (host.Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastID++
	id := "n" + strconv.FormatUint(h.lastID, 10)
	h.nodes[id] = newShadow(id, kind)
	h.pending = append(h.pending, wire.Patch{Op: wire.OpCreateNode, ID: id, Value: kind})
	return id, nil
}

// SetAttribute implements host.Host. Values are sent in their fmt form.
func (h *Host) SetAttribute(handle host.Handle, key string, value any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.lookup(handle)
	if err != nil {
		return err
	}
	v := fmt.Sprint(value)
	n.attrs[key] = v
	h.pending = append(h.pending, wire.Patch{Op: wire.OpSetAttr, ID: n.id, Key: key, Value: v})
	return nil
}

// RemoveAttribute implements host.Host.
func (h *Host) RemoveAttribute(handle host.Handle, key string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.lookup(handle)
	if err != nil {
		return err
	}
	delete(n.attrs, key)
	h.pending = append(h.pending, wire.Patch{Op: wire.OpRemoveAttr, ID: n.id, Key: key})
	return nil
}

// AddListener implements host.Host. fn stays in this process.
func (h *Host) AddListener(handle host.Handle, event string, fn any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.lookup(handle)
	if err != nil {
		return err
	}
	n.listeners[event] = append(n.listeners[event], fn)
	h.pending = append(h.pending, wire.Patch{Op: wire.OpAddListener, ID: n.id, Key: event})
	return nil
}

// RemoveListener implements host.Host. The oldest listener for event is
// removed.
func (h *Host) RemoveListener(handle host.Handle, event string, fn any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.lookup(handle)
	if err != nil {
		return err
	}
	if fns := n.listeners[event]; len(fns) > 0 {
		n.listeners[event] = fns[1:]
		if len(n.listeners[event]) == 0 {
			delete(n.listeners, event)
		}
	}
	h.pending = append(h.pending, wire.Patch{Op: wire.OpRemoveListener, ID: n.id, Key: event})
	return nil
}

// AppendChild implements host.Host.
func (h *Host) AppendChild(parent, child host.Handle) error {
	return h.InsertBefore(parent, child, nil)
}

// InsertBefore implements host.Host.
func (h *Host) InsertBefore(parent, child, ref host.Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, err := h.lookup(parent)
	if err != nil {
		return err
	}
	c, err := h.lookup(child)
	if err != nil {
		return err
	}
	if ref == nil {
		h.move(c, p, nil)
		h.pending = append(h.pending, wire.Patch{Op: wire.OpAppendChild, ID: c.id, Parent: p.id})
		return nil
	}
	r, err := h.lookup(ref)
	if err != nil {
		return err
	}
	if r.parent != p {
		return errors.New("E041").WithDetailf("%s is not a child of %s", r.id, p.id)
	}
	h.move(c, p, r)
	h.pending = append(h.pending, wire.Patch{Op: wire.OpInsertBefore, ID: c.id, Parent: p.id, Ref: r.id})
	return nil
}

// RemoveChild implements host.Host. The removed subtree is forgotten.
func (h *Host) RemoveChild(parent, child host.Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, err := h.lookup(parent)
	if err != nil {
		return err
	}
	c, err := h.lookup(child)
	if err != nil {
		return err
	}
	if c.parent != p {
		return errors.New("E041").WithDetailf("%s is not a child of %s", c.id, p.id)
	}
	c.detach()
	h.forget(c)
	h.pending = append(h.pending, wire.Patch{Op: wire.OpRemoveChild, ID: c.id, Parent: p.id})
	return nil
}

// move attaches c to p before ref, or last when ref is nil.
func (h *Host) move(c, p, ref *shadow) {
	c.detach()
	c.parent = p
	i := -1
	if ref != nil {
		i = p.indexOf(ref)
	}
	if i < 0 {
		p.children = append(p.children, c)
		return
	}
	p.children = append(p.children, nil)
	copy(p.children[i+1:], p.children[i:])
	p.children[i] = c
}

func (h *Host) forget(n *shadow) {
	delete(h.nodes, n.id)
	for _, c := range n.children {
		h.forget(c)
	}
}

// Flush implements host.Flusher: buffered patches are sent as one or more
// frames.
func (h *Host) Flush() error {
	h.mu.Lock()
	if len(h.pending) == 0 {
		h.mu.Unlock()
		return nil
	}
	frames, next := wire.PatchFrames(h.seq+1, h.pending)
	count := len(h.pending)
	h.seq = next - 1
	h.pending = nil
	h.mu.Unlock()

	h.logger.Debug("flush", "patches", count, "frames", len(frames))
	if h.sink == nil {
		return nil
	}
	for _, f := range frames {
		if err := h.sink.SendFrame(f); err != nil {
			return fmt.Errorf("remote: send frame: %w", err)
		}
	}
	return nil
}

// Snapshot returns the patches that rebuild the current tree under a
// fresh root, in document order.
func (h *Host) Snapshot() []wire.Patch {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []wire.Patch
	var visit func(n *shadow)
	visit = func(n *shadow) {
		for _, c := range n.children {
			out = append(out, wire.Patch{Op: wire.OpCreateNode, ID: c.id, Value: c.kind})
			for _, key := range sortedKeys(c.attrs) {
				out = append(out, wire.Patch{Op: wire.OpSetAttr, ID: c.id, Key: key, Value: c.attrs[key]})
			}
			for _, event := range c.events() {
				for range c.listeners[event] {
					out = append(out, wire.Patch{Op: wire.OpAddListener, ID: c.id, Key: event})
				}
			}
			out = append(out, wire.Patch{Op: wire.OpAppendChild, ID: c.id, Parent: n.id})
			visit(c)
		}
	}
	visit(h.nodes[RootID])
	return out
}

// SnapshotFrames encodes Snapshot for a peer that starts from an empty
// root. The frames carry FlagSnapshot and are numbered from the next live
// sequence number; the peer resumes live frames from there.
func (h *Host) SnapshotFrames() []*wire.Frame {
	h.mu.Lock()
	seq := h.seq
	h.mu.Unlock()

	frames, _ := wire.PatchFrames(seq+1, h.Snapshot())
	for _, f := range frames {
		f.Flags |= wire.FlagSnapshot
	}
	return frames
}

// Dispatch runs the listeners bound to ev.Name on ev.Target. Listeners may
// be func(), func(string) or func(wire.Event). It returns how many ran.
// Listeners run without the host lock held.
func (h *Host) Dispatch(ev *wire.Event) (int, error) {
	h.mu.Lock()
	n, ok := h.nodes[ev.Target]
	var fns []any
	if ok {
		fns = append(fns, n.listeners[ev.Name]...)
	}
	h.mu.Unlock()

	if !ok {
		return 0, errors.New("E041").WithDetail(ev.Target)
	}
	for _, fn := range fns {
		switch f := fn.(type) {
		case func():
			f()
		case func(string):
			f(ev.Payload)
		case func(wire.Event):
			f(*ev)
		default:
			return 0, errors.New("E042").WithDetailf("%T for %q", fn, ev.Name)
		}
	}
	return len(fns), nil
}

// HandleFrame processes an inbound frame. Only event frames are accepted.
func (h *Host) HandleFrame(f *wire.Frame) error {
	if f.Type != wire.FrameEvent {
		return errors.New("E040").WithDetailf("unexpected %s frame", f.Type)
	}
	ev, err := wire.DecodeEvent(f.Payload)
	if err != nil {
		return errors.New("E040").Wrap(err)
	}
	_, err = h.Dispatch(ev)
	return err
}

// shadow is the local record of one remote node.
type shadow struct {
	id        string
	kind      string
	attrs     map[string]string
	listeners map[string][]any
	parent    *shadow
	children  []*shadow
}

func newShadow(id, kind string) *shadow {
	return &shadow{
		id:        id,
		kind:      kind,
		attrs:     make(map[string]string),
		listeners: make(map[string][]any),
	}
}

func (n *shadow) indexOf(c *shadow) int {
	for i, x := range n.children {
		if x == c {
			return i
		}
	}
	return -1
}

func (n *shadow) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

func (n *shadow) events() []string {
	out := make([]string, 0, len(n.listeners))
	for k := range n.listeners {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
