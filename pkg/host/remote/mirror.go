package remote

import (
	"fmt"
	"sync"

	"github.com/vango-dev/minifiber/internal/errors"
	"github.com/vango-dev/minifiber/pkg/host"
	"github.com/vango-dev/minifiber/pkg/wire"
)

// Mirror replays patches frames onto a local host.
//
// Listeners bound by the replay forward to OnEvent, so interactions with
// the mirrored tree can be reported back to the Host that owns the real
// listeners.
type Mirror struct {
	target host.Host

	// OnEvent receives events fired on mirrored listeners.
	OnEvent func(ev *wire.Event)

	mu      sync.Mutex
	nodes   map[string]host.Handle
	ids     map[host.Handle]string
	lastSeq uint64
	seq     uint64
}

// NewMirror creates a Mirror that builds under container on target.
func NewMirror(target host.Host, container host.Handle) *Mirror {
	return &Mirror{
		target: target,
		nodes:  map[string]host.Handle{RootID: container},
		ids:    map[host.Handle]string{container: RootID},
	}
}

// Handle returns the local handle of a remote node ID.
func (m *Mirror) Handle(id string) (host.Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.nodes[id]
	return h, ok
}

// ID returns the remote node ID of a local handle.
func (m *Mirror) ID(h host.Handle) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[h]
	return id, ok
}

// LastSeq returns the sequence number of the last applied live frame.
func (m *Mirror) LastSeq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSeq
}

// HandleFrame decodes and applies a patches frame.
//
// Live frames must arrive in sequence: a frame at or below the last
// applied sequence number is ignored, a gap is an error. Snapshot frames
// are applied unconditionally and move the sequence to just before their
// first frame.
func (m *Mirror) HandleFrame(f *wire.Frame) error {
	if f.Type != wire.FramePatches {
		return errors.New("E040").WithDetailf("unexpected %s frame", f.Type)
	}
	pf, err := wire.DecodePatches(f.Payload)
	if err != nil {
		return errors.New("E040").Wrap(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if f.Flags.Has(wire.FlagSnapshot) {
		if pf.Seq > 0 && m.lastSeq < pf.Seq-1 {
			m.lastSeq = pf.Seq - 1
		}
		return m.apply(pf.Patches)
	}

	switch {
	case pf.Seq <= m.lastSeq:
		return nil
	case pf.Seq != m.lastSeq+1 && m.lastSeq != 0:
		return errors.New("E043").WithDetailf("have %d, got %d", m.lastSeq, pf.Seq)
	}
	if err := m.apply(pf.Patches); err != nil {
		return err
	}
	m.lastSeq = pf.Seq
	return nil
}

// Apply replays patches without sequence checks.
func (m *Mirror) Apply(patches []wire.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apply(patches)
}

func (m *Mirror) apply(patches []wire.Patch) error {
	for i := range patches {
		if err := m.applyOne(&patches[i]); err != nil {
			return fmt.Errorf("patch %d (%s): %w", i, patches[i], err)
		}
	}
	return nil
}

func (m *Mirror) node(id string) (host.Handle, error) {
	h, ok := m.nodes[id]
	if !ok {
		return nil, errors.New("E041").WithDetail(id)
	}
	return h, nil
}

func (m *Mirror) applyOne(p *wire.Patch) error {
	if p.Op == wire.OpCreateNode {
		h, err := m.target.CreateNode(p.Value)
		if err != nil {
			return err
		}
		m.nodes[p.ID] = h
		m.ids[h] = p.ID
		return nil
	}

	h, err := m.node(p.ID)
	if err != nil {
		return err
	}

	switch p.Op {
	case wire.OpSetAttr:
		return m.target.SetAttribute(h, p.Key, p.Value)
	case wire.OpRemoveAttr:
		return m.target.RemoveAttribute(h, p.Key)
	case wire.OpAddListener:
		return m.target.AddListener(h, p.Key, m.forward(p.ID, p.Key))
	case wire.OpRemoveListener:
		return m.target.RemoveListener(h, p.Key, nil)
	case wire.OpAppendChild:
		parent, err := m.node(p.Parent)
		if err != nil {
			return err
		}
		return m.target.AppendChild(parent, h)
	case wire.OpInsertBefore:
		parent, err := m.node(p.Parent)
		if err != nil {
			return err
		}
		ref, err := m.node(p.Ref)
		if err != nil {
			return err
		}
		return m.target.InsertBefore(parent, h, ref)
	case wire.OpRemoveChild:
		parent, err := m.node(p.Parent)
		if err != nil {
			return err
		}
		if err := m.target.RemoveChild(parent, h); err != nil {
			return err
		}
		delete(m.nodes, p.ID)
		delete(m.ids, h)
		return nil
	default:
		return errors.New("E040").WithDetailf("op %s", p.Op)
	}
}

// forward returns a listener reporting to OnEvent.
func (m *Mirror) forward(id, event string) func(string) {
	return func(payload string) {
		if m.OnEvent != nil {
			m.OnEvent(&wire.Event{Target: id, Name: event, Payload: payload})
		}
	}
}
