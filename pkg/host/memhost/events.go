package memhost

import (
	"fmt"
)

// Event is passed to listeners that accept one.
type Event struct {
	Type    string
	Target  *Node
	Payload string
}

// Dispatch invokes every listener bound to event on n, in binding order.
// Listeners may be func(), func(Event) or func(string). It returns the
// number of listeners called.
//
// Listeners run without the host lock, so they may trigger renders that
// mutate this host.
func (h *Host) Dispatch(n *Node, event, payload string) (int, error) {
	h.mu.Lock()
	fns := append([]any(nil), n.Listeners[event]...)
	h.mu.Unlock()

	for _, fn := range fns {
		switch f := fn.(type) {
		case func():
			f()
		case func(Event):
			f(Event{Type: event, Target: n, Payload: payload})
		case func(string):
			f(payload)
		default:
			return 0, fmt.Errorf("memhost: unsupported listener type %T for %q", fn, event)
		}
	}
	return len(fns), nil
}
