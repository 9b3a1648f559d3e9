package vtest

import (
	"context"
	"fmt"
	"strings"

	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/vango-dev/minifiber/pkg/host/memhost"
	"github.com/vango-dev/minifiber/pkg/reconciler"
)

// Harness renders trees into a memhost container.
type Harness struct {
	host      *memhost.Host
	container *memhost.Node
	root      *reconciler.Root
}

// New creates a harness. Options are passed to the runtime.
func New(opts ...reconciler.Option) *Harness {
	return NewWithHost(memhost.New(), opts...)
}

// NewWithHost creates a harness over an existing host.
func NewWithHost(h *memhost.Host, opts ...reconciler.Option) *Harness {
	container := memhost.NewContainer("root")
	rt := reconciler.New(h, opts...)
	return &Harness{
		host:      h,
		container: container,
		root:      reconciler.NewRoot(rt, container),
	}
}

// Host returns the in-memory host.
func (h *Harness) Host() *memhost.Host { return h.host }

// Container returns the container node.
func (h *Harness) Container() *memhost.Node { return h.container }

// Root returns the reconciler root. It satisfies store.Updater.
func (h *Harness) Root() *reconciler.Root { return h.root }

// Runtime returns the runtime behind the root.
func (h *Harness) Runtime() *reconciler.Runtime { return h.root.Runtime() }

// Mount renders tree and drives the pass to completion.
func (h *Harness) Mount(ctx context.Context, tree *element.Node) error {
	return h.root.RenderSync(ctx, tree)
}

// Settle completes any pass started since the last commit.
func (h *Harness) Settle(ctx context.Context) error {
	if !h.Runtime().Pending() {
		return nil
	}
	return h.Runtime().Flush(ctx)
}

// Find returns the node whose id attribute is id, or nil.
func (h *Harness) Find(id string) *memhost.Node {
	return h.container.Find(memhost.ByAttr("id", id))
}

// Fire dispatches event to the node with the given id and settles the
// pass the listeners started.
func (h *Harness) Fire(ctx context.Context, id, event, payload string) error {
	n := h.Find(id)
	if n == nil {
		return fmt.Errorf("vtest: no node with id %q", id)
	}
	called, err := h.host.Dispatch(n, event, payload)
	if err != nil {
		return err
	}
	if called == 0 {
		return fmt.Errorf("vtest: node %q has no %s listener", id, event)
	}
	return h.Settle(ctx)
}

// Click fires a click on the node with the given id.
func (h *Harness) Click(ctx context.Context, id string) error {
	return h.Fire(ctx, id, "click", "")
}

// HTML returns the container's inner HTML.
func (h *Harness) HTML() string {
	return memhost.InnerHTML(h.container)
}

// PrettyHTML returns the indented HTML of the container's children.
func (h *Harness) PrettyHTML() string {
	var b strings.Builder
	for _, child := range h.container.Children {
		b.WriteString(memhost.HTMLWith(child, memhost.HTMLOptions{Pretty: true}))
	}
	return b.String()
}
