package reconciler

import (
	"context"

	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/vango-dev/minifiber/pkg/host"
)

// Root binds a runtime to one host container.
type Root struct {
	rt        *Runtime
	container host.Handle
}

// NewRoot returns a Root rendering into container.
func NewRoot(rt *Runtime, container host.Handle) *Root {
	return &Root{rt: rt, container: container}
}

// Runtime returns the runtime behind the root.
func (r *Root) Runtime() *Runtime { return r.rt }

// Container returns the host container.
func (r *Root) Container() host.Handle { return r.container }

// Render starts a pass rendering tree into the container.
func (r *Root) Render(tree *element.Node) error {
	return r.rt.Render(tree, r.container)
}

// Update re-renders the committed tree. It satisfies store.Updater.
func (r *Root) Update() error {
	return r.rt.Update()
}

// RenderSync renders tree and drives the pass to completion.
func (r *Root) RenderSync(ctx context.Context, tree *element.Node) error {
	if err := r.Render(tree); err != nil {
		return err
	}
	return r.rt.Flush(ctx)
}
