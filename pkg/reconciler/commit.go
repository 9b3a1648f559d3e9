package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vango-dev/minifiber/internal/errors"
	"github.com/vango-dev/minifiber/pkg/fiber"
	"github.com/vango-dev/minifiber/pkg/host"
	"go.opentelemetry.io/otel/attribute"
)

// commit applies the finished pass to the host tree in one walk and
// publishes it as the baseline.
func (r *Runtime) commit(ctx context.Context) error {
	start := time.Now()
	_, span := r.tracer.Start(ctx, "reconciler.commit")
	defer span.End()

	stats := CommitStats{}
	c := &committer{host: r.host, stats: &stats, detached: r.detached, logger: r.logger}

	for _, del := range r.deletions {
		if err := c.remove(del); err != nil {
			r.fail(err)
			return err
		}
	}

	if err := fiber.Walk(r.wip.Child, c.apply); err != nil {
		c.rollback()
		r.fail(err)
		return err
	}

	if fl, ok := r.host.(host.Flusher); ok {
		if err := fl.Flush(); err != nil {
			err = errors.New("E020").WithDetail("flush").Wrap(err)
			c.rollback()
			r.fail(err)
			return err
		}
	}

	for h := range r.detached {
		delete(r.detached, h)
	}

	root := r.wip
	stats.Fibers = root.Count()

	// Only the new baseline stays reachable.
	_ = fiber.Walk(root, func(f *fiber.Fiber) error {
		f.Alternate = nil
		f.Delta = nil
		return nil
	})

	r.current = root
	r.wip = nil
	r.next = nil
	r.deletions = nil
	r.state = StateDone

	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.Int("fibers", stats.Fibers),
		attribute.Int("created", stats.Created),
		attribute.Int("updated", stats.Updated),
		attribute.Int("deleted", stats.Deleted),
	)
	r.logger.Debug("commit",
		"trigger", r.trigger,
		"fibers", stats.Fibers,
		"created", stats.Created,
		"updated", stats.Updated,
		"deleted", stats.Deleted,
		"mutations", stats.Mutations,
		"elapsed", elapsed,
	)
	r.observer.Committed(stats, elapsed)
	return nil
}

// committer applies fiber effects to a host.
type committer struct {
	host     host.Host
	stats    *CommitStats
	logger   *slog.Logger
	detached map[host.Handle]struct{}
	inserted []placement
}

// placement is one node attached by the current commit.
type placement struct {
	parent, child host.Handle
	reused        bool
}

// hostError wraps a failed primitive in E020.
func hostError(op string, f *fiber.Fiber, err error) error {
	return errors.New("E020").WithDetailf("%s on %s", op, fiber.Label(f)).Wrap(err)
}

func (c *committer) attached(h host.Handle) bool {
	_, gone := c.detached[h]
	return !gone
}

// remove detaches the host nodes of a fiber that was not reused. Nodes a
// failed commit already detached are skipped.
func (c *committer) remove(del *fiber.Fiber) error {
	parent := fiber.HostParent(del)
	if parent == nil {
		return nil
	}
	for _, h := range fiber.HostNodes(del) {
		if !c.attached(h) {
			continue
		}
		if err := c.host.RemoveChild(parent.Handle, h); err != nil {
			return hostError("RemoveChild", del, err)
		}
		c.detached[h] = struct{}{}
		c.stats.Mutations++
		c.stats.Deleted++
	}
	return nil
}

// apply commits one fiber. Component fibers own no host node.
func (c *committer) apply(f *fiber.Fiber) error {
	if !f.IsHost() {
		return nil
	}
	switch f.Effect {
	case fiber.EffectCreate:
		return c.create(f)
	case fiber.EffectUpdate:
		if !c.attached(f.Handle) {
			return c.reattach(f)
		}
		if f.Delta == nil || f.Delta.Empty() {
			return nil
		}
		if err := c.applyDelta(f); err != nil {
			return err
		}
		c.stats.Updated++
	}
	return nil
}

func (c *committer) create(f *fiber.Fiber) error {
	h, err := c.host.CreateNode(f.Kind.Tag())
	if err != nil {
		return hostError("CreateNode", f, err)
	}
	c.stats.Mutations++
	f.Handle = h

	if err := c.applyDelta(f); err != nil {
		return err
	}
	if err := c.place(f, false); err != nil {
		return err
	}
	c.stats.Created++
	return nil
}

// reattach puts back a reused node that a failed commit removed.
func (c *committer) reattach(f *fiber.Fiber) error {
	if err := c.applyDelta(f); err != nil {
		return err
	}
	if err := c.place(f, true); err != nil {
		return err
	}
	delete(c.detached, f.Handle)
	c.stats.Updated++
	return nil
}

// place attaches f's node before its next attached host sibling.
func (c *committer) place(f *fiber.Fiber, reused bool) error {
	parent := fiber.HostParent(f)
	if parent == nil {
		return hostError("AppendChild", f, fmt.Errorf("no host parent"))
	}
	var err error
	if ref := fiber.MountedHostSiblingFunc(f, c.attached); ref != nil {
		err = c.host.InsertBefore(parent.Handle, f.Handle, ref)
	} else {
		err = c.host.AppendChild(parent.Handle, f.Handle)
	}
	if err != nil {
		return hostError("insert", f, err)
	}
	c.inserted = append(c.inserted, placement{parent: parent.Handle, child: f.Handle, reused: reused})
	c.stats.Mutations++
	return nil
}

// rollback detaches every node this commit attached, newest first, so the
// host tree again matches the baseline apart from nodes already removed.
func (c *committer) rollback() {
	for i := len(c.inserted) - 1; i >= 0; i-- {
		p := c.inserted[i]
		if err := c.host.RemoveChild(p.parent, p.child); err != nil {
			c.logger.Debug("rollback", "error", err)
			continue
		}
		if p.reused {
			c.detached[p.child] = struct{}{}
		}
	}
	c.inserted = nil
}

// applyDelta applies unbinds, removals, sets and binds in that order.
func (c *committer) applyDelta(f *fiber.Fiber) error {
	d := f.Delta
	if d == nil {
		return nil
	}
	h := f.Handle
	for _, b := range d.Unbind {
		if err := c.host.RemoveListener(h, b.Event, b.Fn); err != nil {
			return hostError("RemoveListener", f, err)
		}
		c.stats.Mutations++
	}
	for _, key := range d.Remove {
		if err := c.host.RemoveAttribute(h, key); err != nil {
			return hostError("RemoveAttribute", f, err)
		}
		c.stats.Mutations++
	}
	for _, a := range d.Set {
		if err := c.host.SetAttribute(h, a.Key, a.Value); err != nil {
			return hostError("SetAttribute", f, err)
		}
		c.stats.Mutations++
	}
	for _, b := range d.Bind {
		if err := c.host.AddListener(h, b.Event, b.Fn); err != nil {
			return hostError("AddListener", f, err)
		}
		c.stats.Mutations++
	}
	return nil
}
