package reconciler

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/minifiber/internal/errors"
	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/vango-dev/minifiber/pkg/fiber"
	"github.com/vango-dev/minifiber/pkg/host"
	"github.com/vango-dev/minifiber/pkg/sched"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/minifiber/pkg/reconciler"

// State is the lifecycle state of a Runtime.
type State uint8

const (
	StateIdle          State = iota // No pass has been started
	StateRunning                    // A pass has fibers left to process
	StateCommitPending              // All fibers processed, commit not yet applied
	StateDone                       // Last pass committed or abandoned by a commit failure
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCommitPending:
		return "commit-pending"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Runtime is the incremental reconciler.
type Runtime struct {
	host      host.Host
	logger    *slog.Logger
	observer  Observer
	tracer    trace.Tracer
	lowWater  time.Duration
	scheduler sched.Scheduler
	onError   func(error)

	next      *fiber.Fiber
	wip       *fiber.Fiber
	current   *fiber.Fiber
	deletions []*fiber.Fiber
	state     State
	trigger   Trigger

	// rendering counts component functions currently executing.
	rendering int

	// detached holds handles removed from the host by a commit that later
	// failed. The baseline still references them.
	detached map[host.Handle]struct{}
}

// New creates a Runtime that mutates h.
func New(h host.Host, opts ...Option) *Runtime {
	r := &Runtime{
		host:      h,
		logger:    slog.Default(),
		observer:  NopObserver{},
		tracer:    otel.Tracer(tracerName),
		lowWater:  DefaultLowWaterMark,
		scheduler: sched.NewManual(),
		detached:  make(map[host.Handle]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "reconciler")
	if r.onError == nil {
		r.onError = func(err error) {
			r.logger.Error("render pass failed", "error", err)
		}
	}
	return r
}

// Host returns the host the runtime mutates.
func (r *Runtime) Host() host.Host { return r.host }

// Scheduler returns the slice source used by Start.
func (r *Runtime) Scheduler() sched.Scheduler { return r.scheduler }

// Current returns the last committed tree, or nil before the first commit.
func (r *Runtime) Current() *fiber.Fiber { return r.current }

// State returns the lifecycle state.
func (r *Runtime) State() State { return r.state }

// Pending reports whether a pass is in flight.
func (r *Runtime) Pending() bool { return r.wip != nil }

// Render starts a pass that renders tree into container.
//
// When container is the baseline's container the baseline is the pass's
// alternate, so unchanged positions reuse their host nodes. A different
// container is rendered from scratch.
func (r *Runtime) Render(tree *element.Node, container host.Handle) error {
	if r.rendering > 0 {
		return errors.New("E011").WithDetail("Render")
	}
	if container == nil {
		return errors.New("E013")
	}
	if tree == nil {
		return errors.New("E014")
	}

	var alternate *fiber.Fiber
	if r.current != nil && r.current.Handle == container {
		alternate = r.current
	}
	r.begin(TriggerRender, fiber.NewRoot(container, []*element.Node{tree}, alternate))
	return nil
}

// Update starts a pass that re-renders the baseline's tree from its root.
// Component functions are re-evaluated against whatever state they read.
func (r *Runtime) Update() error {
	if r.rendering > 0 {
		return errors.New("E011").WithDetail("Update")
	}
	if r.current == nil {
		return errors.New("E012")
	}
	r.begin(TriggerUpdate, fiber.NewRoot(r.current.Handle, r.current.Children, r.current))
	return nil
}

func (r *Runtime) begin(trigger Trigger, root *fiber.Fiber) {
	if r.wip != nil {
		r.logger.Debug("abandoning unfinished pass", "trigger", r.trigger)
		r.observer.PassAbandoned()
	}
	r.wip = root
	r.next = root
	r.deletions = nil
	r.trigger = trigger
	r.state = StateRunning
	r.observer.PassStarted(trigger)
}

// Work runs one slice of the current pass. It processes at least one fiber,
// then keeps going while d reports at least the low-water mark remaining.
// When the last fiber is processed the commit runs before Work returns.
//
// A panic during the slice drops the pass and is returned as E015.
func (r *Runtime) Work(ctx context.Context, d sched.Deadline) (err error) {
	if r.wip == nil {
		return nil
	}

	ctx, span := r.tracer.Start(ctx, "reconciler.slice",
		trace.WithAttributes(attribute.String("trigger", string(r.trigger))))
	defer span.End()

	defer func() {
		if p := recover(); p != nil {
			err = errors.New("E015").WithDetailf("%v", p)
			r.fail(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	processed := 0
	for r.next != nil {
		next, err := r.performUnit(r.next)
		if err != nil {
			r.fail(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		processed++
		r.next = next

		if r.next != nil && d.TimeRemaining() < r.lowWater {
			r.observer.Yielded()
			break
		}
	}
	span.SetAttributes(attribute.Int("fibers", processed))

	if r.next != nil {
		return nil
	}

	r.state = StateCommitPending
	if err := r.commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Flush drives the current pass to completion.
func (r *Runtime) Flush(ctx context.Context) error {
	for r.wip != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Work(ctx, sched.Unbounded()); err != nil {
			return err
		}
	}
	return nil
}

// Start requests idle slices from the scheduler until ctx is done. Each
// slice runs Work and requests the next slice before returning.
func (r *Runtime) Start(ctx context.Context) {
	var slice func(sched.Deadline)
	slice = func(d sched.Deadline) {
		if ctx.Err() != nil {
			return
		}
		defer r.scheduler.RequestIdleSlice(slice)
		if err := r.Work(ctx, d); err != nil {
			r.onError(err)
		}
	}
	r.scheduler.RequestIdleSlice(slice)
}

// performUnit processes f and returns the fiber to visit next.
func (r *Runtime) performUnit(f *fiber.Fiber) (*fiber.Fiber, error) {
	if f.IsComponent() {
		out, err := r.evaluate(f)
		if err != nil {
			return nil, err
		}
		r.deletions = append(r.deletions, fiber.Reconcile(f, []*element.Node{out})...)
	} else {
		switch f.Effect {
		case fiber.EffectCreate:
			f.Delta = fiber.CreateDelta(f.Attrs)
		case fiber.EffectUpdate:
			f.Delta = fiber.DiffAttrs(f.Alternate.Attrs, f.Attrs)
		}
		r.deletions = append(r.deletions, fiber.Reconcile(f, f.Children)...)
	}

	r.observer.UnitProcessed(f)
	return fiber.Next(f), nil
}

// evaluate calls a component function with reentrancy protection.
func (r *Runtime) evaluate(f *fiber.Fiber) (*element.Node, error) {
	fn := f.Kind.Component()
	r.rendering++
	defer func() { r.rendering-- }()

	out := fn(f.Props())
	if out == nil {
		return nil, errors.New("E010").WithDetailf("%s returned nil", f.Kind)
	}
	return out, nil
}

// fail abandons the pass. The baseline is left untouched.
func (r *Runtime) fail(err error) {
	code := errors.Code(err)
	r.logger.Error("pass abandoned", "trigger", r.trigger, "code", code, "error", err)
	r.observer.Failed(code)
	r.next = nil
	r.wip = nil
	r.deletions = nil
	r.state = StateDone
}
