package reconciler

import (
	"log/slog"
	"time"

	"github.com/vango-dev/minifiber/pkg/sched"
	"go.opentelemetry.io/otel/trace"
)

// DefaultLowWaterMark is the remaining-time threshold below which a slice
// yields.
const DefaultLowWaterMark = time.Millisecond

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver sets the pass observer.
func WithObserver(o Observer) Option {
	return func(r *Runtime) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithTracer sets the tracer used for slice and commit spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runtime) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithLowWaterMark sets the yield threshold.
func WithLowWaterMark(d time.Duration) Option {
	return func(r *Runtime) {
		if d >= 0 {
			r.lowWater = d
		}
	}
}

// WithScheduler sets the slice source used by Start.
func WithScheduler(s sched.Scheduler) Option {
	return func(r *Runtime) {
		if s != nil {
			r.scheduler = s
		}
	}
}

// WithErrorHandler sets the handler for errors returned by slices run
// through Start. Default: log at error level.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Runtime) {
		if fn != nil {
			r.onError = fn
		}
	}
}
