// Package metrics exposes reconciler activity to Prometheus and
// OpenTelemetry.
//
// Collector implements reconciler.Observer, so wiring it is one option:
//
//	c := metrics.New(metrics.WithRegistry(reg))
//	rt := reconciler.New(h, reconciler.WithObserver(c), reconciler.WithTracer(metrics.Tracer("app")))
//
// Metrics collected:
//   - minifiber_passes_total: passes started, by trigger
//   - minifiber_passes_abandoned_total: passes replaced before commit
//   - minifiber_fibers_processed_total: fibers visited by the work loop
//   - minifiber_yields_total: slices that ran out of time
//   - minifiber_commits_total: successful commits
//   - minifiber_commit_duration_seconds: commit duration
//   - minifiber_mutations_total: host nodes touched, by effect
//   - minifiber_errors_total: failed passes, by error code
//   - minifiber_patches_sent_total: wire patches sent to peers
//   - minifiber_events_total: inbound events, by status
//   - minifiber_active_clients: connected websocket peers
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/minifiber/pkg/fiber"
	"github.com/vango-dev/minifiber/pkg/reconciler"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "minifiber").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the commit duration histogram buckets.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the registerer metrics are created on.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registerer.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "minifiber",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records reconciler and transport metrics.
type Collector struct {
	passesTotal     *prometheus.CounterVec
	passesAbandoned prometheus.Counter
	fibersProcessed prometheus.Counter
	yieldsTotal     prometheus.Counter
	commitsTotal    prometheus.Counter
	commitDuration  prometheus.Histogram
	mutationsTotal  *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	patchesSent     prometheus.Counter
	eventsTotal     *prometheus.CounterVec
	activeClients   prometheus.Gauge
}

var _ reconciler.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	if len(config.Buckets) == 0 {
		config.Buckets = prometheus.DefBuckets
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Collector{
		passesTotal:     counterVec("passes_total", "Render passes started", "trigger"),
		passesAbandoned: counter("passes_abandoned_total", "Render passes replaced before commit"),
		fibersProcessed: counter("fibers_processed_total", "Fibers visited by the work loop"),
		yieldsTotal:     counter("yields_total", "Slices that yielded with work left"),
		commitsTotal:    counter("commits_total", "Successful commits"),
		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Commit duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		mutationsTotal: counterVec("mutations_total", "Host nodes touched by commits", "effect"),
		errorsTotal:    counterVec("errors_total", "Failed render passes", "code"),
		patchesSent:    counter("patches_sent_total", "Wire patches sent to peers"),
		eventsTotal:    counterVec("events_total", "Inbound events", "status"),
		activeClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_clients",
			Help:        "Connected websocket peers",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// PassStarted implements reconciler.Observer.
func (c *Collector) PassStarted(trigger reconciler.Trigger) {
	c.passesTotal.WithLabelValues(string(trigger)).Inc()
}

// PassAbandoned implements reconciler.Observer.
func (c *Collector) PassAbandoned() {
	c.passesAbandoned.Inc()
}

// UnitProcessed implements reconciler.Observer.
func (c *Collector) UnitProcessed(*fiber.Fiber) {
	c.fibersProcessed.Inc()
}

// Yielded implements reconciler.Observer.
func (c *Collector) Yielded() {
	c.yieldsTotal.Inc()
}

// Committed implements reconciler.Observer.
func (c *Collector) Committed(stats reconciler.CommitStats, elapsed time.Duration) {
	c.commitsTotal.Inc()
	c.commitDuration.Observe(elapsed.Seconds())
	c.mutationsTotal.WithLabelValues("create").Add(float64(stats.Created))
	c.mutationsTotal.WithLabelValues("update").Add(float64(stats.Updated))
	c.mutationsTotal.WithLabelValues("delete").Add(float64(stats.Deleted))
}

// Failed implements reconciler.Observer.
func (c *Collector) Failed(code string) {
	if code == "" {
		code = "unknown"
	}
	c.errorsTotal.WithLabelValues(code).Inc()
}

// RecordPatches counts patches sent to peers.
func (c *Collector) RecordPatches(n int) {
	c.patchesSent.Add(float64(n))
}

// RecordEvent counts an inbound event by status ("ok" or "error").
func (c *Collector) RecordEvent(status string) {
	c.eventsTotal.WithLabelValues(status).Inc()
}

// ClientConnected increments the active client gauge.
func (c *Collector) ClientConnected() {
	c.activeClients.Inc()
}

// ClientDisconnected decrements the active client gauge.
func (c *Collector) ClientDisconnected() {
	c.activeClients.Dec()
}

// Tracer returns the named tracer from the global OpenTelemetry provider.
// Without a configured provider spans are no-ops.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
