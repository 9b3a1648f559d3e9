package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/vango-dev/minifiber/pkg/host/memhost"
	"github.com/vango-dev/minifiber/pkg/reconciler"
	"github.com/vango-dev/minifiber/pkg/sched"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestCollectorObservesPasses(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()))
	rt := reconciler.New(memhost.New(), reconciler.WithObserver(c), reconciler.WithTracer(Tracer("test")))
	container := memhost.NewContainer("div")
	ctx := context.Background()

	tree := element.El("ul", nil, element.El("li", nil, "a"), element.El("li", nil, "b"))
	_ = rt.Render(tree, container)
	_ = rt.Work(ctx, sched.Steps(2))
	if err := rt.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	_ = rt.Render(element.El("ul", nil, element.El("li", nil, "a")), container)
	if err := rt.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	if got := counterValue(t, c.passesTotal.WithLabelValues("render")); got != 2 {
		t.Errorf("passes_total{render} = %v, want 2", got)
	}
	if got := counterValue(t, c.commitsTotal); got != 2 {
		t.Errorf("commits_total = %v, want 2", got)
	}
	if got := counterValue(t, c.yieldsTotal); got != 1 {
		t.Errorf("yields_total = %v, want 1", got)
	}
	// root, ul, li, text, li, text, then root, ul, li, text
	if got := counterValue(t, c.fibersProcessed); got != 10 {
		t.Errorf("fibers_processed_total = %v, want 10", got)
	}
	if got := counterValue(t, c.mutationsTotal.WithLabelValues("create")); got != 5 {
		t.Errorf("mutations_total{create} = %v, want 5", got)
	}
	if got := counterValue(t, c.mutationsTotal.WithLabelValues("delete")); got != 1 {
		t.Errorf("mutations_total{delete} = %v, want 1", got)
	}
	if got := histogramCount(t, c.commitDuration); got != 2 {
		t.Errorf("commit_duration_seconds count = %v, want 2", got)
	}
}

func TestCollectorCountsFailuresAndAbandons(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
	c.PassAbandoned()
	c.Failed("E020")
	c.Failed("")

	if got := counterValue(t, c.passesAbandoned); got != 1 {
		t.Errorf("passes_abandoned_total = %v, want 1", got)
	}
	if got := counterValue(t, c.errorsTotal.WithLabelValues("E020")); got != 1 {
		t.Errorf("errors_total{E020} = %v, want 1", got)
	}
	if got := counterValue(t, c.errorsTotal.WithLabelValues("unknown")); got != 1 {
		t.Errorf("errors_total{unknown} = %v, want 1", got)
	}
}

func TestTransportMetrics(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()))
	c.RecordPatches(12)
	c.RecordEvent("ok")
	c.ClientConnected()
	c.ClientConnected()
	c.ClientDisconnected()

	if got := counterValue(t, c.patchesSent); got != 12 {
		t.Errorf("patches_sent_total = %v, want 12", got)
	}
	if got := counterValue(t, c.eventsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("events_total{ok} = %v, want 1", got)
	}
	if got := gaugeValue(t, c.activeClients); got != 1 {
		t.Errorf("active_clients = %v, want 1", got)
	}
}
