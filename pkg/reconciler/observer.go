package reconciler

import (
	"time"

	"github.com/vango-dev/minifiber/pkg/fiber"
)

// Trigger names what started a pass.
type Trigger string

const (
	TriggerRender Trigger = "render"
	TriggerUpdate Trigger = "update"
)

// CommitStats summarizes one commit.
type CommitStats struct {
	Fibers    int // Fibers in the committed tree, root included
	Created   int // Host nodes created and inserted
	Updated   int // Host nodes whose delta was non-empty
	Deleted   int // Host nodes removed
	Mutations int // Host primitive calls
}

// Observer receives pass lifecycle events. Calls happen on the goroutine
// driving the Runtime.
type Observer interface {
	PassStarted(trigger Trigger)
	PassAbandoned()
	UnitProcessed(f *fiber.Fiber)
	Yielded()
	Committed(stats CommitStats, elapsed time.Duration)
	Failed(code string)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) PassStarted(Trigger) {}
func (NopObserver) PassAbandoned() {}
func (NopObserver) UnitProcessed(*fiber.Fiber) {}
func (NopObserver) Yielded() {}
func (NopObserver) Committed(CommitStats, time.Duration) {}
func (NopObserver) Failed(string) {}

// Observers fans events out to several observers in order.
type Observers []Observer

func (o Observers) PassStarted(t Trigger) {
	for _, x := range o {
		x.PassStarted(t)
	}
}

func (o Observers) PassAbandoned() {
	for _, x := range o {
		x.PassAbandoned()
	}
}

func (o Observers) UnitProcessed(f *fiber.Fiber) {
	for _, x := range o {
		x.UnitProcessed(f)
	}
}

func (o Observers) Yielded() {
	for _, x := range o {
		x.Yielded()
	}
}

func (o Observers) Committed(s CommitStats, d time.Duration) {
	for _, x := range o {
		x.Committed(s, d)
	}
}

func (o Observers) Failed(code string) {
	for _, x := range o {
		x.Failed(code)
	}
}
