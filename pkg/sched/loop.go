package sched

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrLoopClosed is returned by Submit once the loop has stopped.
	ErrLoopClosed = errors.New("sched: loop is closed")

	// ErrLoopRunning is returned when Run is called twice.
	ErrLoopRunning = errors.New("sched: loop is already running")
)

const (
	// DefaultSliceBudget is the length of one idle slice.
	DefaultSliceBudget = 16 * time.Millisecond

	// DefaultIdleInterval is the pause between two idle slices when no
	// task arrives in between.
	DefaultIdleInterval = 4 * time.Millisecond
)

// LoopConfig configures a Loop.
type LoopConfig struct {
	// SliceBudget is the deadline handed to each idle callback.
	SliceBudget time.Duration

	// IdleInterval is the minimum gap between idle slices unless a task
	// was processed in between.
	IdleInterval time.Duration

	// Logger receives task panics. Default: slog.Default().
	Logger *slog.Logger
}

// Loop is a single-goroutine Scheduler. Tasks submitted from any goroutine
// run on the loop goroutine in submission order and always before the next
// idle slice, so everything the loop runs is serialized.
type Loop struct {
	config LoopConfig
	logger *slog.Logger

	mu     sync.Mutex
	tasks  []func()
	idle   func(Deadline)
	closed bool

	wake    chan struct{}
	running atomic.Bool
	done    chan struct{}
}

// NewLoop creates a Loop. Zero config fields take their defaults.
func NewLoop(config LoopConfig) *Loop {
	if config.SliceBudget <= 0 {
		config.SliceBudget = DefaultSliceBudget
	}
	if config.IdleInterval <= 0 {
		config.IdleInterval = DefaultIdleInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		config: config,
		logger: logger.With("component", "sched"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// RequestIdleSlice implements Scheduler.
func (l *Loop) RequestIdleSlice(cb func(Deadline)) {
	l.mu.Lock()
	l.idle = cb
	l.mu.Unlock()
}

// Submit queues fn to run on the loop goroutine.
func (l *Loop) Submit(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	l.Wake()
	return nil
}

// Call runs fn on the loop goroutine and waits for its result.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if err := l.Submit(func() { result <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}
}

// Wake interrupts an idle wait.
func (l *Loop) Wake() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run processes tasks and idle slices until ctx is done. It blocks.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer close(l.done)
	defer l.close()

	var lastIdle time.Time
	worked := true

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if tasks := l.drainTasks(); len(tasks) > 0 {
			for _, task := range tasks {
				l.safeExecute(task)
			}
			worked = true
			continue
		}

		if worked || time.Since(lastIdle) >= l.config.IdleInterval {
			if cb := l.takeIdle(); cb != nil {
				worked = false
				l.safeExecuteIdle(cb, Until(time.Now().Add(l.config.SliceBudget)))
				lastIdle = time.Now()
				continue
			}
		}

		wait := l.config.IdleInterval - time.Since(lastIdle)
		if wait <= 0 {
			wait = l.config.IdleInterval
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-l.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (l *Loop) close() {
	l.mu.Lock()
	l.closed = true
	l.tasks = nil
	l.idle = nil
	l.mu.Unlock()
}

func (l *Loop) drainTasks() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	tasks := l.tasks
	l.tasks = nil
	return tasks
}

func (l *Loop) takeIdle() func(Deadline) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cb := l.idle
	l.idle = nil
	return cb
}

// safeExecute runs a task, logging panics instead of killing the loop.
func (l *Loop) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (l *Loop) safeExecuteIdle(cb func(Deadline), d Deadline) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("idle slice panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	cb(d)
}
