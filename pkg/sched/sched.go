package sched

import (
	"math"
	"sync"
	"time"
)

// Deadline reports the time left in the current slice.
type Deadline interface {
	TimeRemaining() time.Duration
}

// Scheduler hands out idle slices.
type Scheduler interface {
	// RequestIdleSlice schedules cb to run once in a future idle slice.
	// A later request replaces a pending one.
	RequestIdleSlice(cb func(Deadline))
}

// DeadlineFunc adapts a function to Deadline.
type DeadlineFunc func() time.Duration

// TimeRemaining implements Deadline.
func (f DeadlineFunc) TimeRemaining() time.Duration { return f() }

// Unbounded returns a deadline that never runs out.
func Unbounded() Deadline {
	return DeadlineFunc(func() time.Duration { return time.Duration(math.MaxInt64) })
}

// Expired returns a deadline with no time left.
func Expired() Deadline {
	return DeadlineFunc(func() time.Duration { return 0 })
}

// Until returns a wall-clock deadline ending at t.
func Until(t time.Time) Deadline {
	return DeadlineFunc(func() time.Duration {
		if d := time.Until(t); d > 0 {
			return d
		}
		return 0
	})
}

// StepDeadline grants a fixed number of checks. The first n-1 calls to
// TimeRemaining report an hour left; every later call reports zero. A
// reconciler that checks once per processed fiber therefore processes
// exactly n fibers in the slice.
type StepDeadline struct {
	mu     sync.Mutex
	limit  int
	checks int
}

// Steps returns a StepDeadline allowing n units of work.
func Steps(n int) *StepDeadline {
	return &StepDeadline{limit: n}
}

// TimeRemaining implements Deadline.
func (s *StepDeadline) TimeRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks++
	if s.checks < s.limit {
		return time.Hour
	}
	return 0
}

// Checks returns how many times TimeRemaining was called.
func (s *StepDeadline) Checks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checks
}

// Manual is a Scheduler driven explicitly by its owner.
type Manual struct {
	mu      sync.Mutex
	pending func(Deadline)
	slices  int
}

// NewManual creates a Manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// RequestIdleSlice implements Scheduler.
func (m *Manual) RequestIdleSlice(cb func(Deadline)) {
	m.mu.Lock()
	m.pending = cb
	m.mu.Unlock()
}

// RunSlice runs the pending callback with d. It returns false when no
// slice was requested. A request made by the callback itself is kept for
// the next RunSlice.
func (m *Manual) RunSlice(d Deadline) bool {
	m.mu.Lock()
	cb := m.pending
	m.pending = nil
	m.mu.Unlock()

	if cb == nil {
		return false
	}
	cb(d)

	m.mu.Lock()
	m.slices++
	m.mu.Unlock()
	return true
}

// Pending reports whether a slice has been requested.
func (m *Manual) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Slices returns the number of slices run so far.
func (m *Manual) Slices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slices
}
