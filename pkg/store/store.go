// Package store holds application state outside the reconciler.
//
// Components read cells during evaluation; event handlers write them. Every
// write asks the bound Updater (usually a reconciler.Runtime or Root) for a
// full re-render. Batch collapses several writes into one update.
//
//	s := store.New(root)
//	count := store.NewCell(s, 0)
//	onClick := func() { count.Update(func(n int) int { return n + 1 }) }
package store

import (
	"sync"
)

// Updater re-renders the tree.
type Updater interface {
	Update() error
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func() error

// Update implements Updater.
func (f UpdaterFunc) Update() error { return f() }

// Store binds cells to an Updater.
type Store struct {
	mu         sync.Mutex
	updater    Updater
	batchDepth int
	dirty      bool
	writes     uint64
}

// New creates a Store. u may be nil and bound later with Bind.
func New(u Updater) *Store {
	return &Store{updater: u}
}

// Bind sets the updater.
func (s *Store) Bind(u Updater) {
	s.mu.Lock()
	s.updater = u
	s.mu.Unlock()
}

// Writes returns the number of cell writes so far.
func (s *Store) Writes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// notify requests an update, or defers it to the end of the current batch.
func (s *Store) notify() error {
	s.mu.Lock()
	s.writes++
	if s.batchDepth > 0 {
		s.dirty = true
		s.mu.Unlock()
		return nil
	}
	u := s.updater
	s.mu.Unlock()

	if u == nil {
		return nil
	}
	return u.Update()
}

// Batch runs fn and triggers at most one update for all writes made in it.
// Batches nest; the update fires when the outermost batch completes.
func (s *Store) Batch(fn func()) (err error) {
	s.mu.Lock()
	s.batchDepth++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.batchDepth--
		flush := s.batchDepth == 0 && s.dirty
		if flush {
			s.dirty = false
		}
		u := s.updater
		s.mu.Unlock()

		if flush && u != nil && err == nil {
			err = u.Update()
		}
	}()

	fn()
	return nil
}

// Cell is one piece of state.
type Cell[T any] struct {
	store *Store
	mu    sync.RWMutex
	value T
}

// NewCell creates a cell in s holding initial.
func NewCell[T any](s *Store, initial T) *Cell[T] {
	return &Cell[T]{store: s, value: initial}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set stores v and requests an update.
func (c *Cell[T]) Set(v T) error {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
	return c.store.notify()
}

// Update replaces the value with fn(current) and requests an update.
func (c *Cell[T]) Update(fn func(T) T) error {
	c.mu.Lock()
	c.value = fn(c.value)
	c.mu.Unlock()
	return c.store.notify()
}
