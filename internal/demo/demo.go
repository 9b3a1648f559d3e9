// Package demo contains small applications used by the CLI and the dev server.
//
// Each application keeps its state in a store.Store and exposes the id
// attributes of its buttons so drivers can click them without knowing
// the tree layout.
package demo

import (
	"sort"
	"sync"

	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/vango-dev/minifiber/pkg/store"
)

// App is a demo application.
type App interface {
	// Name identifies the app in the registry.
	Name() string

	// Element returns the root element to render.
	Element() *element.Node

	// Bind connects the app state to the updater driving re-renders.
	Bind(u store.Updater)

	// Buttons returns the id attributes of the clickable elements.
	Buttons() []string

	// Err returns the last error raised by an event handler.
	Err() error
}

// Factory creates a fresh app instance.
type Factory func() App

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"counters": func() App { return NewCounters() },
		"toggle":   func() App { return NewToggle() },
		"swap":     func() App { return NewSwap() },
	}
)

// Register adds or replaces an app factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	registry[name] = f
	registryMu.Unlock()
}

// Lookup creates the app registered under name.
func Lookup(name string) (App, bool) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names returns the registered app names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// base carries the store and the handler error shared by all apps.
type base struct {
	store *store.Store
	mu    sync.Mutex
	err   error
}

func (b *base) Bind(u store.Updater) { b.store.Bind(u) }

func (b *base) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *base) report(err error) {
	if err == nil {
		return
	}
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
}
