package demo

import (
	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/vango-dev/minifiber/pkg/store"
)

// Counters renders a root counter and two nested counter components.
// Every click re-renders the whole tree.
type Counters struct {
	base
	Root *store.Cell[int]
	Foo  *store.Cell[int]
	Bar  *store.Cell[int]

	renders map[string]int
}

// NewCounters returns the counters app with every count at 1.
func NewCounters() *Counters {
	s := store.New(nil)
	return &Counters{
		base:    base{store: s},
		Root:    store.NewCell(s, 1),
		Foo:     store.NewCell(s, 1),
		Bar:     store.NewCell(s, 1),
		renders: make(map[string]int),
	}
}

func (c *Counters) Name() string { return "counters" }

func (c *Counters) Buttons() []string {
	return []string{"root-inc", "foo-inc", "bar-inc"}
}

// Renders returns how often the named component ran ("app", "foo", "bar").
// It must not be called while a pass is running.
func (c *Counters) Renders(name string) int {
	return c.renders[name]
}

func (c *Counters) Element() *element.Node {
	return element.Comp(c.app, nil)
}

func (c *Counters) increment(cell *store.Cell[int]) func() {
	return func() {
		c.report(cell.Update(func(n int) int { return n + 1 }))
	}
}

func (c *Counters) app(element.Attrs) *element.Node {
	c.renders["app"]++
	return element.El("div", nil,
		"hi-mini-react count: ",
		c.Root.Get(),
		element.El("button", element.Attrs{"id": "root-inc", "onClick": c.increment(c.Root)}, "click"),
		element.Comp(c.foo, nil),
		element.Comp(c.bar, nil),
	)
}

func (c *Counters) foo(element.Attrs) *element.Node {
	c.renders["foo"]++
	return c.panel("foo", c.Foo)
}

func (c *Counters) bar(element.Attrs) *element.Node {
	c.renders["bar"]++
	return c.panel("bar", c.Bar)
}

func (c *Counters) panel(title string, cell *store.Cell[int]) *element.Node {
	return element.El("div", element.Attrs{"className": title},
		element.El("h1", nil, title),
		cell.Get(),
		element.El("button", element.Attrs{"id": title + "-inc", "onClick": c.increment(cell)}, "click"),
	)
}
