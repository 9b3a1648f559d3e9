package demo

import (
	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/vango-dev/minifiber/pkg/store"
)

// Toggle switches a slot between a nested subtree and a single element.
type Toggle struct {
	base
	ShowBar *store.Cell[bool]
}

// NewToggle returns the toggle app showing the nested subtree.
func NewToggle() *Toggle {
	s := store.New(nil)
	return &Toggle{base: base{store: s}, ShowBar: store.NewCell(s, false)}
}

func (t *Toggle) Name() string      { return "toggle" }
func (t *Toggle) Buttons() []string { return []string{"toggle"} }

func (t *Toggle) Element() *element.Node {
	return element.El("div", nil, "hi-mini-react", element.Comp(t.counter, nil))
}

func (t *Toggle) flip() {
	t.report(t.ShowBar.Update(func(b bool) bool { return !b }))
}

func (t *Toggle) counter(element.Attrs) *element.Node {
	foo := element.El("div", nil, "foo", element.El("div", nil, "child"))
	bar := element.El("div", nil, "bar")

	slot := foo
	if t.ShowBar.Get() {
		slot = bar
	}
	return element.El("div", nil,
		"Counter",
		element.El("button", element.Attrs{"id": "toggle", "onClick": t.flip}, "showBar"),
		element.El("div", element.Attrs{"className": "slot"}, slot),
	)
}

// Swap replaces a component with a host element of a different tag in the
// middle of its parent.
type Swap struct {
	base
	ShowBar *store.Cell[bool]
}

// NewSwap returns the swap app showing the component.
func NewSwap() *Swap {
	s := store.New(nil)
	return &Swap{base: base{store: s}, ShowBar: store.NewCell(s, false)}
}

func (s *Swap) Name() string      { return "swap" }
func (s *Swap) Buttons() []string { return []string{"swap"} }

func (s *Swap) Element() *element.Node {
	return element.El("div", nil, "hi-mini-react", element.Comp(s.counter, nil))
}

func (s *Swap) flip() {
	s.report(s.ShowBar.Update(func(b bool) bool { return !b }))
}

func fooComponent(element.Attrs) *element.Node {
	return element.El("div", nil, "foo")
}

func (s *Swap) counter(element.Attrs) *element.Node {
	var slot *element.Node
	if s.ShowBar.Get() {
		slot = element.El("p", nil, "bar")
	} else {
		slot = element.Comp(fooComponent, nil)
	}
	return element.El("div", nil,
		"Counter",
		element.El("div", element.Attrs{"className": "slot"}, slot),
		element.El("button", element.Attrs{"id": "swap", "onClick": s.flip}, "showBar"),
	)
}
