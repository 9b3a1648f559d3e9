package vtest

import (
	"context"
	"testing"

	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/vango-dev/minifiber/pkg/store"
)

func TestHarnessMountAndClick(t *testing.T) {
	ctx := context.Background()
	h := New()
	s := store.New(h.Root())
	count := store.NewCell(s, 0)

	app := func(element.Attrs) *element.Node {
		return element.El("div", element.Attrs{"className": "counter"},
			element.El("span", element.Attrs{"id": "count"}, count.Get()),
			element.El("button", element.Attrs{
				"id":      "inc",
				"onClick": func() { _ = count.Update(func(n int) int { return n + 1 }) },
			}, "+"),
		)
	}

	if err := h.Mount(ctx, element.Comp(app, nil)); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	ExpectText(t, h, "count", "0")
	ExpectElement(t, h, "button")
	ExpectAttribute(t, h, "class", "counter")

	for i := 0; i < 3; i++ {
		if err := h.Click(ctx, "inc"); err != nil {
			t.Fatalf("Click() error = %v", err)
		}
	}
	ExpectText(t, h, "count", "3")
	ExpectContains(t, h, `<span id="count">3</span>`)
	ExpectNotContains(t, h, `<span id="count">0</span>`)

	if h.Runtime().Pending() {
		t.Error("Pending() = true after Click")
	}
}

func TestHarnessFireErrors(t *testing.T) {
	ctx := context.Background()
	h := New()
	if err := h.Mount(ctx, element.El("p", element.Attrs{"id": "plain"}, "x")); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if err := h.Click(ctx, "missing"); err == nil {
		t.Error("Click(missing) error = nil, want error")
	}
	if err := h.Click(ctx, "plain"); err == nil {
		t.Error("Click(no listener) error = nil, want error")
	}
}

func TestPrettyHTML(t *testing.T) {
	h := New()
	if err := h.Mount(context.Background(), element.El("ul", nil, element.El("li", nil, "a"))); err != nil {
		t.Fatal(err)
	}
	want := "<ul>\n  <li>\n    a\n  </li>\n</ul>\n"
	if got := h.PrettyHTML(); got != want {
		t.Errorf("PrettyHTML() = %q, want %q", got, want)
	}
}
