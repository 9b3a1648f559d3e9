package demo

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/minifiber/pkg/host/memhost"
	"github.com/vango-dev/minifiber/pkg/vtest"
)

func mount(t *testing.T, app App) *vtest.Harness {
	t.Helper()
	h := vtest.New()
	app.Bind(h.Root())
	if err := h.Mount(context.Background(), app.Element()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return h
}

func TestRegistry(t *testing.T) {
	names := Names()
	want := []string{"counters", "swap", "toggle"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", names, want)
	}
	app, ok := Lookup("toggle")
	if !ok || app.Name() != "toggle" {
		t.Errorf("Lookup(toggle) = %v, %v", app, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) ok = true")
	}

	a, _ := Lookup("counters")
	b, _ := Lookup("counters")
	if a == b {
		t.Error("Lookup should return fresh instances")
	}
}

func TestCountersInitial(t *testing.T) {
	h := mount(t, NewCounters())
	want := `<div>hi-mini-react count: 1<button id="root-inc">click</button>` +
		`<div class="foo"><h1>foo</h1>1<button id="foo-inc">click</button></div>` +
		`<div class="bar"><h1>bar</h1>1<button id="bar-inc">click</button></div></div>`
	if got := h.HTML(); got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}
}

func TestCountersClick(t *testing.T) {
	ctx := context.Background()
	app := NewCounters()
	h := mount(t, app)
	h.Host().ResetCounts()

	if err := h.Click(ctx, "foo-inc"); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if err := h.Click(ctx, "foo-inc"); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if err := h.Click(ctx, "root-inc"); err != nil {
		t.Fatalf("Click() error = %v", err)
	}

	if app.Foo.Get() != 3 || app.Root.Get() != 2 || app.Bar.Get() != 1 {
		t.Errorf("counts = root %d foo %d bar %d", app.Root.Get(), app.Foo.Get(), app.Bar.Get())
	}
	vtest.ExpectContains(t, h, "hi-mini-react count: 2")
	vtest.ExpectContains(t, h, `<div class="foo"><h1>foo</h1>3<button`)
	vtest.ExpectContains(t, h, `<div class="bar"><h1>bar</h1>1<button`)

	// Every update re-renders the whole tree in place.
	if got := app.Renders("bar"); got != 4 {
		t.Errorf("Renders(bar) = %d, want 4", got)
	}
	if got := h.Host().Count(memhost.OpCreateNode); got != 0 {
		t.Errorf("CreateNode calls = %d, want 0", got)
	}
	if err := app.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	app := NewToggle()
	h := mount(t, app)

	vtest.ExpectContains(t, h, `<div class="slot"><div>foo<div>child</div></div></div>`)

	if err := h.Click(ctx, "toggle"); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	vtest.ExpectContains(t, h, `<div class="slot"><div>bar</div></div>`)
	vtest.ExpectNotContains(t, h, "child")

	if err := h.Click(ctx, "toggle"); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	vtest.ExpectContains(t, h, `<div class="slot"><div>foo<div>child</div></div></div>`)
}

func TestSwapKeepsPosition(t *testing.T) {
	ctx := context.Background()
	h := mount(t, NewSwap())

	want := `<div>hi-mini-react<div>Counter<div class="slot"><div>foo</div></div><button id="swap">showBar</button></div></div>`
	if got := h.HTML(); got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}

	if err := h.Click(ctx, "swap"); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	want = `<div>hi-mini-react<div>Counter<div class="slot"><p>bar</p></div><button id="swap">showBar</button></div></div>`
	if got := h.HTML(); got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}

	if err := h.Click(ctx, "swap"); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	vtest.ExpectContains(t, h, `<div class="slot"><div>foo</div></div>`)
}

func TestButtonsExist(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			app, _ := Lookup(name)
			h := mount(t, app)
			for _, id := range app.Buttons() {
				if h.Find(id) == nil {
					t.Errorf("button %q not rendered", id)
				}
			}
		})
	}
}
