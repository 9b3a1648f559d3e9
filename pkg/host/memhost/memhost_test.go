package memhost

import (
	"errors"
	"testing"

	"github.com/vango-dev/minifiber/pkg/element"
)

func mustCreate(t *testing.T, h *Host, kind string) *Node {
	t.Helper()
	handle, err := h.CreateNode(kind)
	if err != nil {
		t.Fatalf("CreateNode(%q) error = %v", kind, err)
	}
	return handle.(*Node)
}

func TestTreeMutations(t *testing.T) {
	h := New()
	root := NewContainer("div")
	a := mustCreate(t, h, "a")
	b := mustCreate(t, h, "b")
	c := mustCreate(t, h, "c")

	if err := h.AppendChild(root, a); err != nil {
		t.Fatal(err)
	}
	if err := h.AppendChild(root, c); err != nil {
		t.Fatal(err)
	}
	if err := h.InsertBefore(root, b, c); err != nil {
		t.Fatal(err)
	}

	if got, want := InnerHTML(root), "<a></a><b></b><c></c>"; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}

	if err := h.RemoveChild(root, b); err != nil {
		t.Fatal(err)
	}
	if got, want := InnerHTML(root), "<a></a><c></c>"; got != want {
		t.Errorf("after remove InnerHTML() = %q, want %q", got, want)
	}
	if b.Parent != nil {
		t.Error("removed node still has a parent")
	}

	if err := h.RemoveChild(root, b); !errors.Is(err, ErrNotChild) {
		t.Errorf("RemoveChild(detached) error = %v, want ErrNotChild", err)
	}
	if err := h.InsertBefore(root, b, NewContainer("x")); !errors.Is(err, ErrNotChild) {
		t.Errorf("InsertBefore(foreign ref) error = %v, want ErrNotChild", err)
	}
}

func TestAppendMovesNode(t *testing.T) {
	h := New()
	root := NewContainer("div")
	a := mustCreate(t, h, "a")
	b := mustCreate(t, h, "b")
	_ = h.AppendChild(root, a)
	_ = h.AppendChild(root, b)
	_ = h.AppendChild(root, a)

	if got, want := InnerHTML(root), "<b></b><a></a>"; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
}

func TestAttributesAndText(t *testing.T) {
	h := New()
	root := NewContainer("div")
	p := mustCreate(t, h, "p")
	txt := mustCreate(t, h, element.TextTag)
	_ = h.SetAttribute(p, "className", "big")
	_ = h.SetAttribute(p, "title", `say "hi"`)
	_ = h.SetAttribute(p, "hidden", false)
	_ = h.SetAttribute(txt, element.NodeValueKey, "a < b")
	_ = h.AppendChild(p, txt)
	_ = h.AppendChild(root, p)

	want := `<div><p class="big" title="say &quot;hi&quot;">a &lt; b</p></div>`
	if got := HTML(root); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}

	_ = h.RemoveAttribute(p, "title")
	if _, ok := p.Attr("title"); ok {
		t.Error("title still present after RemoveAttribute")
	}
	if got := root.TextContent(); got != "a < b" {
		t.Errorf("TextContent() = %q", got)
	}
}

func TestPrettyHTML(t *testing.T) {
	h := New()
	root := NewContainer("div")
	p := mustCreate(t, h, "p")
	br := mustCreate(t, h, "br")
	_ = h.AppendChild(root, p)
	_ = h.AppendChild(root, br)

	want := "<div>\n  <p></p>\n  <br>\n</div>\n"
	if got := HTMLWith(root, HTMLOptions{Pretty: true}); got != want {
		t.Errorf("HTMLWith(pretty) = %q, want %q", got, want)
	}
}

func TestListenersAndDispatch(t *testing.T) {
	h := New()
	btn := mustCreate(t, h, "button")

	var calls []string
	_ = h.AddListener(btn, "click", func() { calls = append(calls, "plain") })
	_ = h.AddListener(btn, "click", func(e Event) { calls = append(calls, "event:"+e.Type) })
	_ = h.AddListener(btn, "input", func(v string) { calls = append(calls, "input:"+v) })

	if names := btn.EventNames(); len(names) != 2 || names[0] != "click" || names[1] != "input" {
		t.Errorf("EventNames() = %v", names)
	}

	n, err := h.Dispatch(btn, "click", "")
	if err != nil || n != 2 {
		t.Fatalf("Dispatch(click) = %d, %v", n, err)
	}
	if _, err := h.Dispatch(btn, "input", "x"); err != nil {
		t.Fatal(err)
	}
	want := []string{"plain", "event:click", "input:x"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}

	_ = h.RemoveListener(btn, "click", nil)
	_ = h.RemoveListener(btn, "click", nil)
	if n, _ := h.Dispatch(btn, "click", ""); n != 0 {
		t.Errorf("Dispatch after removal called %d listeners, want 0", n)
	}

	_ = h.AddListener(btn, "bad", 42)
	if _, err := h.Dispatch(btn, "bad", ""); err == nil {
		t.Error("Dispatch with unsupported listener should fail")
	}
}

func TestFailOn(t *testing.T) {
	h := New()
	h.FailOn(OpCreateNode, 2)

	if _, err := h.CreateNode("a"); err != nil {
		t.Fatalf("first CreateNode error = %v", err)
	}
	if _, err := h.CreateNode("b"); !errors.Is(err, ErrInjected) {
		t.Fatalf("second CreateNode error = %v, want ErrInjected", err)
	}
	if _, err := h.CreateNode("c"); err != nil {
		t.Fatalf("third CreateNode error = %v", err)
	}
	if got := h.Count(OpCreateNode); got != 2 {
		t.Errorf("Count(CreateNode) = %d, want 2", got)
	}

	h.ResetCounts()
	if got := len(h.Counts()); got != 0 {
		t.Errorf("Counts() after reset has %d entries", got)
	}
}

func TestBadHandle(t *testing.T) {
	h := New()
	if err := h.SetAttribute("nope", "a", 1); !errors.Is(err, ErrBadHandle) {
		t.Errorf("SetAttribute(bad) error = %v, want ErrBadHandle", err)
	}
	if err := h.AppendChild(nil, NewContainer("a")); !errors.Is(err, ErrBadHandle) {
		t.Errorf("AppendChild(nil parent) error = %v, want ErrBadHandle", err)
	}
}

func TestFind(t *testing.T) {
	h := New()
	root := NewContainer("div")
	a := mustCreate(t, h, "button")
	b := mustCreate(t, h, "button")
	_ = h.SetAttribute(b, "id", "second")
	_ = h.AppendChild(root, a)
	_ = h.AppendChild(root, b)

	if got := root.Find(ByAttr("id", "second")); got != b {
		t.Errorf("Find(id=second) = %v, want b", got)
	}
	if got := root.FindAll(ByKind("button")); len(got) != 2 {
		t.Errorf("FindAll(button) = %d nodes, want 2", len(got))
	}
}
