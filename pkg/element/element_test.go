package element

import (
	"testing"
	"time"
)

func TestBuildTextCoercion(t *testing.T) {
	node := El("div", nil, "hi")

	if node.Kind.Tag() != "div" {
		t.Errorf("Tag = %q, want div", node.Kind.Tag())
	}
	if len(node.Attrs) != 0 {
		t.Errorf("Attrs = %v, want empty", node.Attrs)
	}
	if len(node.Children) != 1 {
		t.Fatalf("len(Children) = %d, want 1", len(node.Children))
	}

	text := node.Children[0]
	if !text.IsText() {
		t.Fatalf("child kind = %v, want %s", text.Kind, TextTag)
	}
	if text.TextValue() != "hi" {
		t.Errorf("TextValue = %q, want hi", text.TextValue())
	}
	if len(text.Children) != 0 {
		t.Errorf("text leaf has %d children, want 0", len(text.Children))
	}
	if len(text.Attrs) != 1 {
		t.Errorf("text leaf Attrs = %v, want only nodeValue", text.Attrs)
	}
}

func TestBuildWithAttrs(t *testing.T) {
	node := El("div", Attrs{"id": "id"}, "hi")
	if node.Attrs["id"] != "id" {
		t.Errorf("Attrs[id] = %v, want id", node.Attrs["id"])
	}
}

func TestBuildCoercesNumbersAndStringers(t *testing.T) {
	node := El("p", nil, "count: ", 10, int64(7), 1.5, true, 2*time.Second)

	want := []string{"count: ", "10", "7", "1.5", "true", "2s"}
	if len(node.Children) != len(want) {
		t.Fatalf("len(Children) = %d, want %d", len(node.Children), len(want))
	}
	for i, w := range want {
		if got := node.Children[i].TextValue(); got != w {
			t.Errorf("child %d = %q, want %q", i, got, w)
		}
	}
}

func TestBuildSkipsNilAndFlattens(t *testing.T) {
	var missing *Node
	list := []*Node{El("li", nil, "a"), nil, El("li", nil, "b")}

	node := El("ul", nil, nil, missing, list, []any{"c", nil})

	if len(node.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(node.Children))
	}
	if node.Children[2].TextValue() != "c" {
		t.Errorf("last child = %q, want c", node.Children[2].TextValue())
	}
}

func TestBuildCopiesAttrs(t *testing.T) {
	attrs := Attrs{"id": "a"}
	node := El("div", attrs)
	attrs["id"] = "b"

	if node.Attrs["id"] != "a" {
		t.Errorf("Attrs[id] = %v, want a (builder must copy)", node.Attrs["id"])
	}
}

func Counter(attrs Attrs) *Node {
	return El("div", nil, "count: ", attrs["num"])
}

func Other(Attrs) *Node { return El("span", nil) }

func TestKindVariant(t *testing.T) {
	host := Host("div")
	comp := Func(Counter)

	if !host.IsHost() || host.IsComponent() {
		t.Error("Host kind should be host only")
	}
	if !comp.IsComponent() || comp.IsHost() {
		t.Error("Func kind should be component only")
	}
	if !Func(nil).IsZero() {
		t.Error("Func(nil) should be zero")
	}
	if !Host(TextTag).IsText() {
		t.Error("Host(TextTag) should be text")
	}
}

func TestKindEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Kind
		want bool
	}{
		{"same tag", Host("div"), Host("div"), true},
		{"different tag", Host("div"), Host("p"), false},
		{"same component", Func(Counter), Func(Counter), true},
		{"different component", Func(Counter), Func(Other), false},
		{"host vs component", Host("div"), Func(Counter), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComponentProps(t *testing.T) {
	node := Comp(Counter, Attrs{"num": 10}, El("b", nil, "x"))

	props := node.Props()
	if props["num"] != 10 {
		t.Errorf("props[num] = %v, want 10", props["num"])
	}
	children := ChildrenOf(props)
	if len(children) != 1 || children[0].Kind.Tag() != "b" {
		t.Errorf("ChildrenOf(props) = %v, want one <b>", children)
	}
	if _, ok := node.Attrs[ChildrenKey]; ok {
		t.Error("children must not leak into Attrs")
	}

	out := node.Kind.Component()(props)
	if out.Kind.Tag() != "div" {
		t.Errorf("component output tag = %q, want div", out.Kind.Tag())
	}
}

func TestEventKeys(t *testing.T) {
	tests := []struct {
		key   string
		isEvt bool
		name  string
	}{
		{"onClick", true, "click"},
		{"onclick", true, "click"},
		{"ONINPUT", true, "input"},
		{"on", false, ""},
		{"one", true, "e"},
		{"id", false, ""},
	}

	for _, tt := range tests {
		if got := IsEventKey(tt.key); got != tt.isEvt {
			t.Errorf("IsEventKey(%q) = %v, want %v", tt.key, got, tt.isEvt)
		}
		if got := EventName(tt.key); got != tt.name {
			t.Errorf("EventName(%q) = %q, want %q", tt.key, got, tt.name)
		}
	}
}
