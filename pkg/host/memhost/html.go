package memhost

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// voidElements cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// HTMLOptions configures serialization.
type HTMLOptions struct {
	// Pretty indents nested elements.
	Pretty bool

	// Indent is the per-level indentation in pretty mode. Default: two spaces.
	Indent string
}

// HTML serializes n and its subtree.
func HTML(n *Node) string {
	return HTMLWith(n, HTMLOptions{})
}

// InnerHTML serializes the children of n.
func InnerHTML(n *Node) string {
	var b strings.Builder
	w := writer{w: &b, opts: HTMLOptions{}}
	for _, c := range n.Children {
		w.node(c, 0)
	}
	return b.String()
}

// HTMLWith serializes n with the given options.
func HTMLWith(n *Node, opts HTMLOptions) string {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	var b strings.Builder
	w := writer{w: &b, opts: opts}
	w.node(n, 0)
	return b.String()
}

// HTML serializes n while holding the host lock.
func (h *Host) HTML(n *Node, opts HTMLOptions) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HTMLWith(n, opts)
}

type writer struct {
	w    io.StringWriter
	opts HTMLOptions
}

func (w writer) indent(depth int) {
	if w.opts.Pretty && depth > 0 {
		w.w.WriteString(strings.Repeat(w.opts.Indent, depth))
	}
}

func (w writer) newline() {
	if w.opts.Pretty {
		w.w.WriteString("\n")
	}
}

func (w writer) node(n *Node, depth int) {
	if n.IsText() {
		w.indent(depth)
		w.w.WriteString(escapeHTML(n.TextContent()))
		w.newline()
		return
	}

	w.indent(depth)
	w.w.WriteString("<" + n.Kind)
	w.attributes(n)
	w.w.WriteString(">")
	if voidElements[n.Kind] {
		w.newline()
		return
	}
	if len(n.Children) > 0 {
		w.newline()
		for _, c := range n.Children {
			w.node(c, depth+1)
		}
		w.indent(depth)
	}
	w.w.WriteString("</" + n.Kind + ">")
	w.newline()
}

func (w writer) attributes(n *Node) {
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := n.Attrs[key]
		name := key
		switch key {
		case "className":
			name = "class"
		case "htmlFor":
			name = "for"
		}

		// Boolean attributes render bare when true and not at all when false.
		if b, ok := value.(bool); ok {
			if b {
				w.w.WriteString(" " + name)
			}
			continue
		}
		w.w.WriteString(fmt.Sprintf(` %s="%s"`, name, escapeAttr(fmt.Sprint(value))))
	}
}

// escapeHTML escapes text for HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes text for a double-quoted attribute value.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\n':
			buf.WriteString("&#10;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
