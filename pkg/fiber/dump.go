package fiber

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/minifiber/pkg/element"
	"github.com/xlab/treeprint"
)

// Dump renders the tree rooted at f for debugging.
//
//	.
//	└── #root
//	    └── div [CREATE] id=app
//	        └── "hi" [CREATE]
func Dump(f *Fiber) string {
	tree := treeprint.New()
	if f == nil {
		return tree.String()
	}
	dumpChildren(tree.AddBranch(Label(f)), f)
	return tree.String()
}

func dumpChildren(branch treeprint.Tree, f *Fiber) {
	for c := f.Child; c != nil; c = c.Sibling {
		if c.Child == nil {
			branch.AddNode(Label(c))
			continue
		}
		dumpChildren(branch.AddBranch(Label(c)), c)
	}
}

// Label returns a one-line description of a fiber.
func Label(f *Fiber) string {
	if f.IsRoot() {
		return RootTag
	}

	var b strings.Builder
	if f.Kind.IsText() {
		fmt.Fprintf(&b, "%q", f.Attrs[element.NodeValueKey])
	} else {
		b.WriteString(shortName(f.Kind))
	}
	fmt.Fprintf(&b, " [%s]", f.Effect)

	if !f.Kind.IsText() {
		keys := make([]string, 0, len(f.Attrs))
		for k := range f.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if element.IsEventKey(k) {
				fmt.Fprintf(&b, " %s=fn", k)
				continue
			}
			fmt.Fprintf(&b, " %s=%v", k, f.Attrs[k])
		}
	}
	return b.String()
}

// shortName strips the package path from component names.
func shortName(k element.Kind) string {
	name := k.String()
	if !k.IsComponent() {
		return name
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
