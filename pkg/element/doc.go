// Package element provides the immutable description tree consumed by the
// reconciler.
//
// A Node is a kind, a set of attributes and an ordered list of children.
// Kind is a tagged variant: either a host tag such as "div", which the host
// platform knows how to create, or a Component, a pure function from
// attributes to exactly one Node.
//
//	app := element.El("div", element.Attrs{"id": "app"},
//	    "count: ", 3,
//	    element.Comp(Counter, element.Attrs{"step": 1}),
//	)
//
// Strings and numbers passed as children become text leaves of the reserved
// TextTag kind carrying a single "nodeValue" attribute.
package element
