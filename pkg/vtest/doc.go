// Package vtest provides testing helpers for minifiber trees.
//
// A Harness mounts a tree into an in-memory host, drives passes to
// completion and exposes the resulting HTML, so tests can assert on
// output without wiring a scheduler.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New()
//	    if err := h.Mount(ctx, Counter()); err != nil {
//	        t.Fatal(err)
//	    }
//	    if err := h.Click(ctx, "inc"); err != nil {
//	        t.Fatal(err)
//	    }
//	    vtest.ExpectText(t, h, "count", "1")
//	}
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	vtest.ExpectContains(t, h, "Welcome")
//	vtest.ExpectNotContains(t, h, "Login")
//	vtest.ExpectElement(t, h, "button")
//	vtest.ExpectAttribute(t, h, "class", "btn-primary")
package vtest
