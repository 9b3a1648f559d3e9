// Package reconciler turns element trees into host-tree mutations,
// incrementally.
//
// A Runtime holds three references: the next fiber to process, the root
// of the pass being built (work in progress) and the last committed tree
// (the baseline). Render and Update seed a pass; Work advances it one
// deadline-bounded slice at a time, yielding only between fiber visits;
// when the pass is exhausted the commit runs synchronously and the finished
// tree becomes the new baseline.
//
//	rt := reconciler.New(memhost.New())
//	rt.Render(element.Comp(App, nil), container)
//	rt.Flush(ctx)
//
// There is one pass in flight at most. Starting a pass while another is
// unfinished abandons the old one (last update wins).
//
// A Runtime is not safe for concurrent use. Drive it from one goroutine,
// typically a sched.Loop, and route events from other goroutines through
// that loop.
package reconciler
