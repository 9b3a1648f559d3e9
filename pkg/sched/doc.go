// Package sched provides the cooperative time-slice source the reconciler
// runs on.
//
// A Scheduler hands out idle slices: it calls the requested callback once,
// at some later point, with a Deadline that reports how much of the slice
// is left. Callbacks are never run re-entrantly; a callback that wants more
// time requests another slice before returning.
//
// Manual is a deterministic scheduler for tests and one-shot tools: slices
// run only when RunSlice is called, with whatever Deadline the caller
// supplies (see Steps and Unbounded). Loop is a real-time scheduler: a
// single goroutine that runs submitted tasks first and idle slices when the
// task queue is empty.
package sched
