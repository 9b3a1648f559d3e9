// Package devserver serves a demo application over HTTP.
//
// The application renders into a remote host. Every committed patch frame
// is replayed into an in-memory host (the view) and streamed to websocket
// clients. Clients send event frames back; they are dispatched on the
// scheduler loop so the runtime is only touched from one goroutine.
//
// Routes:
//
//	GET  /                        current HTML of the view
//	GET  /ws                      patch stream (binary frames), event ingress
//	POST /events/{id}/{event}     dispatch an event and settle the pass
//	GET  /metrics                 Prometheus metrics
//	POST /snapshots/{key}         store the current HTML
//	GET  /snapshots/{key}         load a stored snapshot
package devserver
