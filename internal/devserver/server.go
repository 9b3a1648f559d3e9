package devserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/minifiber/internal/config"
	"github.com/vango-dev/minifiber/internal/demo"
	"github.com/vango-dev/minifiber/internal/errors"
	"github.com/vango-dev/minifiber/pkg/host/memhost"
	"github.com/vango-dev/minifiber/pkg/host/remote"
	"github.com/vango-dev/minifiber/pkg/metrics"
	"github.com/vango-dev/minifiber/pkg/reconciler"
	"github.com/vango-dev/minifiber/pkg/sched"
	"github.com/vango-dev/minifiber/pkg/snapshot"
	"github.com/vango-dev/minifiber/pkg/wire"
)

// Options configures a Server.
type Options struct {
	// Config supplies scheduler timing, metrics namespace and address.
	// Default: config.New().
	Config *config.Config

	// App is the application to serve. Required.
	App demo.App

	// Logger receives server logs. Default: slog.Default().
	Logger *slog.Logger

	// Registry collects metrics. Default: a fresh registry.
	Registry *prometheus.Registry

	// Snapshots stores HTML snapshots. Nil disables the snapshot routes.
	Snapshots snapshot.Store
}

// Server runs one application for any number of websocket peers.
type Server struct {
	config    *config.Config
	app       demo.App
	logger    *slog.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Collector
	snapshots snapshot.Store

	loop     *sched.Loop
	remote   *remote.Host
	view     *memhost.Host
	viewRoot *memhost.Node
	mirror   *remote.Mirror
	root     *reconciler.Root

	hub      *hub
	upgrader websocket.Upgrader
	router   chi.Router
	started  atomic.Bool
}

// New creates a server. Nothing runs until Start.
func New(opts Options) (*Server, error) {
	if opts.App == nil {
		return nil, fmt.Errorf("devserver: no app")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	budget, _ := cfg.SliceBudget()
	idle, _ := cfg.IdleInterval()
	lowWater, _ := cfg.LowWaterMark()

	s := &Server{
		config:    cfg,
		app:       opts.App,
		logger:    logger.With("component", "devserver"),
		registry:  registry,
		snapshots: opts.Snapshots,
		hub:       newHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}

	s.metrics = metrics.New(
		metrics.WithNamespace(cfg.Metrics.Namespace),
		metrics.WithRegistry(registry),
	)
	s.loop = sched.NewLoop(sched.LoopConfig{
		SliceBudget:  budget,
		IdleInterval: idle,
		Logger:       logger,
	})

	s.view = memhost.New()
	s.viewRoot = memhost.NewContainer("main")
	s.mirror = remote.NewMirror(s.view, s.viewRoot)
	s.remote = remote.New(remote.SinkFunc(s.publish), remote.WithLogger(logger))

	var observer reconciler.Observer = reconciler.NopObserver{}
	if cfg.Metrics.Enabled {
		observer = s.metrics
	}
	rt := reconciler.New(s.remote,
		reconciler.WithLogger(logger),
		reconciler.WithObserver(observer),
		reconciler.WithTracer(metrics.Tracer("github.com/vango-dev/minifiber/internal/devserver")),
		reconciler.WithLowWaterMark(lowWater),
		reconciler.WithScheduler(s.loop),
	)
	s.root = reconciler.NewRoot(rt, s.remote.Container())
	s.app.Bind(s.root)

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)
	r.Post("/events/{id}/{event}", s.handleEvent)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Post("/snapshots/{key}", s.handleSaveSnapshot)
	r.Get("/snapshots/{key}", s.handleLoadSnapshot)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Loop returns the scheduler loop.
func (s *Server) Loop() *sched.Loop { return s.loop }

// Root returns the reconciler root.
func (s *Server) Root() *reconciler.Root { return s.root }

// Clients returns the number of connected websocket peers.
func (s *Server) Clients() int { return s.hub.count() }

// Start runs the loop, mounts the application and starts incremental
// rendering. It returns once the first commit is done.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("devserver: already started")
	}

	go func() {
		if err := s.loop.Run(ctx); err != nil {
			s.logger.Error("loop stopped", "error", err)
		}
		s.hub.closeAll()
	}()

	rt := s.root.Runtime()
	err := s.loop.Call(ctx, func() error {
		if err := s.root.Render(s.app.Element()); err != nil {
			return err
		}
		return rt.Flush(ctx)
	})
	if err != nil {
		return err
	}
	rt.Start(ctx)
	s.logger.Info("mounted", "app", s.app.Name())
	return nil
}

// ListenAndServe starts the server and serves HTTP until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if err := s.Start(ctx); err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// publish is the remote host's sink. It runs on the loop goroutine during
// commit.
func (s *Server) publish(f *wire.Frame) error {
	if err := s.mirror.HandleFrame(f); err != nil {
		s.logger.Error("mirror failed", "error", err)
		return err
	}
	if pf, err := wire.DecodePatches(f.Payload); err == nil {
		s.metrics.RecordPatches(len(pf.Patches))
	}

	data, err := f.Encode()
	if err != nil {
		return err
	}
	for range s.hub.broadcast(data) {
		s.metrics.ClientDisconnected()
		s.logger.Warn("dropped slow client")
	}
	return nil
}

// HTML returns the current HTML of the view, container included.
func (s *Server) HTML() string {
	return s.view.HTML(s.viewRoot, memhost.HTMLOptions{})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><title>%s</title></head><body>%s</body></html>\n",
		s.app.Name(), s.HTML())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(conn)
	go c.writePump(s.logger)

	// The snapshot is taken on the loop so no live frame falls between it
	// and registration.
	err = s.loop.Call(r.Context(), func() error {
		for _, f := range s.remote.SnapshotFrames() {
			data, err := f.Encode()
			if err != nil {
				return err
			}
			c.send <- data
		}
		s.hub.add(c)
		return nil
	})
	if err != nil {
		s.logger.Warn("snapshot failed", "error", err)
		c.close()
		return
	}
	s.metrics.ClientConnected()

	defer func() {
		if s.hub.remove(c) {
			s.metrics.ClientDisconnected()
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.Debug("read failed", "error", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		s.ingest(data)
	}
}

// ingest decodes an inbound frame and dispatches it on the loop.
func (s *Server) ingest(data []byte) {
	f, err := wire.DecodeFrame(data)
	if err != nil {
		s.metrics.RecordEvent("malformed")
		s.logger.Debug("bad frame", "error", err)
		return
	}
	err = s.loop.Submit(func() {
		if err := s.remote.HandleFrame(f); err != nil {
			s.metrics.RecordEvent("rejected")
			s.logger.Debug("event rejected", "error", err)
			return
		}
		s.metrics.RecordEvent("dispatched")
	})
	if err != nil {
		s.logger.Debug("loop closed", "error", err)
	}
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, wire.MaxStringLen))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ev := &wire.Event{
		Target:  chi.URLParam(r, "id"),
		Name:    chi.URLParam(r, "event"),
		Payload: string(payload),
	}

	rt := s.root.Runtime()
	var called int
	err = s.loop.Call(r.Context(), func() error {
		n, err := s.remote.Dispatch(ev)
		if err != nil {
			return err
		}
		called = n
		if rt.Pending() {
			return rt.Flush(r.Context())
		}
		return nil
	})
	switch {
	case errors.HasCode(err, "E041"):
		s.metrics.RecordEvent("rejected")
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.HasCode(err, "E042"):
		s.metrics.RecordEvent("rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		s.metrics.RecordEvent("error")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case called == 0:
		s.metrics.RecordEvent("unhandled")
		http.Error(w, "no listener for "+ev.Name, http.StatusNotFound)
	default:
		s.metrics.RecordEvent("dispatched")
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		http.Error(w, "snapshots disabled", http.StatusNotImplemented)
		return
	}
	key := chi.URLParam(r, "key")
	if err := s.snapshots.Put(r.Context(), key, []byte(s.HTML())); err != nil {
		status := http.StatusInternalServerError
		if snapshot.ValidateKey(key) != nil {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		http.Error(w, "snapshots disabled", http.StatusNotImplemented)
		return
	}
	data, err := s.snapshots.Get(r.Context(), chi.URLParam(r, "key"))
	switch {
	case errors.HasCode(err, "E151"):
		http.Error(w, err.Error(), http.StatusNotFound)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	}
}
