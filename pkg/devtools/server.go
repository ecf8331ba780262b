package devtools

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/html"

	"github.com/vango-dev/vui/pkg/dom"
	"github.com/vango-dev/vui/pkg/vui"
)

// EventMessage is sent by websocket clients to inject an event.
type EventMessage struct {
	Type   string         `json:"type"`
	Target string         `json:"target"`
	Detail map[string]any `json:"detail,omitempty"`
}

// TreeMessage is sent to websocket clients on connect and after every
// injected event. Conn is set on the first message only.
type TreeMessage struct {
	Conn    string `json:"conn,omitempty"`
	HTML    string `json:"html"`
	Handled bool   `json:"handled,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Stats is the body of GET /stats.
type Stats struct {
	Conns     int64          `json:"conns"`
	Instances int            `json:"instances"`
	Renders   uint64         `json:"renders"`
	Flushes   uint64         `json:"flushes"`
	Tasks     uint64         `json:"tasks"`
	Failed    uint64         `json:"failed"`
	Patches   vui.PatchStats `json:"patches"`
}

// Server is the devtools HTTP server for one runtime.
type Server struct {
	rt       *vui.Runtime
	loop     *Loop
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
	router   chi.Router
	conns    atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer sets the source of GET /metrics.
// Default: prometheus.DefaultGatherer
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// New creates a devtools server. Every access to rt goes through loop.
func New(rt *vui.Runtime, loop *Loop, opts ...Option) *Server {
	s := &Server{
		rt:       rt,
		loop:     loop,
		logger:   slog.Default(),
		gatherer: prometheus.DefaultGatherer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local inspector
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "devtools")
	s.router = s.routes()
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Get("/tree", s.handleTree)
	r.Get("/stats", s.handleStats)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleWebSocket)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	var body string
	if err := s.loop.Do(r.Context(), func() { body = s.rt.Document().String() }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(body))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var stats Stats
	err := s.loop.Do(r.Context(), func() {
		sched := s.rt.Scheduler().Stats()
		stats = Stats{
			Conns:     s.conns.Load(),
			Instances: s.rt.Instances(),
			Renders:   s.rt.Renders(),
			Flushes:   sched.Flushes,
			Tasks:     sched.Ran,
			Failed:    sched.Failed,
			Patches:   s.rt.PatchStats(),
		}
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	logger := s.logger.With("conn", id)
	s.conns.Add(1)
	defer s.conns.Add(-1)
	logger.Info("inspector connected", "remote", r.RemoteAddr)
	defer logger.Info("inspector disconnected")

	ctx := r.Context()
	if err := s.reply(ctx, conn, TreeMessage{Conn: id}); err != nil {
		return
	}

	for {
		var msg EventMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		reply := TreeMessage{}
		if err := s.loop.Do(ctx, func() { reply = s.inject(msg) }); err != nil {
			return
		}
		if err := s.reply(ctx, conn, reply); err != nil {
			return
		}
	}
}

// inject dispatches msg on the loop goroutine.
func (s *Server) inject(msg EventMessage) TreeMessage {
	if msg.Type == "" {
		return TreeMessage{Error: "missing event type"}
	}
	target := s.resolve(msg.Target)
	if target == nil {
		return TreeMessage{Error: "target not found: " + msg.Target}
	}
	ev := dom.NewEvent(msg.Type, target)
	ev.Detail = msg.Detail
	s.rt.Dispatch(ev)
	s.logger.Debug("event injected", "type", msg.Type, "target", msg.Target)
	return TreeMessage{Handled: true}
}

func (s *Server) resolve(target string) *html.Node {
	doc := s.rt.Document()
	if target == "" {
		return nil
	}
	if n := doc.GetElementByID(target); n != nil {
		return n
	}
	return doc.QuerySelector(target)
}

// reply fills in the current HTML and writes msg.
func (s *Server) reply(ctx context.Context, conn *websocket.Conn, msg TreeMessage) error {
	if err := s.loop.Do(ctx, func() { msg.HTML = s.rt.Document().String() }); err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(msg)
}
