package events

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"

	"github.com/vango-dev/vui/pkg/dom"
	"github.com/vango-dev/vui/pkg/sched"
)

// Observer receives event dispatch measurements.
type Observer interface {
	ObserveEvent(kind string, handlers int)
	ObserveHandlerError(kind string)
}

// System is a delegated event dispatcher bound to one document.
type System struct {
	doc   *dom.Document
	sched *sched.Scheduler

	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer

	// handlers maps event kind -> element -> handler.
	handlers  map[string]map[*html.Node]Handler
	listening map[string]bool
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger used to report handler failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *System) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver sets a measurement sink.
func WithObserver(o Observer) Option {
	return func(s *System) { s.observer = o }
}

// WithTracer sets the tracer used for dispatch spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *System) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New creates an event system for doc. Handlers run inside batches of s.
func New(doc *dom.Document, s *sched.Scheduler, opts ...Option) *System {
	sys := &System{
		doc:       doc,
		sched:     s,
		logger:    slog.Default(),
		tracer:    otel.Tracer("github.com/vango-dev/vui/pkg/events"),
		handlers:  make(map[string]map[*html.Node]Handler),
		listening: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(sys)
	}
	return sys
}

// On registers h as the handler of node for the event kind, replacing any
// previous handler. The root listener for kind is installed on first use.
func (s *System) On(node *html.Node, kind string, h Handler) {
	if node == nil || kind == "" || h == nil {
		return
	}
	table := s.handlers[kind]
	if table == nil {
		table = make(map[*html.Node]Handler)
		s.handlers[kind] = table
	}
	table[node] = h

	if !s.listening[kind] {
		s.listening[kind] = true
		s.doc.AddEventListener(kind, s.dispatch)
	}
}

// Off unregisters the handler of node for the event kind.
func (s *System) Off(node *html.Node, kind string) {
	if table := s.handlers[kind]; table != nil {
		delete(table, node)
	}
}

// Forget unregisters every handler of node and its descendants.
func (s *System) Forget(node *html.Node) {
	if node == nil {
		return
	}
	dom.Walk(node, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		for _, table := range s.handlers {
			delete(table, n)
		}
	})
}

// Has reports whether node has a handler for the event kind.
func (s *System) Has(node *html.Node, kind string) bool {
	_, ok := s.handlers[kind][node]
	return ok
}

// HandlerCount returns the number of registered handlers for kind.
func (s *System) HandlerCount(kind string) int {
	return len(s.handlers[kind])
}

// Dispatch delivers a raw event through the document.
// It returns false if a handler prevented the default action.
func (s *System) Dispatch(ev *dom.Event) bool {
	return s.doc.DispatchEvent(ev)
}

// dispatch is the root listener installed for every event kind in use.
func (s *System) dispatch(ev *dom.Event) {
	table := s.handlers[ev.Type]
	if len(table) == 0 {
		return
	}

	_, span := s.tracer.Start(context.Background(), "vui.event",
		trace.WithAttributes(attribute.String("vui.event.type", ev.Type)))
	defer span.End()

	invoked := 0
	for _, node := range ev.Path() {
		h, ok := table[node]
		if !ok {
			continue
		}
		se := newSynthetic(ev, node)
		invoked++
		s.invoke(h, se)
		if se.IsPropagationStopped() {
			break
		}
	}
	if s.observer != nil {
		s.observer.ObserveEvent(ev.Type, invoked)
	}
}

func (s *System) invoke(h Handler, se *SyntheticEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler failed",
				"event", se.Type,
				"element", se.CurrentTarget.Data,
				"error", fmt.Sprint(r))
			if s.observer != nil {
				s.observer.ObserveHandlerError(se.Type)
			}
		}
	}()
	s.sched.Batch(func() { h(se) })
}
