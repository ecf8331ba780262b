package vui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"

	verrors "github.com/vango-dev/vui/internal/errors"
	"github.com/vango-dev/vui/pkg/dom"
	"github.com/vango-dev/vui/pkg/events"
	"github.com/vango-dev/vui/pkg/sched"
	"github.com/vango-dev/vui/pkg/vdom"
)

// Metrics receives runtime observations. pkg/metrics provides a Prometheus
// implementation.
type Metrics interface {
	sched.Observer
	events.Observer
	ObserveRender(component string, elapsed time.Duration)
	ObserveRenderError(component string)
	ObservePatch(op string, n int)
	ObserveAttributeError(attr string)
}

// Patch operation labels reported to Metrics.
const (
	OpCreate  = "create"
	OpMove    = "move"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpAttr    = "attr"
	OpText    = "text"
)

// PatchStats counts display-tree mutations since the runtime was created.
type PatchStats struct {
	Created    int
	Moved      int
	Removed    int
	Replaced   int
	Attrs      int
	Texts      int
	AttrErrors int
}

// Runtime owns the scheduler, the reconciliation engine and the event system
// for one document. It must be used from a single goroutine.
type Runtime struct {
	doc     *dom.Document
	sched   *sched.Scheduler
	events  *events.System
	logger  *slog.Logger
	metrics Metrics
	tracer  trace.Tracer
	debug   bool

	nextID uint64

	// live maps instance identifiers to mounted instances. Back-references
	// (boundaries, parents, context subscribers) are identifiers resolved
	// through this table.
	live map[uint64]*Instance

	// owners maps the component node an instance was last rendered from to
	// the instance.
	owners map[*vdom.VNode]*Instance

	boundaries []uint64    // boundary stack during materialize/patch (0: none)
	rendering  []*Instance // instances whose output is being materialized/patched
	mountQueue []*Instance // pending DidMount calls, children first

	// registered collects elements given handlers while a boundary
	// materializes its subtree, so a failed attempt can unregister them.
	registered *[]*html.Node

	stats   PatchStats
	renders uint64
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithMetrics installs an observer for renders, patches, flushes and events.
func WithMetrics(m Metrics) Option {
	return func(rt *Runtime) {
		rt.metrics = m
	}
}

// WithTracer sets the tracer used for mount, update and event spans.
func WithTracer(t trace.Tracer) Option {
	return func(rt *Runtime) {
		rt.tracer = t
	}
}

// WithDebug enables development checks such as hook slot counting.
func WithDebug(debug bool) Option {
	return func(rt *Runtime) {
		rt.debug = debug
	}
}

// WithScheduler shares an existing scheduler instead of creating one.
func WithScheduler(s *sched.Scheduler) Option {
	return func(rt *Runtime) {
		rt.sched = s
	}
}

// New creates a runtime for doc. A nil doc creates a fresh document.
func New(doc *dom.Document, opts ...Option) *Runtime {
	if doc == nil {
		doc = dom.NewDocument()
	}
	rt := &Runtime{
		doc:    doc,
		live:   make(map[uint64]*Instance),
		owners: make(map[*vdom.VNode]*Instance),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	if rt.tracer == nil {
		rt.tracer = otel.Tracer("github.com/vango-dev/vui")
	}
	if rt.sched == nil {
		sopts := []sched.Option{sched.WithLogger(rt.logger), sched.WithTracer(rt.tracer)}
		if rt.metrics != nil {
			sopts = append(sopts, sched.WithObserver(rt.metrics))
		}
		rt.sched = sched.New(sopts...)
	}
	eopts := []events.Option{events.WithLogger(rt.logger), events.WithTracer(rt.tracer)}
	if rt.metrics != nil {
		eopts = append(eopts, events.WithObserver(rt.metrics))
	}
	rt.events = events.New(doc, rt.sched, eopts...)
	return rt
}

// Document returns the display document.
func (rt *Runtime) Document() *dom.Document { return rt.doc }

// Scheduler returns the update scheduler.
func (rt *Runtime) Scheduler() *sched.Scheduler { return rt.sched }

// Events returns the delegated event system.
func (rt *Runtime) Events() *events.System { return rt.events }

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *slog.Logger { return rt.logger }

// Debug reports whether development checks are enabled.
func (rt *Runtime) Debug() bool { return rt.debug }

// PatchStats returns cumulative patch statistics.
func (rt *Runtime) PatchStats() PatchStats { return rt.stats }

// Renders returns the number of completed component renders.
func (rt *Runtime) Renders() uint64 { return rt.renders }

// Instances returns the number of mounted component instances.
func (rt *Runtime) Instances() int { return len(rt.live) }

// Batch runs fn inside one batching window.
func (rt *Runtime) Batch(fn func()) { rt.sched.Batch(fn) }

// Dispatch delivers a raw event to the document.
func (rt *Runtime) Dispatch(ev *dom.Event) bool { return rt.doc.DispatchEvent(ev) }

// Mount materializes node and appends it under the node matched by selector.
// Updates requested while mounting are flushed before Mount returns.
func (rt *Runtime) Mount(ctx context.Context, node *vdom.VNode, selector string) (*Root, error) {
	_, span := rt.tracer.Start(ctx, "vui.mount",
		trace.WithAttributes(
			attribute.String("vui.root", node.Name()),
			attribute.String("vui.selector", selector),
		))
	defer span.End()

	target := rt.doc.QuerySelector(selector)
	if target == nil {
		err := verrors.New(verrors.CodeMountTarget).
			WithDetail(fmt.Sprintf("selector %q matched no node", selector)).
			Wrap(ErrMountTarget)
		span.RecordError(err)
		span.SetStatus(codes.Error, "mount target not found")
		return nil, err
	}

	var live *html.Node
	err := rt.commit(func() {
		live = rt.materialize(node)
		target.AppendChild(live)
	}, func() {
		rt.teardown(node)
		if live != nil {
			rt.events.Forget(live)
			dom.Detach(live)
		}
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mount failed")
		return nil, err
	}

	root := &Root{rt: rt, target: target, tree: node, live: live}
	if node.Kind == vdom.KindComponent {
		root.inst = rt.owners[node]
	}
	rt.logger.Debug("vui: mounted", "root", node.Name(), "selector", selector)
	return root, nil
}

// commit runs fn inside a batching window, then runs queued DidMount calls.
// A panic escaping fn is returned as an error after rollback has run.
func (rt *Runtime) commit(fn, rollback func()) (err error) {
	rt.sched.BatchStart()
	defer rt.sched.BatchEnd()
	defer func() {
		if r := recover(); r != nil {
			rt.mountQueue = nil
			err = asError(r)
			if rollback != nil {
				rollback()
			}
		}
	}()
	fn()
	rt.flushMounts()
	return nil
}

// flushMounts runs DidMount for every queued instance still mounted.
func (rt *Runtime) flushMounts() {
	for len(rt.mountQueue) > 0 {
		queue := rt.mountQueue
		rt.mountQueue = nil
		for _, inst := range queue {
			if !inst.mounted || inst.committed {
				continue
			}
			inst.committed = true
			if m, ok := inst.comp.(DidMounter); ok {
				inst.lifecycle(phaseDidMount, m.DidMount)
			}
			inst.runQueued()
		}
	}
}

func (rt *Runtime) pushBoundary(id uint64) { rt.boundaries = append(rt.boundaries, id) }

func (rt *Runtime) popBoundary() { rt.boundaries = rt.boundaries[:len(rt.boundaries)-1] }

func (rt *Runtime) currentBoundary() uint64 {
	if n := len(rt.boundaries); n > 0 {
		return rt.boundaries[n-1]
	}
	return 0
}

func (rt *Runtime) pushRendering(i *Instance) { rt.rendering = append(rt.rendering, i) }

func (rt *Runtime) popRendering() { rt.rendering = rt.rendering[:len(rt.rendering)-1] }

func (rt *Runtime) currentParent() uint64 {
	if n := len(rt.rendering); n > 0 {
		return rt.rendering[n-1].id
	}
	return 0
}

// relink updates ancestors that rendered i at their root after i's live node
// was replaced.
func (rt *Runtime) relink(i *Instance, oldLive, newLive *html.Node) {
	for p := rt.live[i.parentID]; p != nil && p.liveNode == oldLive; p = rt.live[p.parentID] {
		p.liveNode = newLive
	}
}

func (rt *Runtime) observePatch(op string) {
	switch op {
	case OpCreate:
		rt.stats.Created++
	case OpMove:
		rt.stats.Moved++
	case OpRemove:
		rt.stats.Removed++
	case OpReplace:
		rt.stats.Replaced++
	case OpAttr:
		rt.stats.Attrs++
	case OpText:
		rt.stats.Texts++
	}
	if rt.metrics != nil {
		rt.metrics.ObservePatch(op, 1)
	}
}

// Root is a mounted tree.
type Root struct {
	rt     *Runtime
	target *html.Node
	tree   *vdom.VNode
	live   *html.Node
	inst   *Instance
}

// Node returns the live root node, or nil after Unmount.
func (r *Root) Node() *html.Node {
	if r.inst != nil && r.inst.liveNode != nil {
		return r.inst.liveNode
	}
	return r.live
}

// Instance returns the root component instance, or nil when the root is not
// a component.
func (r *Root) Instance() *Instance { return r.inst }

// Tree returns the node last mounted or patched at the root.
func (r *Root) Tree() *vdom.VNode { return r.tree }

// HTML serializes the live root node.
func (r *Root) HTML() string {
	n := r.Node()
	if n == nil {
		return ""
	}
	return dom.OuterHTML(n)
}

// Update patches the root against next.
func (r *Root) Update(ctx context.Context, next *vdom.VNode) error {
	if r.tree == nil {
		return fmt.Errorf("vui: update of unmounted root")
	}
	_, span := r.rt.tracer.Start(ctx, "vui.update",
		trace.WithAttributes(attribute.String("vui.root", next.Name())))
	defer span.End()

	var live *html.Node
	err := r.rt.commit(func() {
		live = r.rt.patch(r.Node(), r.tree, next)
	}, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	r.tree = next
	r.live = live
	r.inst = nil
	if next.Kind == vdom.KindComponent {
		r.inst = r.rt.owners[next]
	}
	return nil
}

// Unmount tears the tree down and detaches it from its target.
func (r *Root) Unmount() {
	if r.tree == nil {
		return
	}
	live := r.Node()
	r.rt.sched.Batch(func() {
		r.rt.events.Forget(live)
		r.rt.teardown(r.tree)
		if live != nil {
			dom.Detach(live)
		}
	})
	r.tree, r.live, r.inst = nil, nil, nil
}
