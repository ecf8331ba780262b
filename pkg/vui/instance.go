package vui

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/vui/pkg/dom"
	"github.com/vango-dev/vui/pkg/sched"
	"github.com/vango-dev/vui/pkg/vdom"
)

// Instance is the lifecycle container of one mounted component: props, state,
// hook slots, its live node and the tree it last rendered.
//
// Lifecycle: created when its node is materialized, mounted once its output
// is attached, unmounted (terminal) when removed from the tree.
type Instance struct {
	id   uint64
	rt   *Runtime
	node *vdom.VNode // key in the runtime's owners table
	name string
	fn   *FuncType
	comp Component
	file string
	line int

	props   vdom.Props
	state   State
	base    State // state as of the last render, while an update is pending
	dirty   bool
	force   bool
	reset   bool // next re-render replaces the subtree instead of patching
	queued  []func()

	liveNode     *html.Node
	previousTree *vdom.VNode

	mounted   bool
	committed bool // DidMount has run
	unmounted bool

	boundaryID uint64 // nearest enclosing boundary, 0 when none
	parentID   uint64 // instance whose render produced this one, 0 at the root
	children   []uint64

	slots    []*hookSlot
	renders  int
	contexts []contextLink

	task *sched.Task
}

func (rt *Runtime) newInstance(node *vdom.VNode) *Instance {
	rt.nextID++
	i := &Instance{
		id:         rt.nextID,
		rt:         rt,
		node:       node,
		name:       node.Comp.ComponentName(),
		props:      componentProps(node),
		boundaryID: rt.currentBoundary(),
		parentID:   rt.currentParent(),
	}
	switch t := node.Comp.(type) {
	case *FuncType:
		i.fn = t
		i.file, i.line = t.file, t.line
	case *ClassType:
		i.file, i.line = t.file, t.line
		i.comp = t.ctor()
		if b, ok := i.comp.(binder); ok {
			b.bind(i)
		}
		if s, ok := i.comp.(InitialStater); ok {
			i.state = s.InitialState()
		}
	default:
		panic(&RenderError{
			Component: i.name,
			Phase:     phaseRender,
			Err:       fmt.Errorf("unsupported component type %T", node.Comp),
		})
	}
	if i.state == nil {
		i.state = State{}
	}
	i.task = sched.NewTask(i.name, i.flush)
	rt.live[i.id] = i
	rt.owners[node] = i
	if parent := rt.live[i.parentID]; parent != nil {
		parent.children = append(parent.children, i.id)
	}
	return i
}

// ID returns the instance identifier, unique within its runtime.
func (i *Instance) ID() uint64 { return i.id }

// Name returns the component name.
func (i *Instance) Name() string { return i.name }

// Props returns the current props.
func (i *Instance) Props() vdom.Props { return i.props }

// State returns the committed state.
func (i *Instance) State() State { return i.state }

// Component returns the class component value, or nil for function components.
func (i *Instance) Component() Component { return i.comp }

// Mounted reports whether the instance is mounted.
func (i *Instance) Mounted() bool { return i.mounted }

// Node returns the live node the instance rendered.
func (i *Instance) Node() *html.Node { return i.liveNode }

// Tree returns the tree the instance last rendered.
func (i *Instance) Tree() *vdom.VNode { return i.previousTree }

// RenderCount returns how many times the instance rendered.
func (i *Instance) RenderCount() int { return i.renders }

func (i *Instance) isBoundary() bool {
	_, ok := i.comp.(ErrorBoundary)
	return ok
}

// SetState merges partial into the state and schedules the instance's
// update. Updates issued in one batching window render once.
func (i *Instance) SetState(partial State, callbacks ...func()) {
	i.enqueue(partial, false, callbacks)
}

// ForceUpdate schedules a re-render that bypasses ShouldUpdate. It does
// nothing unless the instance is mounted.
func (i *Instance) ForceUpdate(callbacks ...func()) {
	if !i.mounted {
		return
	}
	i.enqueue(nil, true, callbacks)
}

func (i *Instance) enqueue(partial State, force bool, callbacks []func()) {
	if i.unmounted {
		i.rt.logger.Debug("vui: update of unmounted component ignored", "component", i.name)
		return
	}
	if partial != nil {
		if i.mounted && i.base == nil {
			i.base = i.state
		}
		i.state = i.state.merge(partial)
	}
	if !i.mounted {
		// Rendering for the first time; callbacks run after DidMount.
		i.queued = append(i.queued, callbacks...)
		return
	}
	i.dirty = true
	i.force = i.force || force
	i.queued = append(i.queued, callbacks...)
	i.rt.sched.Schedule(i.task)
}

// flush is the instance's scheduled update task.
func (i *Instance) flush() {
	if !i.mounted || !i.dirty {
		return
	}
	i.commitUpdate(i.props)
}

// receive applies props from a parent re-render.
func (i *Instance) receive(props vdom.Props) {
	i.commitUpdate(props)
}

// commitUpdate consumes the pending update and its callbacks, then
// re-renders unless ShouldUpdate vetoes it.
func (i *Instance) commitUpdate(props vdom.Props) {
	prevState := i.state
	if i.base != nil {
		prevState = i.base
	}
	force := i.force
	callbacks := i.queued
	i.base, i.dirty, i.force, i.queued = nil, false, false, nil

	veto := false
	if !force {
		next := i.state
		i.asOf(prevState, func() { veto = i.vetoed(props, next) })
	}
	if veto {
		i.props = props
	} else {
		i.rerender(props, prevState)
	}
	for _, cb := range callbacks {
		cb()
	}
}

func (i *Instance) vetoed(props vdom.Props, state State) (veto bool) {
	s, ok := i.comp.(ShouldUpdater)
	if !ok {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			i.handleError(newRenderError(r, i.name, phaseRender, i.file, i.line), false)
			veto = true
		}
	}()
	return !s.ShouldUpdate(props, state)
}

// asOf runs fn with the state temporarily set to s, so ShouldUpdate and
// WillUpdate observe the current state through Base.State.
func (i *Instance) asOf(s State, fn func()) {
	next := i.state
	i.state = s
	defer func() { i.state = next }()
	fn()
}

// render invokes the component. Panics are re-raised as *RenderError naming
// this component, unless a deeper component already claimed them.
func (i *Instance) render() (tree *vdom.VNode) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if i.rt.metrics != nil {
				i.rt.metrics.ObserveRenderError(i.name)
			}
			panic(newRenderError(r, i.name, phaseRender, i.file, i.line))
		}
	}()

	switch {
	case i.fn != nil:
		tree = i.renderHooks()
	case i.isBoundary() && BoundaryStateOf(i.state).HasError:
		tree = i.comp.(ErrorBoundary).Fallback(BoundaryStateOf(i.state).Err)
	default:
		tree = i.comp.Render()
	}
	if tree == nil {
		tree = vdom.Text("")
	}
	i.renders++
	i.rt.renders++
	if i.rt.metrics != nil {
		i.rt.metrics.ObserveRender(i.name, time.Since(start))
	}
	return tree
}

func (i *Instance) renderHooks() *vdom.VNode {
	h := &Hooks{inst: i, active: true}
	defer h.deactivate()
	tree := i.fn.render(h, i.props)
	h.finish()
	return tree
}

// mount renders the instance and materializes its output. DidMount is queued
// and runs once the whole committed subtree is attached.
func (i *Instance) mount() *html.Node {
	rt := i.rt
	rt.pushRendering(i)
	defer rt.popRendering()

	tree := i.render()
	i.previousTree = tree

	var live *html.Node
	if i.isBoundary() {
		live = i.materializeGuarded(tree)
	} else {
		live = rt.materialize(tree)
	}
	i.liveNode = live
	i.mounted = true
	rt.mountQueue = append(rt.mountQueue, i)
	return live
}

// materializeGuarded materializes a boundary's subtree. A render error below
// the boundary discards the partial subtree and mounts the fallback instead.
func (i *Instance) materializeGuarded(tree *vdom.VNode) *html.Node {
	live, registered, caught := i.tryMaterialize(tree)
	if caught == nil {
		return live
	}
	for _, el := range registered {
		i.rt.events.Forget(el)
	}
	i.unmountChildren()
	i.catch(caught)

	fallback := i.render()
	i.previousTree = fallback
	return i.rt.materialize(fallback)
}

// tryMaterialize materializes tree under this boundary and reports the
// elements that received handlers. Enclosing boundaries see them too.
func (i *Instance) tryMaterialize(tree *vdom.VNode) (live *html.Node, registered []*html.Node, caught *RenderError) {
	rt := i.rt
	rt.pushBoundary(i.id)
	defer rt.popBoundary()

	outer := rt.registered
	rt.registered = &registered
	defer func() {
		rt.registered = outer
		if outer != nil {
			*outer = append(*outer, registered...)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			caught = catchable(r)
		}
	}()
	live = rt.materialize(tree)
	return live, registered, nil
}

// catchable returns r as a boundary-catchable error or re-panics.
func catchable(r any) *RenderError {
	if err, ok := r.(*RenderError); ok {
		return err
	}
	panic(r)
}

// rerender runs the update step: WillUpdate, render, patch, DidUpdate.
// Updates requested meanwhile are flushed after the step completes.
func (i *Instance) rerender(props vdom.Props, prevState State) {
	rt := i.rt
	prevProps := i.props

	rt.sched.BatchStart()
	defer rt.sched.BatchEnd()

	// guarding is set while this boundary patches its own children; a
	// failure there is caught here rather than by an enclosing boundary.
	guarding := false
	var registered []*html.Node
	defer func() {
		if r := recover(); r != nil {
			if guarding {
				for _, el := range registered {
					rt.events.Forget(el)
				}
			}
			i.handleError(r, guarding)
		}
	}()

	if w, ok := i.comp.(WillUpdater); ok {
		next := i.state
		i.asOf(prevState, func() {
			i.call(phaseWillUpdate, func() { w.WillUpdate(props, next) })
		})
	}
	i.props = props

	rt.pushRendering(i)
	defer rt.popRendering()
	guards := i.isBoundary() && !BoundaryStateOf(i.state).HasError
	if guards {
		rt.pushBoundary(i.id)
	} else {
		rt.pushBoundary(i.boundaryID)
	}
	defer rt.popBoundary()

	tree := i.render()

	guarding = guards
	if guarding {
		outer := rt.registered
		rt.registered = &registered
		defer func() {
			rt.registered = outer
			if outer != nil {
				*outer = append(*outer, registered...)
			}
		}()
	}
	oldLive := i.liveNode
	var newLive *html.Node
	if i.reset {
		i.reset = false
		stale := i.children
		i.children = nil
		newLive = rt.materialize(tree)
		dom.ReplaceNode(oldLive, newLive)
		rt.events.Forget(oldLive)
		rt.unmountAll(stale)
		rt.observePatch(OpReplace)
	} else {
		newLive = rt.patch(oldLive, i.previousTree, tree)
	}
	i.previousTree = tree
	i.liveNode = newLive
	if newLive != oldLive {
		rt.relink(i, oldLive, newLive)
	}
	rt.flushMounts()
	guarding = false

	if d, ok := i.comp.(DidUpdater); ok {
		i.call(phaseDidUpdate, func() { d.DidUpdate(prevProps, prevState) })
	}
}

// handleError routes a failure of this instance. When catchHere is set the
// instance is a boundary that failed while patching its children and catches
// the error itself; otherwise the error goes to the nearest enclosing
// boundary, or is re-raised when there is none.
func (i *Instance) handleError(r any, catchHere bool) {
	err := newRenderError(r, i.name, phaseRender, i.file, i.line)
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		panic(err)
	}
	if catchHere {
		i.catch(rerr)
		return
	}
	i.route(rerr)
}

// route hands err to the nearest mounted boundary.
func (i *Instance) route(err *RenderError) {
	for b := i.rt.live[i.boundaryID]; b != nil; b = i.rt.live[b.boundaryID] {
		if b.mounted {
			b.catch(err)
			return
		}
	}
	panic(err)
}

// catch records err as the boundary's error state and invokes DidCatch.
func (i *Instance) catch(err *RenderError) {
	i.rt.logger.Warn("vui: error boundary caught render error",
		"boundary", i.name,
		"component", err.Component,
		"phase", err.Phase,
		"error", err.Err,
	)
	if c, ok := i.comp.(DidCatcher); ok {
		c.DidCatch(err, err.Stack)
	}
	if i.mounted {
		i.reset = true
	}
	i.enqueue(DeriveStateFromError(err), true, nil)
}

// call runs a lifecycle callback inside a render step, converting a panic
// into a *RenderError for the step's handler.
func (i *Instance) call(phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			panic(newRenderError(r, i.name, phase, i.file, i.line))
		}
	}()
	fn()
}

// lifecycle runs a callback outside a render step and routes its failure to
// the nearest boundary.
func (i *Instance) lifecycle(phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := newRenderError(r, i.name, phase, i.file, i.line)
			var rerr *RenderError
			if !errors.As(err, &rerr) {
				panic(err)
			}
			i.route(rerr)
		}
	}()
	fn()
}

// quietly runs a teardown callback; failures are logged.
func (i *Instance) quietly(phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			i.rt.logger.Error("vui: teardown callback failed",
				"component", i.name,
				"phase", phase,
				"error", newRenderError(r, i.name, phase, i.file, i.line),
			)
		}
	}()
	fn()
}

func (i *Instance) runQueued() {
	callbacks := i.queued
	i.queued = nil
	for _, cb := range callbacks {
		cb()
	}
}

// unmount runs WillUnmount and effect cleanups, drops context subscriptions,
// tears down the rendered subtree and detaches the live node.
func (i *Instance) unmount() {
	if i.unmounted {
		return
	}
	rt := i.rt
	if w, ok := i.comp.(WillUnmounter); ok && i.committed {
		i.quietly(phaseWillUnmount, w.WillUnmount)
	}
	i.cleanupEffects()
	for _, c := range i.contexts {
		c.unsubscribe(rt, i.id)
	}
	i.contexts = nil

	tree := i.previousTree
	i.previousTree = nil
	rt.teardown(tree)
	i.unmountChildren()
	if i.liveNode != nil {
		rt.events.Forget(i.liveNode)
		dom.Detach(i.liveNode)
		i.liveNode = nil
	}

	i.mounted = false
	i.committed = false
	i.unmounted = true
	i.base, i.queued = nil, nil
	delete(rt.live, i.id)
	if rt.owners[i.node] == i {
		delete(rt.owners, i.node)
	}
	if parent := rt.live[i.parentID]; parent != nil {
		parent.removeChild(i.id)
	}
}

// unmountChildren unmounts every instance this one rendered, in creation
// order.
func (i *Instance) unmountChildren() {
	children := i.children
	i.children = nil
	i.rt.unmountAll(children)
}

func (rt *Runtime) unmountAll(ids []uint64) {
	for _, id := range ids {
		if inst := rt.live[id]; inst != nil {
			inst.unmount()
		}
	}
}

func (i *Instance) removeChild(id uint64) {
	for n, c := range i.children {
		if c == id {
			i.children = append(i.children[:n], i.children[n+1:]...)
			return
		}
	}
}
