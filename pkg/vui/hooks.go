package vui

import (
	"fmt"

	verrors "github.com/vango-dev/vui/internal/errors"
	"github.com/vango-dev/vui/pkg/vdom"
)

// Hooks is the render cursor of a function component. It is valid only
// during the render it was passed to; every hook call advances it by one
// slot.
type Hooks struct {
	inst   *Instance
	idx    int
	active bool
}

// Deps lists the values an effect or memo depends on. A nil Deps changes on
// every render; an empty, non-nil Deps never changes.
type Deps []any

// Cleanup undoes an effect.
type Cleanup func()

// slotKind identifies the hook that owns a slot.
type slotKind uint8

const (
	slotState slotKind = iota + 1
	slotEffect
	slotLayoutEffect
	slotMemo
	slotRef
	slotReducer
	slotContext
)

func (k slotKind) String() string {
	switch k {
	case slotState:
		return "UseState"
	case slotEffect:
		return "UseEffect"
	case slotLayoutEffect:
		return "UseLayoutEffect"
	case slotMemo:
		return "UseMemo"
	case slotRef:
		return "UseRef"
	case slotReducer:
		return "UseReducer"
	case slotContext:
		return "Consumer"
	default:
		return "Unknown"
	}
}

// hookSlot stores one hook's state across renders. Identity is position.
type hookSlot struct {
	kind     slotKind
	value    any
	deps     Deps
	cleanup  Cleanup
	reducer  any
	dispatch any
}

func (h *Hooks) deactivate() { h.active = false }

// Instance returns the instance being rendered.
func (h *Hooks) Instance() *Instance {
	if h == nil {
		return nil
	}
	return h.inst
}

// next returns the slot for the current hook call, creating it on the first
// render. It panics with a HookMisuseError when the cursor is not rendering
// or the hook sequence differs from the previous render.
func (h *Hooks) next(kind slotKind) (slot *hookSlot, first bool) {
	if h == nil || !h.active || h.inst == nil {
		panic(&HookMisuseError{
			Code: verrors.CodeHookOutsideRender,
			Hook: kind.String(),
		})
	}
	inst := h.inst
	idx := h.idx
	h.idx++

	if idx < len(inst.slots) {
		slot = inst.slots[idx]
		if slot.kind != kind {
			panic(&HookMisuseError{
				Code:      verrors.CodeHookOrderChanged,
				Hook:      kind.String(),
				Component: inst.name,
				Detail:    fmt.Sprintf("slot %d held %s on the previous render", idx, slot.kind),
			})
		}
		return slot, false
	}
	if inst.renders > 0 {
		panic(&HookMisuseError{
			Code:      verrors.CodeHookOrderChanged,
			Hook:      kind.String(),
			Component: inst.name,
			Detail:    fmt.Sprintf("render called %d hooks, previous render called %d", idx+1, len(inst.slots)),
		})
	}
	slot = &hookSlot{kind: kind}
	inst.slots = append(inst.slots, slot)
	return slot, true
}

// finish checks the slot count after a render when debugging is enabled.
func (h *Hooks) finish() {
	inst := h.inst
	if !inst.rt.debug || inst.renders == 0 || h.idx == len(inst.slots) {
		return
	}
	panic(&HookMisuseError{
		Code:      verrors.CodeHookOrderChanged,
		Hook:      "render",
		Component: inst.name,
		Detail:    fmt.Sprintf("render called %d hooks, previous render called %d", h.idx, len(inst.slots)),
	})
}

// requestUpdate schedules a re-render after a hook value changed.
func (i *Instance) requestUpdate() {
	if i.unmounted {
		return
	}
	i.dirty = true
	i.force = true
	i.rt.sched.Schedule(i.task)
}

// cleanupEffects runs stored effect cleanups in slot order.
func (i *Instance) cleanupEffects() {
	for _, slot := range i.slots {
		if slot.cleanup == nil {
			continue
		}
		cleanup := slot.cleanup
		slot.cleanup = nil
		i.quietly("cleanup", cleanup)
	}
}

// Setter writes a state slot.
type Setter[T any] struct {
	inst *Instance
	slot *hookSlot
}

// Set stores v and schedules a re-render unless v is the same value as the
// current one.
func (s Setter[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update stores fn(current) and schedules a re-render unless the result is
// the same value as the current one.
func (s Setter[T]) Update(fn func(T) T) {
	if s.slot == nil {
		return
	}
	cur, _ := s.slot.value.(T)
	next := fn(cur)
	if vdom.SameValue(any(cur), any(next)) {
		return
	}
	s.slot.value = next
	s.inst.requestUpdate()
}

// UseState returns the current value of a state slot and its setter.
func UseState[T any](h *Hooks, initial T) (T, Setter[T]) {
	slot, first := h.next(slotState)
	if first {
		slot.value = initial
	}
	v, _ := slot.value.(T)
	return v, Setter[T]{inst: h.inst, slot: slot}
}

// UseStateFunc is UseState with a lazily produced initial value.
func UseStateFunc[T any](h *Hooks, producer func() T) (T, Setter[T]) {
	slot, first := h.next(slotState)
	if first {
		slot.value = producer()
	}
	v, _ := slot.value.(T)
	return v, Setter[T]{inst: h.inst, slot: slot}
}

// UseEffect runs effect during render when deps changed since the previous
// run, after running the previous cleanup. The cleanup returned by effect
// also runs at unmount.
func UseEffect(h *Hooks, effect func() Cleanup, deps Deps) {
	useEffect(h, slotEffect, effect, deps)
}

// UseLayoutEffect behaves like UseEffect.
func UseLayoutEffect(h *Hooks, effect func() Cleanup, deps Deps) {
	useEffect(h, slotLayoutEffect, effect, deps)
}

func useEffect(h *Hooks, kind slotKind, effect func() Cleanup, deps Deps) {
	slot, first := h.next(kind)
	if !first && !vdom.DepsChanged(slot.deps, deps) {
		return
	}
	if slot.cleanup != nil {
		cleanup := slot.cleanup
		slot.cleanup = nil
		cleanup()
	}
	slot.deps = cloneDeps(deps)
	slot.cleanup = effect()
}

// UseMemo returns compute(), recomputed only when deps changed.
func UseMemo[T any](h *Hooks, compute func() T, deps Deps) T {
	slot, first := h.next(slotMemo)
	if first || vdom.DepsChanged(slot.deps, deps) {
		slot.value = compute()
		slot.deps = cloneDeps(deps)
	}
	v, _ := slot.value.(T)
	return v
}

// UseCallback returns fn as stored when deps last changed.
func UseCallback[F any](h *Hooks, fn F, deps Deps) F {
	return UseMemo(h, func() F { return fn }, deps)
}

// Ref is a mutable box that survives re-renders. Writing Current never
// schedules a render. A *Ref[*html.Node] passed as the "ref" prop of an
// element receives the element's live node.
type Ref[T any] struct {
	Current T
}

// UseRef returns the instance's ref for this slot.
func UseRef[T any](h *Hooks, initial T) *Ref[T] {
	slot, first := h.next(slotRef)
	if first {
		slot.value = &Ref[T]{Current: initial}
	}
	return slot.value.(*Ref[T])
}

// UseReducer returns the current reducer state and a dispatch function. The
// dispatch function is the same value on every render.
// Dispatch applies the reducer and schedules a re-render when the result is
// not the same value. init, when non-nil, derives the initial state.
func UseReducer[S, A any](h *Hooks, reducer func(S, A) S, initial S, init func(S) S) (S, func(A)) {
	slot, first := h.next(slotReducer)
	if first {
		v := initial
		if init != nil {
			v = init(initial)
		}
		slot.value = v
	}
	slot.reducer = reducer
	if first {
		inst := h.inst
		slot.dispatch = func(action A) {
			cur, _ := slot.value.(S)
			r := slot.reducer.(func(S, A) S)
			next := r(cur, action)
			if vdom.SameValue(any(cur), any(next)) {
				return
			}
			slot.value = next
			inst.requestUpdate()
		}
	}
	v, _ := slot.value.(S)
	return v, slot.dispatch.(func(A))
}

// UseContext reads the current value of c. The component is not subscribed:
// it observes a new value only when it re-renders for another reason. Use
// Consumer to re-render on change.
func UseContext[T any](h *Hooks, c *Context[T]) T {
	if h == nil || !h.active {
		panic(&HookMisuseError{Code: verrors.CodeHookOutsideRender, Hook: "UseContext"})
	}
	return c.Get()
}

func cloneDeps(deps Deps) Deps {
	if deps == nil {
		return nil
	}
	return append(make(Deps, 0, len(deps)), deps...)
}
