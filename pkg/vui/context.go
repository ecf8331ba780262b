package vui

import (
	"github.com/vango-dev/vui/pkg/vdom"
)

// contextLink lets an instance drop its subscriptions at unmount without
// knowing the context's value type.
type contextLink interface {
	unsubscribe(rt *Runtime, id uint64)
}

// subscriber identifies a subscribed instance by runtime and identifier.
type subscriber struct {
	rt *Runtime
	id uint64
}

// Context carries a value to the components below its Provider. Values are
// replaced wholesale; subscribers re-render synchronously on change.
type Context[T any] struct {
	value    T
	subs     []subscriber
	provider *FuncType
	consumer *FuncType
}

// CreateContext creates a context holding defaultValue.
func CreateContext[T any](defaultValue T) *Context[T] {
	c := &Context[T]{value: defaultValue}
	c.provider = Func("Context.Provider", c.renderProvider)
	c.consumer = Func("Context.Consumer", c.renderConsumer)
	return c
}

// Get returns the current value.
func (c *Context[T]) Get() T { return c.value }

// Set replaces the value and force-updates every subscriber, unless v is the
// same value as the current one.
func (c *Context[T]) Set(v T) {
	if vdom.SameValue(any(c.value), any(v)) {
		return
	}
	c.value = v
	subs := append([]subscriber(nil), c.subs...)
	for _, s := range subs {
		if inst := s.rt.live[s.id]; inst != nil {
			inst.ForceUpdate()
		}
	}
}

// Subscribers returns the number of subscribed instances.
func (c *Context[T]) Subscribers() int { return len(c.subs) }

// Provider builds a node that writes value into the context whenever it
// renders and renders children.
func (c *Context[T]) Provider(value T, children ...any) *vdom.VNode {
	return c.provider.H(vdom.Props{"value": value}, children...)
}

// Consumer builds a node that subscribes to the context and renders
// render(current value).
func (c *Context[T]) Consumer(render func(T) *vdom.VNode) *vdom.VNode {
	return c.consumer.H(vdom.Props{"render": render})
}

func (c *Context[T]) renderProvider(h *Hooks, props vdom.Props) *vdom.VNode {
	v, _ := props.Get("value").(T)
	c.Set(v)
	return single(Children(props))
}

func (c *Context[T]) renderConsumer(h *Hooks, props vdom.Props) *vdom.VNode {
	slot, first := h.next(slotContext)
	if first {
		c.subscribe(h.inst)
		slot.value = c
	}
	render, _ := props.Get("render").(func(T) *vdom.VNode)
	if render == nil {
		return nil
	}
	return render(c.value)
}

func (c *Context[T]) subscribe(inst *Instance) {
	c.subs = append(c.subs, subscriber{rt: inst.rt, id: inst.id})
	inst.contexts = append(inst.contexts, c)
}

func (c *Context[T]) unsubscribe(rt *Runtime, id uint64) {
	for n, s := range c.subs {
		if s.rt == rt && s.id == id {
			c.subs = append(c.subs[:n], c.subs[n+1:]...)
			return
		}
	}
}
