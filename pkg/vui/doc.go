// Package vui is the component runtime: lifecycle containers, hooks,
// reconciliation, context and error boundaries.
//
// # Components
//
// Function components receive an explicit hook cursor:
//
//	var Counter = vui.Func("Counter", func(h *vui.Hooks, props vdom.Props) *vdom.VNode {
//	    count, setCount := vui.UseState(h, 0)
//	    return vdom.Button(
//	        vdom.OnClick(func() { setCount.Set(count + 1) }),
//	        vdom.Textf("%d", count),
//	    )
//	})
//
// Class components embed Base and implement Render plus any of the optional
// lifecycle interfaces (DidMounter, ShouldUpdater, ...):
//
//	type clock struct{ vui.Base }
//
//	func (c *clock) Render() *vdom.VNode { return vdom.Span(c.State().Str("now")) }
//
//	var Clock = vui.Class("Clock", func() vui.Component { return &clock{} })
//
// # Rendering
//
// A Runtime owns one document, scheduler and event system:
//
//	rt := vui.New(dom.NewDocument(), vui.WithLogger(logger))
//	root, err := rt.Mount(ctx, Counter.H(nil), "body")
//
// State changes schedule re-renders through the scheduler. Inside an event
// handler, or any explicit Batch, updates coalesce and each component renders
// once per window. Re-renders patch the live tree in place: keyed children keep
// their live nodes across reorders.
//
// # Errors
//
// A panic while rendering becomes a *RenderError. Components under a Boundary
// fall back to the boundary's fallback output; without a boundary the error is
// returned by Mount or Root.Update, or logged when it happens in a scheduled
// update. Hook misuse panics with *HookMisuseError and is never caught by a
// boundary.
//
// A Runtime is not safe for concurrent use.
package vui
