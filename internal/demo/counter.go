package demo

import (
	"github.com/vango-dev/vui/pkg/vdom"
	"github.com/vango-dev/vui/pkg/vui"
)

// CounterType is a class component counting clicks. The "start" prop sets
// the initial count.
var CounterType = vui.Class("Counter", func() vui.Component { return &counter{} })

type counter struct {
	vui.Base
}

func (c *counter) InitialState() vui.State {
	start, _ := c.Props().Get("start").(int)
	return vui.State{"count": start}
}

func (c *counter) add(delta int) {
	c.SetState(vui.State{"count": c.State().Int("count") + delta})
}

func (c *counter) Render() *vdom.VNode {
	return vdom.Div(vdom.Class("counter"),
		vdom.Button(vdom.ID("decrement"), vdom.OnClick(func() { c.add(-1) }), "-"),
		vdom.Span(vdom.ID("count"), vdom.Textf("%d", c.State().Int("count"))),
		vdom.Button(vdom.ID("increment"), vdom.OnClick(func() { c.add(1) }), "+"),
	)
}
