package demo

import (
	"errors"

	"github.com/vango-dev/vui/pkg/vdom"
	"github.com/vango-dev/vui/pkg/vui"
)

// GuardType is an error boundary whose fallback offers a retry button.
var GuardType = vui.Class("Guard", func() vui.Component { return &guard{} })

type guard struct {
	vui.Base
	caught int
}

func (g *guard) Render() *vdom.VNode {
	return vdom.Div(vdom.ID("guarded"), g.Children())
}

// Fallback shows the failure's cause rather than the render error wrapping it.
func (g *guard) Fallback(err error) *vdom.VNode {
	reason := err
	var rerr *vui.RenderError
	if errors.As(err, &rerr) && rerr.Err != nil {
		reason = rerr.Err
	}
	return vdom.Div(vdom.ID("fallback"), vdom.Role("alert"),
		vdom.P("Something went wrong."),
		vdom.Pre(vdom.ID("reason"), reason.Error()),
		vdom.Button(vdom.ID("retry"), vdom.OnClick(g.ResetBoundary), "Retry"),
	)
}

func (g *guard) DidCatch(err error, stack string) {
	g.caught++
}

// FuseType renders normally until its trigger is clicked, then fails to
// render.
var FuseType = vui.Func("Fuse", func(h *vui.Hooks, props vdom.Props) *vdom.VNode {
	blown, setBlown := vui.UseState(h, false)
	if blown {
		panic(errors.New("fuse blown"))
	}
	return vdom.Div(vdom.ID("fuse"),
		vdom.Span("armed"),
		vdom.Button(vdom.ID("trigger"), vdom.OnClick(func() { setBlown.Set(true) }), "Trigger"),
	)
})
