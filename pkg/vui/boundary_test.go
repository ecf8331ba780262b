package vui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/vui/pkg/vdom"
)

var bomb = Func("Bomb", func(h *Hooks, props vdom.Props) *vdom.VNode {
	panic("boom")
})

type flaky struct {
	Base
}

func (f *flaky) Render() *vdom.VNode {
	if f.State().Bool("fail") {
		panic(errors.New("flaky failed"))
	}
	return vdom.Span(vdom.ID("flaky"), "ok")
}

var flakyType = Class("Flaky", func() Component { return &flaky{} })

type catchLog struct {
	errs   []error
	stacks []string
}

func (c *catchLog) option() BoundaryOption {
	return WithOnCatch(func(err error, stack string) {
		c.errs = append(c.errs, err)
		c.stacks = append(c.stacks, stack)
	})
}

func TestBoundaryCatchesMountError(t *testing.T) {
	rt := newRuntime(t)
	var caught catchLog
	safe := Boundary("Safe", nil, caught.option())

	root := mount(t, rt, vdom.Div(
		vdom.P(vdom.ID("sibling"), "still here"),
		safe.H(nil, bomb.H(nil)),
	))

	if !strings.Contains(root.HTML(), "Something went wrong.") {
		t.Errorf("HTML = %q, want default fallback", root.HTML())
	}
	if got := textOf(t, rt, "sibling"); got != "still here" {
		t.Errorf("sibling = %q", got)
	}
	if len(caught.errs) != 1 {
		t.Fatalf("DidCatch calls = %d, want 1", len(caught.errs))
	}
	var rerr *RenderError
	if !errors.As(caught.errs[0], &rerr) || rerr.Component != "Bomb" {
		t.Errorf("caught %v, want a RenderError from Bomb", caught.errs[0])
	}
	if caught.stacks[0] == "" {
		t.Error("stack is empty")
	}
	if findInstance(rt, "Bomb") != nil {
		t.Error("failed instance still registered")
	}

	state := findInstance(rt, "Safe").Component().(*boundary).BoundaryState()
	if !state.HasError || state.Err == nil {
		t.Errorf("BoundaryState = %+v", state)
	}
}

func TestBoundaryCatchesUpdateError(t *testing.T) {
	rt := newRuntime(t)
	var caught catchLog
	safe := Boundary("Safe", func(err error) *vdom.VNode {
		return vdom.P(vdom.ID("fallback"), err.Error())
	}, caught.option())

	root := mount(t, rt, safe.H(nil, flakyType.H(nil)))
	f := findInstance(rt, "Flaky")
	if got := textOf(t, rt, "flaky"); got != "ok" {
		t.Fatalf("flaky = %q", got)
	}

	f.SetState(State{"fail": true})

	if got := textOf(t, rt, "fallback"); !strings.Contains(got, "flaky failed") {
		t.Errorf("fallback = %q", got)
	}
	if f.Mounted() {
		t.Error("failed instance still mounted")
	}
	if rt.Document().GetElementByID("flaky") != nil {
		t.Error("failed output left in the document")
	}
	if root.Node() != rt.Document().GetElementByID("fallback") {
		t.Error("root does not point at the fallback")
	}
	if len(caught.errs) != 1 {
		t.Errorf("DidCatch calls = %d, want 1", len(caught.errs))
	}
	if rt.Scheduler().Stats().Failed != 0 {
		t.Errorf("caught error escaped to the scheduler")
	}
}

func TestResetBoundary(t *testing.T) {
	rt := newRuntime(t)
	safe := Boundary("Safe", nil)
	mount(t, rt, vdom.Div(safe.H(nil, flakyType.H(nil))))
	findInstance(rt, "Flaky").SetState(State{"fail": true})

	b := findInstance(rt, "Safe")
	if !BoundaryStateOf(b.State()).HasError {
		t.Fatal("boundary did not catch")
	}

	b.ResetBoundary()

	if BoundaryStateOf(b.State()).HasError {
		t.Error("error state not cleared")
	}
	if got := textOf(t, rt, "flaky"); got != "ok" {
		t.Errorf("flaky = %q after reset, want ok", got)
	}
	if f := findInstance(rt, "Flaky"); f == nil || f.RenderCount() != 1 {
		t.Error("children not remounted with fresh instances")
	}
}

func TestBoundaryDropsHandlersOfFailedSubtree(t *testing.T) {
	rt := newRuntime(t)
	safe := Boundary("Safe", nil)
	mount(t, rt, vdom.Div(safe.H(nil, vdom.Div(
		vdom.Button(vdom.OnClick(func() {})),
		bomb.H(nil),
	))))

	if got := rt.Events().HandlerCount("click"); got != 0 {
		t.Errorf("HandlerCount after catch = %d, want 0", got)
	}

	b := findInstance(rt, "Safe")
	for n := 0; n < 3; n++ {
		b.ResetBoundary()
		if !BoundaryStateOf(b.State()).HasError {
			t.Fatal("retry did not fail again")
		}
		if got := rt.Events().HandlerCount("click"); got != 0 {
			t.Errorf("HandlerCount after retry %d = %d, want 0", n+1, got)
		}
	}
}

func TestNestedBoundaries(t *testing.T) {
	tests := []struct {
		name          string
		innerFallback FallbackFunc
		inner, outer  int
	}{
		{"inner catches", nil, 1, 0},
		{"failing fallback escalates", func(error) *vdom.VNode { panic("fallback broke") }, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newRuntime(t)
			var innerLog, outerLog catchLog
			outer := Boundary("Outer", func(error) *vdom.VNode {
				return vdom.P(vdom.ID("outer-fallback"), "outer")
			}, outerLog.option())
			inner := Boundary("Inner", tt.innerFallback, innerLog.option())

			mount(t, rt, outer.H(nil, vdom.Div(inner.H(nil, bomb.H(nil)))))

			if len(innerLog.errs) != tt.inner || len(outerLog.errs) != tt.outer {
				t.Errorf("catches inner=%d outer=%d, want %d/%d",
					len(innerLog.errs), len(outerLog.errs), tt.inner, tt.outer)
			}
			hasOuterFallback := rt.Document().GetElementByID("outer-fallback") != nil
			if hasOuterFallback != (tt.outer > 0) {
				t.Errorf("outer fallback shown = %v", hasOuterFallback)
			}
		})
	}
}

type brokenMount struct {
	Base
}

func (b *brokenMount) DidMount() { panic("mount failed") }

func (b *brokenMount) Render() *vdom.VNode { return vdom.Span(vdom.ID("broken"), "x") }

var brokenMountType = Class("BrokenMount", func() Component { return &brokenMount{} })

func TestBoundaryCatchesDidMountError(t *testing.T) {
	rt := newRuntime(t)
	var caught catchLog
	safe := Boundary("Safe", nil, caught.option())

	root := mount(t, rt, safe.H(nil, brokenMountType.H(nil)))

	if len(caught.errs) != 1 {
		t.Fatalf("DidCatch calls = %d, want 1", len(caught.errs))
	}
	var rerr *RenderError
	if !errors.As(caught.errs[0], &rerr) || rerr.Phase != phaseDidMount {
		t.Errorf("caught %v, want a DidMount failure", caught.errs[0])
	}
	if !strings.Contains(root.HTML(), "Something went wrong.") {
		t.Errorf("HTML = %q, want fallback", root.HTML())
	}
}

func TestHookMisuseNotCaughtByBoundary(t *testing.T) {
	rt := newRuntime(t)
	var caught catchLog
	safe := Boundary("Safe", nil, caught.option())
	misuse := Func("Misuse", func(h *Hooks, props vdom.Props) *vdom.VNode {
		UseState[int](nil, 0)
		return nil
	})

	_, err := rt.Mount(context.Background(), safe.H(nil, misuse.H(nil)), "body")

	if !errors.Is(err, ErrHookMisuse) {
		t.Errorf("Mount error = %v, want hook misuse", err)
	}
	if len(caught.errs) != 0 {
		t.Errorf("boundary caught hook misuse")
	}
	if rt.Instances() != 0 {
		t.Errorf("Instances() = %d after failed mount, want 0", rt.Instances())
	}
}
