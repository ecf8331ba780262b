package vui

import (
	"testing"

	"github.com/vango-dev/vui/pkg/vdom"
)

func themeLabel(v string) *vdom.VNode {
	return vdom.Span(vdom.ID("theme"), v)
}

func TestProviderConsumer(t *testing.T) {
	rt := newRuntime(t)
	theme := CreateContext("light")
	root := mount(t, rt, theme.Provider("dark", vdom.Div(theme.Consumer(themeLabel))))

	if got := textOf(t, rt, "theme"); got != "dark" {
		t.Fatalf("theme = %q, want dark", got)
	}
	if theme.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", theme.Subscribers())
	}

	theme.Set("blue")
	if got := textOf(t, rt, "theme"); got != "blue" {
		t.Errorf("theme = %q after Set, want blue", got)
	}

	root.Unmount()
	if theme.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after unmount, want 0", theme.Subscribers())
	}
}

func TestConsumerWithoutProviderSeesDefault(t *testing.T) {
	rt := newRuntime(t)
	theme := CreateContext("light")
	mount(t, rt, theme.Consumer(themeLabel))

	if got := textOf(t, rt, "theme"); got != "light" {
		t.Errorf("theme = %q, want light", got)
	}
}

func TestProviderValueChangeRendersConsumerOnce(t *testing.T) {
	rt := newRuntime(t)
	theme := CreateContext("light")
	tree := func(v string) *vdom.VNode {
		return theme.Provider(v, vdom.Div(theme.Consumer(themeLabel)))
	}
	root := mount(t, rt, tree("dark"))
	consumer := findInstance(rt, "Context.Consumer")
	if consumer == nil {
		t.Fatal("consumer instance not found")
	}

	update(t, root, tree("dim"))

	if got := textOf(t, rt, "theme"); got != "dim" {
		t.Errorf("theme = %q, want dim", got)
	}
	if consumer.RenderCount() != 2 {
		t.Errorf("consumer RenderCount = %d, want 2", consumer.RenderCount())
	}
}

func TestSetSameValueDoesNotRender(t *testing.T) {
	rt := newRuntime(t)
	theme := CreateContext("light")
	mount(t, rt, theme.Consumer(themeLabel))
	consumer := findInstance(rt, "Context.Consumer")

	theme.Set("light")
	if consumer.RenderCount() != 1 {
		t.Errorf("RenderCount = %d, want 1", consumer.RenderCount())
	}
}

func TestUseContextDoesNotSubscribe(t *testing.T) {
	rt := newRuntime(t)
	theme := CreateContext("light")
	var bump Setter[int]
	reader := Func("Reader", func(h *Hooks, props vdom.Props) *vdom.VNode {
		_, s := UseState(h, 0)
		bump = s
		return vdom.Span(vdom.ID("read"), UseContext(h, theme))
	})
	mount(t, rt, theme.Provider("dark", reader.H(nil)))

	theme.Set("blue")
	if got := textOf(t, rt, "read"); got != "dark" {
		t.Errorf("read = %q, want the stale dark", got)
	}
	if theme.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", theme.Subscribers())
	}

	bump.Set(1)
	if got := textOf(t, rt, "read"); got != "blue" {
		t.Errorf("read = %q after re-render, want blue", got)
	}
}

func TestProviderGroupsChildren(t *testing.T) {
	rt := newRuntime(t)
	theme := CreateContext(0)
	root := mount(t, rt, theme.Provider(1, vdom.Span("a"), vdom.Span("b")))

	if root.Node().Data != "vui-group" {
		t.Errorf("root node = <%s>, want <vui-group>", root.Node().Data)
	}
}
