package demo

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/vango-dev/vui/pkg/dom"
	"github.com/vango-dev/vui/pkg/vdom"
	"github.com/vango-dev/vui/pkg/vui"
)

func mountDemo(t *testing.T, node *vdom.VNode) (*vui.Runtime, *vui.Root) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := vui.New(dom.NewDocument(), vui.WithLogger(logger))
	root, err := rt.Mount(context.Background(), node, "body")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return rt, root
}

func element(t *testing.T, rt *vui.Runtime, id string) *html.Node {
	t.Helper()
	n := rt.Document().GetElementByID(id)
	if n == nil {
		t.Fatalf("no element with id %q in %s", id, rt.Document().String())
	}
	return n
}

func click(t *testing.T, rt *vui.Runtime, id string) {
	t.Helper()
	rt.Dispatch(dom.NewEvent("click", element(t, rt, id)))
}

func text(t *testing.T, rt *vui.Runtime, id string) string {
	t.Helper()
	return dom.TextContent(element(t, rt, id))
}

func TestRegistry(t *testing.T) {
	names := Names()
	if diff := cmp.Diff([]string{"boundary", "counter", "todo"}, names); diff != "" {
		t.Fatalf("Names() mismatch (-want +got):\n%s", diff)
	}
	for _, name := range names {
		d, ok := Get(name)
		if !ok || d.Name != name || d.Root == nil || d.Action == "" {
			t.Errorf("Get(%q) = %+v, %v", name, d, ok)
			continue
		}
		rt, _ := mountDemo(t, d.Root())
		element(t, rt, d.Action)
	}
	if _, ok := Get("missing"); ok {
		t.Error("Get(missing) should fail")
	}
}

func TestCounter(t *testing.T) {
	rt, root := mountDemo(t, CounterType.H(vdom.Props{"start": 5}))
	if got := text(t, rt, "count"); got != "5" {
		t.Fatalf("count = %q, want 5", got)
	}

	rt.Batch(func() {
		click(t, rt, "increment")
		click(t, rt, "increment")
		click(t, rt, "increment")
	})
	if got := text(t, rt, "count"); got != "8" {
		t.Errorf("count = %q, want 8", got)
	}
	if got := root.Instance().RenderCount(); got != 2 {
		t.Errorf("RenderCount = %d, want 2", got)
	}

	click(t, rt, "decrement")
	if got := text(t, rt, "count"); got != "7" {
		t.Errorf("count = %q, want 7", got)
	}
}

func TestReduce(t *testing.T) {
	s := TodoState{Next: 1}
	s = Reduce(s, Action{Kind: ActionAdd, Text: "a"})
	s = Reduce(s, Action{Kind: ActionAdd, Text: "  "})
	s = Reduce(s, Action{Kind: ActionAdd, Text: "b"})
	if len(s.Items) != 2 || s.Next != 3 {
		t.Fatalf("after adds: %+v", s)
	}

	before := s
	toggled := Reduce(s, Action{Kind: ActionToggle, ID: 1})
	if !toggled.Items[0].Done || before.Items[0].Done {
		t.Errorf("toggle mutated input or missed item: before %+v after %+v", before, toggled)
	}

	reversed := Reduce(toggled, Action{Kind: ActionReverse})
	if reversed.Items[0].Text != "b" || reversed.Items[1].Text != "a" {
		t.Errorf("reverse = %+v", reversed.Items)
	}

	removed := Reduce(reversed, Action{Kind: ActionRemove, ID: 2})
	want := TodoState{Items: []Item{{ID: 1, Text: "a", Done: true}}, Next: 3}
	if diff := cmp.Diff(want, removed); diff != "" {
		t.Errorf("after remove (-want +got):\n%s", diff)
	}
}

func TestTodoList(t *testing.T) {
	rt, _ := mountDemo(t, Todo([]string{"write", "test"}))

	if got := text(t, rt, "remaining"); got != "2 remaining" {
		t.Errorf("remaining = %q", got)
	}
	span := element(t, rt, "item-1").FirstChild
	if !dom.HasClass(span, "theme-dark") {
		t.Errorf("item not themed: %s", dom.OuterHTML(span))
	}

	// Typing updates the draft; Add appends it and clears the input.
	input := dom.NewEvent("input", element(t, rt, "draft"))
	input.Detail = map[string]any{"value": "ship"}
	rt.Dispatch(input)
	click(t, rt, "add")
	if got := text(t, rt, "item-3"); !strings.HasPrefix(got, "ship") {
		t.Errorf("item-3 = %q", got)
	}
	if v, _ := dom.GetAttribute(element(t, rt, "draft"), "value"); v != "" {
		t.Errorf("draft value = %q, want empty", v)
	}

	// Empty draft adds a numbered item.
	click(t, rt, "add")
	if got := text(t, rt, "item-4"); !strings.HasPrefix(got, "Item 4") {
		t.Errorf("item-4 = %q", got)
	}

	click(t, rt, "toggle-1")
	if !dom.HasClass(element(t, rt, "item-1"), "done") {
		t.Error("item-1 not marked done")
	}
	if got := text(t, rt, "remaining"); got != "3 remaining" {
		t.Errorf("remaining = %q", got)
	}

	click(t, rt, "remove-2")
	if rt.Document().GetElementByID("item-2") != nil {
		t.Error("item-2 still rendered")
	}
}

func TestTodoReverseKeepsNodes(t *testing.T) {
	rt, _ := mountDemo(t, Todo([]string{"a", "b", "c"}))
	before := []*html.Node{element(t, rt, "item-1"), element(t, rt, "item-2"), element(t, rt, "item-3")}

	click(t, rt, "reverse")

	order := dom.Children(element(t, rt, "items"))
	if len(order) != 3 {
		t.Fatalf("items = %d, want 3", len(order))
	}
	for i, n := range order {
		if n != before[2-i] {
			t.Errorf("position %d holds a new node", i)
		}
	}
}

func TestBoundaryDemo(t *testing.T) {
	rt, root := mountDemo(t, GuardType.H(nil, FuseType.H(nil)))
	g := root.Instance().Component().(*guard)

	click(t, rt, "trigger")
	if got := text(t, rt, "reason"); got != "fuse blown" {
		t.Errorf("reason = %q", got)
	}
	if !strings.Contains(text(t, rt, "fallback"), "Something went wrong.") {
		t.Error("fallback message missing")
	}
	if g.caught != 1 {
		t.Errorf("caught = %d, want 1", g.caught)
	}

	click(t, rt, "retry")
	if rt.Document().GetElementByID("fallback") != nil {
		t.Fatal("fallback still shown after retry")
	}
	if got := text(t, rt, "fuse"); !strings.Contains(got, "armed") {
		t.Errorf("fuse = %q", got)
	}

	click(t, rt, "trigger")
	if got := text(t, rt, "reason"); got != "fuse blown" {
		t.Errorf("reason after second trigger = %q", got)
	}
	if g.caught != 2 {
		t.Errorf("caught = %d, want 2", g.caught)
	}
	if got := rt.Events().HandlerCount("click"); got != 1 {
		t.Errorf("click handlers = %d, want 1 (retry only)", got)
	}
}
