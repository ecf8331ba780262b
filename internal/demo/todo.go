package demo

import (
	"strings"

	"github.com/vango-dev/vui/pkg/events"
	"github.com/vango-dev/vui/pkg/vdom"
	"github.com/vango-dev/vui/pkg/vui"
)

// ThemeContext carries the theme name to todo items.
var ThemeContext = vui.CreateContext("light")

// Item is one entry of the todo list.
type Item struct {
	ID   int
	Text string
	Done bool
}

// TodoState is the reducer state of the todo list.
type TodoState struct {
	Items []Item
	Next  int
}

// Action kinds understood by Reduce.
const (
	ActionAdd     = "add"
	ActionToggle  = "toggle"
	ActionRemove  = "remove"
	ActionReverse = "reverse"
)

// Action is dispatched to Reduce.
type Action struct {
	Kind string
	ID   int
	Text string
}

// Reduce applies a to s. It never mutates s.
func Reduce(s TodoState, a Action) TodoState {
	switch a.Kind {
	case ActionAdd:
		text := strings.TrimSpace(a.Text)
		if text == "" {
			return s
		}
		items := append(append([]Item(nil), s.Items...), Item{ID: s.Next, Text: text})
		return TodoState{Items: items, Next: s.Next + 1}
	case ActionToggle:
		items := make([]Item, len(s.Items))
		for i, it := range s.Items {
			if it.ID == a.ID {
				it.Done = !it.Done
			}
			items[i] = it
		}
		return TodoState{Items: items, Next: s.Next}
	case ActionRemove:
		items := make([]Item, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ID != a.ID {
				items = append(items, it)
			}
		}
		return TodoState{Items: items, Next: s.Next}
	case ActionReverse:
		items := make([]Item, len(s.Items))
		for i, it := range s.Items {
			items[len(items)-1-i] = it
		}
		return TodoState{Items: items, Next: s.Next}
	}
	return s
}

// Todo builds the todo demo: a theme provider around the list.
func Todo(initial []string) *vdom.VNode {
	return ThemeContext.Provider("dark", TodoListType.H(vdom.Props{"initial": initial}))
}

// TodoListType renders the list with a draft input and controls.
var TodoListType = vui.Func("TodoList", func(h *vui.Hooks, props vdom.Props) *vdom.VNode {
	initial, _ := props.Get("initial").([]string)
	state, dispatch := vui.UseReducer(h, Reduce, TodoState{Next: 1}, func(s TodoState) TodoState {
		for _, text := range initial {
			s = Reduce(s, Action{Kind: ActionAdd, Text: text})
		}
		return s
	})
	draft, setDraft := vui.UseState(h, "")

	add := vui.UseCallback(h, func() {
		text := draft
		if strings.TrimSpace(text) == "" {
			text = "Item " + vdom.KeyString(state.Next)
		}
		dispatch(Action{Kind: ActionAdd, Text: text})
		setDraft.Set("")
	}, vui.Deps{draft, state.Next})

	remaining := vui.UseMemo(h, func() int {
		n := 0
		for _, it := range state.Items {
			if !it.Done {
				n++
			}
		}
		return n
	}, vui.Deps{state.Items})

	rows := make([]any, 0, len(state.Items))
	for _, it := range state.Items {
		rows = append(rows, TodoItemType.H(vdom.Props{
			"key":      it.ID,
			"item":     it,
			"dispatch": dispatch,
		}))
	}

	return vdom.Section(vdom.ID("todo"),
		vdom.Input(vdom.ID("draft"), vdom.Value(draft), vdom.Placeholder("What needs doing?"),
			vdom.OnInput(func(e *events.SyntheticEvent) { setDraft.Set(e.DetailString("value")) })),
		vdom.Button(vdom.ID("add"), vdom.OnClick(add), "Add"),
		vdom.Button(vdom.ID("reverse"), vdom.OnClick(func() { dispatch(Action{Kind: ActionReverse}) }), "Reverse"),
		vdom.Ul(vdom.ID("items"), rows),
		vdom.P(vdom.ID("remaining"), vdom.Textf("%d remaining", remaining)),
	)
})

// TodoItemType renders one list entry. Its theme is read through a consumer.
var TodoItemType = vui.Func("TodoItem", func(h *vui.Hooks, props vdom.Props) *vdom.VNode {
	it, _ := props.Get("item").(Item)
	dispatch, _ := props.Get("dispatch").(func(Action))
	id := vdom.KeyString(it.ID)

	return vdom.Li(vdom.ID("item-"+id), vdom.ClassMap(map[string]bool{"done": it.Done}),
		ThemeContext.Consumer(func(theme string) *vdom.VNode {
			return vdom.Span(vdom.Class("text", "theme-"+theme), it.Text)
		}),
		vdom.Button(vdom.ID("toggle-"+id), vdom.OnClick(func() { dispatch(Action{Kind: ActionToggle, ID: it.ID}) }), "Toggle"),
		vdom.Button(vdom.ID("remove-"+id), vdom.OnClick(func() { dispatch(Action{Kind: ActionRemove, ID: it.ID}) }), "Remove"),
	)
})
