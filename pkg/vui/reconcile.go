package vui

import (
	"fmt"

	"golang.org/x/net/html"

	verrors "github.com/vango-dev/vui/internal/errors"
	"github.com/vango-dev/vui/pkg/dom"
	"github.com/vango-dev/vui/pkg/events"
	"github.com/vango-dev/vui/pkg/vdom"
)

// refProp is the element prop that receives the live node.
const refProp = "ref"

// materialize creates the live node for node. Component nodes are mounted.
func (rt *Runtime) materialize(node *vdom.VNode) *html.Node {
	switch node.Kind {
	case vdom.KindText:
		rt.observePatch(OpCreate)
		return rt.doc.CreateTextNode(node.Text)
	case vdom.KindComponent:
		return rt.newInstance(node).mount()
	default:
		el := rt.doc.CreateElement(node.Tag)
		rt.observePatch(OpCreate)
		for key, value := range node.Props {
			rt.setProp(el, key, value)
		}
		for _, child := range node.Children {
			el.AppendChild(rt.materialize(child))
		}
		return el
	}
}

// patch brings live, materialized from old, in line with next and returns the
// live node now representing next.
func (rt *Runtime) patch(live *html.Node, old, next *vdom.VNode) *html.Node {
	if old == next {
		return live
	}
	if !vdom.SameKind(old, next) {
		return rt.replace(live, old, next)
	}
	switch next.Kind {
	case vdom.KindText:
		if old.Text != next.Text {
			live.Data = next.Text
			rt.observePatch(OpText)
		}
		return live
	case vdom.KindComponent:
		return rt.patchComponent(live, old, next)
	default:
		rt.patchProps(live, old.Props, next.Props)
		rt.patchChildren(live, old.Children, next.Children)
		return live
	}
}

// replace materializes next in place of live and tears old down.
func (rt *Runtime) replace(live *html.Node, old, next *vdom.VNode) *html.Node {
	fresh := rt.materialize(next)
	dom.ReplaceNode(live, fresh)
	rt.events.Forget(live)
	rt.teardown(old)
	rt.observePatch(OpReplace)
	return fresh
}

func (rt *Runtime) patchComponent(live *html.Node, old, next *vdom.VNode) *html.Node {
	inst := rt.owners[old]
	if inst == nil || inst.unmounted {
		return rt.replace(live, old, next)
	}
	delete(rt.owners, old)
	rt.owners[next] = inst
	inst.node = next
	inst.receive(componentProps(next))
	return inst.liveNode
}

// patchProps diffs element props: removed keys are unset, changed and added
// keys are set.
func (rt *Runtime) patchProps(el *html.Node, old, next vdom.Props) {
	for key, value := range old {
		if _, ok := next[key]; !ok {
			rt.removeProp(el, key, value)
		}
	}
	for key, value := range next {
		prev, had := old[key]
		if had && samePropValue(key, prev, value) {
			continue
		}
		rt.setProp(el, key, value)
	}
}

func samePropValue(key string, a, b any) bool {
	switch key {
	case "class":
		return vdom.NormalizeClass(a) == vdom.NormalizeClass(b)
	case "style":
		return vdom.NormalizeStyle(a) == vdom.NormalizeStyle(b)
	}
	return vdom.SameValue(a, b)
}

// setProp applies one prop to an element. Failures are logged and skipped.
func (rt *Runtime) setProp(el *html.Node, key string, value any) {
	if vdom.IsEventProp(key) {
		h, ok := events.Adapt(value)
		if !ok {
			rt.attributeFailed(el, key, verrors.New(verrors.CodeListenerFailed).
				WithDetail(fmt.Sprintf("%s: unsupported handler type %T", key, value)))
			return
		}
		rt.events.On(el, vdom.EventKind(key), h)
		if rt.registered != nil {
			*rt.registered = append(*rt.registered, el)
		}
		rt.observePatch(OpAttr)
		return
	}
	if key == refProp {
		if ref, ok := value.(*Ref[*html.Node]); ok {
			ref.Current = el
		}
		return
	}

	var text string
	switch key {
	case "class":
		text = vdom.NormalizeClass(value)
	case "style":
		text = vdom.NormalizeStyle(value)
	default:
		switch v := value.(type) {
		case nil:
			dom.RemoveAttribute(el, key)
			return
		case bool:
			if !v {
				dom.RemoveAttribute(el, key)
				return
			}
		default:
			text = vdom.FormatValue(v)
		}
	}
	if (key == "class" || key == "style") && text == "" {
		dom.RemoveAttribute(el, key)
		return
	}
	if err := dom.SetAttribute(el, key, text); err != nil {
		rt.attributeFailed(el, key, verrors.New(verrors.CodeAttributeFailed).Wrap(err))
		return
	}
	rt.observePatch(OpAttr)
}

func (rt *Runtime) removeProp(el *html.Node, key string, value any) {
	switch {
	case vdom.IsEventProp(key):
		rt.events.Off(el, vdom.EventKind(key))
	case key == refProp:
		if ref, ok := value.(*Ref[*html.Node]); ok && ref.Current == el {
			ref.Current = nil
		}
		return
	default:
		dom.RemoveAttribute(el, key)
	}
	rt.observePatch(OpAttr)
}

func (rt *Runtime) attributeFailed(el *html.Node, key string, err *verrors.VuiError) {
	rt.stats.AttrErrors++
	if rt.metrics != nil {
		rt.metrics.ObserveAttributeError(key)
	}
	rt.logger.Warn("vui: attribute skipped",
		"code", err.Code,
		"element", el.Data,
		"attr", key,
		"error", err,
	)
}

// patchChildren reconciles the live children of parent, materialized from
// old, against next.
//
// Keyed new children pair with the old child of the same key; unkeyed new
// children pair with the old child at the same index. Walking the new
// children in order, a paired node whose old index is below the highest old
// index consumed so far is moved to the current position; otherwise it stays
// and raises that mark. Unpaired new children are inserted at the current
// position. Old children left unpaired are removed. Reordering keys out of
// sequence can move more nodes than strictly needed.
func (rt *Runtime) patchChildren(parent *html.Node, old, next []*vdom.VNode) {
	if len(old) == 0 && len(next) == 0 {
		return
	}
	liveKids := dom.Children(parent)
	if len(liveKids) != len(old) {
		// The live tree no longer mirrors old; rebuild the children.
		rt.logger.Warn("vui: live children out of sync, rebuilding",
			"element", parent.Data, "live", len(liveKids), "tree", len(old))
		rt.rebuildChildren(parent, liveKids, old, next)
		return
	}

	keyed := make(map[string]int)
	for i, child := range old {
		if child.Key != "" {
			keyed[child.Key] = i
		}
	}
	used := make([]bool, len(old))

	high := -1
	var prev *html.Node // last placed node
	for i, child := range next {
		at := parent.FirstChild
		if prev != nil {
			at = prev.NextSibling
		}

		match := -1
		if child.Key != "" {
			if j, ok := keyed[child.Key]; ok && !used[j] {
				match = j
			}
		} else if i < len(old) && !used[i] {
			match = i
		}

		if match < 0 {
			fresh := rt.materialize(child)
			dom.InsertBefore(parent, fresh, at)
			prev = fresh
			continue
		}
		used[match] = true
		live := liveKids[match]
		if match < high {
			if live != at {
				dom.InsertBefore(parent, live, at)
			}
			rt.observePatch(OpMove)
		} else {
			high = match
		}
		prev = rt.patch(live, old[match], child)
	}

	for j, ok := range used {
		if !ok {
			rt.remove(liveKids[j], old[j])
		}
	}
}

// rebuildChildren replaces every live child of parent with fresh nodes.
func (rt *Runtime) rebuildChildren(parent *html.Node, liveKids []*html.Node, old, next []*vdom.VNode) {
	for _, n := range liveKids {
		rt.events.Forget(n)
		dom.Detach(n)
	}
	for _, child := range old {
		rt.teardown(child)
	}
	for _, child := range next {
		parent.AppendChild(rt.materialize(child))
	}
}

// remove detaches a live node and tears down the subtree it was built from.
func (rt *Runtime) remove(live *html.Node, old *vdom.VNode) {
	rt.events.Forget(live)
	dom.Detach(live)
	rt.teardown(old)
	rt.observePatch(OpRemove)
}

// teardown unmounts every component instance in the subtree of node and
// clears element refs.
func (rt *Runtime) teardown(node *vdom.VNode) {
	if node == nil {
		return
	}
	switch node.Kind {
	case vdom.KindComponent:
		if inst := rt.owners[node]; inst != nil {
			inst.unmount()
		}
	case vdom.KindElement:
		if ref, ok := node.Props[refProp].(*Ref[*html.Node]); ok {
			ref.Current = nil
		}
		for _, child := range node.Children {
			rt.teardown(child)
		}
	}
}
