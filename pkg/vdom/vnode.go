package vdom

import (
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComponent              // Component invocation
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// ComponentType identifies a component kind. Two component nodes have the
// same kind only when their ComponentType values are identical, so component
// types are normally declared once at package level.
type ComponentType interface {
	ComponentName() string
}

// VNode is the immutable description of one UI node.
type VNode struct {
	Kind     VKind         // Node type
	Tag      string        // Element tag name (e.g., "div")
	Comp     ComponentType // For KindComponent
	Props    Props         // Attributes, event handlers or component props
	Children []*VNode      // Child nodes in render order
	Key      string        // Reconciliation key ("" when absent)
	Text     string        // For KindText
}

// Props holds attributes and event handlers.
type Props map[string]any

// Get returns the value stored under key, or nil.
func (p Props) Get(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// Clone returns a shallow copy of the props.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Name returns a readable name for the node: the tag, the component name or "#text".
func (v *VNode) Name() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindText:
		return "#text"
	case KindComponent:
		if v.Comp == nil {
			return "<component>"
		}
		return v.Comp.ComponentName()
	default:
		return v.Tag
	}
}

// HasKey reports whether the node carries an explicit reconciliation key.
func (v *VNode) HasKey() bool {
	return v != nil && v.Key != ""
}

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if IsEventProp(key) {
			return true
		}
	}
	return false
}

// SameKind reports whether a and b have an identical kind: the same tag for
// elements, the same ComponentType for components, or both text.
func SameKind(a, b *VNode) bool {
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag
	case KindComponent:
		return a.Comp == b.Comp
	default:
		return true
	}
}

// SameNode reports whether a and b are the same logical node: identical kind
// and matching keys.
func SameNode(a, b *VNode) bool {
	return SameKind(a, b) && a.Key == b.Key
}

// IsEventProp returns true if the key is an event handler prop (starts with "on").
// Case-insensitive to catch onclick, ONCLICK, onClick, etc.
func IsEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// EventKind returns the event name of an event prop ("onClick" -> "click").
func EventKind(key string) string {
	if !IsEventProp(key) {
		return ""
	}
	return strings.ToLower(key[2:])
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // Function to call
}
