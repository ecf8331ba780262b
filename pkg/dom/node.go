package dom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// validAttrName rejects names html.Render cannot represent.
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r <= ' ', r == '"', r == '\'', r == '>', r == '/', r == '=', r == '<', r == 0x7f:
			return false
		}
	}
	return true
}

// SetAttribute sets or replaces an attribute on an element.
func SetAttribute(n *html.Node, key, value string) error {
	if n == nil || n.Type != html.ElementNode {
		return fmt.Errorf("%w: %q on non-element", ErrInvalidAttribute, key)
	}
	if !validAttrName(key) {
		return fmt.Errorf("%w: %q", ErrInvalidAttribute, key)
	}
	key = strings.ToLower(key)
	for i := range n.Attr {
		if n.Attr[i].Key == key && n.Attr[i].Namespace == "" {
			n.Attr[i].Val = value
			return nil
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
	return nil
}

// RemoveAttribute removes an attribute if present.
func RemoveAttribute(n *html.Node, key string) {
	if n == nil {
		return
	}
	key = strings.ToLower(key)
	for i := range n.Attr {
		if n.Attr[i].Key == key && n.Attr[i].Namespace == "" {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// GetAttribute returns the attribute value and whether it is present.
func GetAttribute(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	key = strings.ToLower(key)
	for _, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether the element's class list contains name.
func HasClass(n *html.Node, name string) bool {
	v, ok := GetAttribute(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == name {
			return true
		}
	}
	return false
}

// ComputedStyle parses the inline style attribute into a property map.
func ComputedStyle(n *html.Node) map[string]string {
	out := make(map[string]string)
	v, ok := GetAttribute(n, "style")
	if !ok {
		return out
	}
	for _, decl := range strings.Split(v, ";") {
		prop, val, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop != "" {
			out[prop] = strings.TrimSpace(val)
		}
	}
	return out
}

// SetStyle sets one inline style property. An empty value removes it.
func SetStyle(n *html.Node, prop, value string) error {
	styles := ComputedStyle(n)
	if value == "" {
		delete(styles, prop)
	} else {
		styles[prop] = value
	}
	if len(styles) == 0 {
		RemoveAttribute(n, "style")
		return nil
	}
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + styles[k]
	}
	return SetAttribute(n, "style", strings.Join(parts, "; "))
}

// Rect is an element's layout box.
type Rect struct {
	X, Y, Width, Height float64
}

// BoundingRect reads the layout box of n. The headless document has no layout
// engine, so geometry comes from a "data-rect" attribute ("x,y,w,h") set by
// the host; elements without one report a zero Rect.
func BoundingRect(n *html.Node) Rect {
	v, ok := GetAttribute(n, "data-rect")
	if !ok {
		return Rect{}
	}
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return Rect{}
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Rect{}
		}
		vals[i] = f
	}
	return Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertBefore inserts child under parent before ref. A nil ref appends.
// child is detached from its current position first.
func InsertBefore(parent, child, ref *html.Node) {
	if child == ref {
		return
	}
	Detach(child)
	if ref == nil || ref.Parent != parent {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, ref)
}

// ReplaceNode puts next in place of old under old's parent.
func ReplaceNode(old, next *html.Node) {
	if old == nil || next == nil || old == next {
		return
	}
	parent := old.Parent
	if parent == nil {
		return
	}
	Detach(next)
	parent.InsertBefore(next, old)
	parent.RemoveChild(old)
}

// Children returns the child nodes of n.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}
