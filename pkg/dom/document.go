package dom

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidAttribute is returned when an attribute name cannot be represented.
var ErrInvalidAttribute = errors.New("dom: invalid attribute name")

// Listener receives raw events delivered at the document root.
type Listener func(*Event)

// Document is a headless display tree.
type Document struct {
	root *html.Node
	html *html.Node
	body *html.Node

	listeners map[string][]Listener
}

// NewDocument creates an empty document with <html> and <body> elements.
func NewDocument() *Document {
	d := &Document{
		root:      &html.Node{Type: html.DocumentNode},
		listeners: make(map[string][]Listener),
	}
	d.html = d.CreateElement("html")
	d.body = d.CreateElement("body")
	d.html.AppendChild(d.body)
	d.root.AppendChild(d.html)
	return d
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.body }

// CreateElement creates a detached element node.
func (d *Document) CreateElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Contains reports whether n is attached to this document.
func (d *Document) Contains(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == d.root {
			return true
		}
	}
	return false
}

// AddEventListener registers a root listener for the event kind.
func (d *Document) AddEventListener(kind string, l Listener) {
	if l == nil {
		return
	}
	d.listeners[kind] = append(d.listeners[kind], l)
}

// ListenerCount returns the number of root listeners for the event kind.
func (d *Document) ListenerCount(kind string) int {
	return len(d.listeners[kind])
}

// DispatchEvent delivers ev to the root listeners for its type.
// It returns false if a listener prevented the default action.
func (d *Document) DispatchEvent(ev *Event) bool {
	if ev == nil || ev.Target == nil {
		return true
	}
	ev.path = propagationPath(ev.Target)
	for _, l := range d.listeners[ev.Type] {
		l(ev)
	}
	return !ev.DefaultPrevented()
}

// GetElementByID returns the first element with the given id.
func (d *Document) GetElementByID(id string) *html.Node {
	return find(d.root, func(n *html.Node) bool {
		v, ok := GetAttribute(n, "id")
		return ok && v == id
	})
}

// QuerySelector returns the first element matching a simple selector.
// Supported forms: "tag", "#id", ".class", "tag#id" and "tag.class".
func (d *Document) QuerySelector(selector string) *html.Node {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}
	return find(d.root, sel.matches)
}

// QuerySelectorAll returns all elements matching a simple selector in
// document order.
func (d *Document) QuerySelectorAll(selector string) []*html.Node {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}
	var out []*html.Node
	walk(d.root, func(n *html.Node) {
		if sel.matches(n) {
			out = append(out, n)
		}
	})
	return out
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String returns the serialized document.
func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// OuterHTML serializes n itself.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

type selector struct {
	tag, id, class string
}

func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " >+~[:") {
		return selector{}, false
	}
	var sel selector
	if i := strings.IndexAny(s, "#."); i >= 0 {
		sel.tag = strings.ToLower(s[:i])
		rest := s[i+1:]
		if rest == "" {
			return selector{}, false
		}
		if s[i] == '#' {
			sel.id = rest
		} else {
			sel.class = rest
		}
	} else {
		sel.tag = strings.ToLower(s)
	}
	return sel, true
}

func (s selector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" {
		if v, _ := GetAttribute(n, "id"); v != s.id {
			return false
		}
	}
	if s.class != "" && !HasClass(n, s.class) {
		return false
	}
	return true
}

func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := find(c, pred); m != nil {
			return m
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// Walk visits n and all its descendants in document order.
func Walk(n *html.Node, fn func(*html.Node)) {
	if n != nil {
		walk(n, fn)
	}
}
