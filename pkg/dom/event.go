package dom

import (
	"time"

	"golang.org/x/net/html"
)

// Event is a raw platform event.
type Event struct {
	Type       string
	Target     *html.Node
	Bubbles    bool
	Cancelable bool
	TimeStamp  time.Time
	Detail     map[string]any

	defaultPrevented bool
	path             []*html.Node
}

// NewEvent creates a bubbling, cancelable event of the given type.
func NewEvent(typ string, target *html.Node) *Event {
	return &Event{
		Type:       typ,
		Target:     target,
		Bubbles:    true,
		Cancelable: true,
		TimeStamp:  time.Now(),
	}
}

// PreventDefault marks the default action as canceled, if cancelable.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Path returns the propagation path from the target outward to the document
// node. Non-bubbling events only include the target.
func (e *Event) Path() []*html.Node {
	if e.path == nil && e.Target != nil {
		e.path = propagationPath(e.Target)
	}
	if !e.Bubbles && len(e.path) > 0 {
		return e.path[:1]
	}
	return e.path
}

func propagationPath(target *html.Node) []*html.Node {
	var path []*html.Node
	for n := target; n != nil; n = n.Parent {
		path = append(path, n)
	}
	return path
}
