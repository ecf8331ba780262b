package events

import (
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/vui/pkg/dom"
)

// SyntheticEvent wraps a raw dom.Event for one handler invocation.
type SyntheticEvent struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node
	Bubbles       bool
	Cancelable    bool
	TimeStamp     time.Time
	Detail        map[string]any

	// Native is the raw platform event.
	Native *dom.Event

	propagationStopped bool
	immediateStopped   bool
}

func newSynthetic(ev *dom.Event, current *html.Node) *SyntheticEvent {
	return &SyntheticEvent{
		Type:          ev.Type,
		Target:        ev.Target,
		CurrentTarget: current,
		Bubbles:       ev.Bubbles,
		Cancelable:    ev.Cancelable,
		TimeStamp:     ev.TimeStamp,
		Detail:        ev.Detail,
		Native:        ev,
	}
}

// PreventDefault cancels the platform default action.
func (e *SyntheticEvent) PreventDefault() {
	if e.Native != nil {
		e.Native.PreventDefault()
	}
}

// IsDefaultPrevented reports whether the default action was canceled.
func (e *SyntheticEvent) IsDefaultPrevented() bool {
	return e.Native != nil && e.Native.DefaultPrevented()
}

// StopPropagation stops delivery to handlers further along the path.
func (e *SyntheticEvent) StopPropagation() {
	e.propagationStopped = true
}

// StopImmediatePropagation stops delivery to any other handler.
func (e *SyntheticEvent) StopImmediatePropagation() {
	e.immediateStopped = true
	e.propagationStopped = true
}

// IsPropagationStopped reports whether propagation was stopped.
func (e *SyntheticEvent) IsPropagationStopped() bool {
	return e.propagationStopped
}

// DetailString returns a string detail value, or "".
func (e *SyntheticEvent) DetailString(key string) string {
	if v, ok := e.Detail[key].(string); ok {
		return v
	}
	return ""
}

// Handler handles a synthetic event.
type Handler func(*SyntheticEvent)

// Adapt converts an event prop value into a Handler.
// Accepted forms: Handler, func(*SyntheticEvent) and func().
func Adapt(v any) (Handler, bool) {
	switch h := v.(type) {
	case Handler:
		return h, h != nil
	case func(*SyntheticEvent):
		return h, h != nil
	case func():
		if h == nil {
			return nil, false
		}
		return func(*SyntheticEvent) { h() }, true
	default:
		return nil, false
	}
}
