package vdom

import "strings"

// On returns the handler prop for an arbitrary event kind. The prop name is
// the lower-cased kind prefixed with "on", so On("Click", h) and OnClick(h)
// are the same prop.
//
// handler is a func(), a func(*events.SyntheticEvent) or an events.Handler.
// Other values are reported when the element is patched and never invoked.
func On(kind string, handler any) EventHandler {
	return EventHandler{Event: "on" + strings.ToLower(kind), Handler: handler}
}

// Pointer and keyboard.
func OnClick(handler any) EventHandler     { return On("click", handler) }
func OnDblClick(handler any) EventHandler  { return On("dblclick", handler) }
func OnMouseDown(handler any) EventHandler { return On("mousedown", handler) }
func OnMouseUp(handler any) EventHandler   { return On("mouseup", handler) }
func OnKeyDown(handler any) EventHandler   { return On("keydown", handler) }
func OnKeyUp(handler any) EventHandler     { return On("keyup", handler) }

// Forms. Input fires on every value change, Change when the value is
// committed.
func OnInput(handler any) EventHandler  { return On("input", handler) }
func OnChange(handler any) EventHandler { return On("change", handler) }
func OnSubmit(handler any) EventHandler { return On("submit", handler) }
func OnFocus(handler any) EventHandler  { return On("focus", handler) }
func OnBlur(handler any) EventHandler   { return On("blur", handler) }
