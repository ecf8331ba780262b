// Package demo holds the reference components shipped with the vui CLI and
// devtools server. Each demo is registered by name and exposes the id of the
// element its default interaction clicks.
package demo
