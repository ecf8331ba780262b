// Package errors provides structured, actionable error messages for vui.
//
// Each error has a unique code (e.g., "E010") that maps to a short message, a
// detailed explanation and a documentation URL. Errors may carry the source
// location of the component that failed, rendered with surrounding lines.
//
// # Error Categories
//
//   - runtime: hook misuse
//   - render: component render and lifecycle failures
//   - display: attribute, listener and mount target failures
//   - config: vui.json problems
//   - storage: snapshot store failures
//   - cli: command-line usage
//
// # Usage
//
//	err := errors.New(errors.CodeRenderFailed).
//	    WithComponent("Counter").
//	    WithLocation("app/counter.go", 15).
//	    Wrap(cause)
//
//	errors.Fprint(os.Stderr, err)
package errors
