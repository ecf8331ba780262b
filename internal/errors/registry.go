package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// Error codes used across vui.
const (
	CodeHookOutsideRender = "E001"
	CodeHookOrderChanged  = "E002"
	CodeRenderFailed      = "E010"
	CodeLifecycleFailed   = "E011"
	CodeAttributeFailed   = "E020"
	CodeListenerFailed    = "E021"
	CodeMountTarget       = "E030"
	CodeConfigInvalid     = "E040"
	CodeConfigRead        = "E041"
	CodeSnapshotStore     = "E050"
	CodeSnapshotDest      = "E051"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Hook Errors (E001-E009)
	// ============================================

	CodeHookOutsideRender: {
		Category: CategoryRuntime,
		Message:  "Hook called outside of a render pass",
		Detail:   "Hooks read the render cursor of the component being rendered. They must be called synchronously from a function component's render, never from event handlers, effects or goroutines.",
		DocURL:   "https://vui.dev/docs/errors/E001",
	},
	CodeHookOrderChanged: {
		Category: CategoryRuntime,
		Message:  "Hook order changed between renders",
		Detail:   "A component must call the same hooks in the same order on every render. Move conditional hooks out of branches and loops.",
		DocURL:   "https://vui.dev/docs/errors/E002",
	},

	// ============================================
	// Render Errors (E010-E019)
	// ============================================

	CodeRenderFailed: {
		Category: CategoryRender,
		Message:  "Component render failed",
		Detail:   "A component panicked while rendering. Wrap the subtree in an error boundary to show fallback output instead of failing the whole tree.",
		DocURL:   "https://vui.dev/docs/errors/E010",
	},
	CodeLifecycleFailed: {
		Category: CategoryRender,
		Message:  "Lifecycle callback failed",
		Detail:   "A lifecycle callback (DidMount, WillUpdate, DidUpdate, WillUnmount) panicked.",
		DocURL:   "https://vui.dev/docs/errors/E011",
	},

	// ============================================
	// Display Errors (E020-E039)
	// ============================================

	CodeAttributeFailed: {
		Category: CategoryDisplay,
		Message:  "Attribute could not be applied",
		Detail:   "The attribute was skipped; the rest of the patch was applied.",
		DocURL:   "https://vui.dev/docs/errors/E020",
	},
	CodeListenerFailed: {
		Category: CategoryDisplay,
		Message:  "Event listener could not be registered",
		Detail:   "Event props must hold a func(), func(*events.SyntheticEvent) or events.Handler value.",
		DocURL:   "https://vui.dev/docs/errors/E021",
	},
	CodeMountTarget: {
		Category: CategoryDisplay,
		Message:  "Mount target not found",
		Detail:   "The container selector did not match any element in the document.",
		DocURL:   "https://vui.dev/docs/errors/E030",
	},

	// ============================================
	// Config Errors (E040-E049)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "vui.json contains a value outside its allowed range.",
		DocURL:   "https://vui.dev/docs/errors/E040",
	},
	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "Configuration could not be read",
		Detail:   "vui.json exists but is not valid JSON.",
		DocURL:   "https://vui.dev/docs/errors/E041",
	},

	// ============================================
	// Snapshot Errors (E050-E059)
	// ============================================

	CodeSnapshotStore: {
		Category: CategoryStorage,
		Message:  "Snapshot could not be stored",
		Detail:   "Writing the serialized display tree to the snapshot store failed.",
		DocURL:   "https://vui.dev/docs/errors/E050",
	},
	CodeSnapshotDest: {
		Category: CategoryStorage,
		Message:  "Invalid snapshot destination",
		Detail:   "Destinations are a directory path or s3://bucket/prefix.",
		DocURL:   "https://vui.dev/docs/errors/E051",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
