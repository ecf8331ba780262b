// Package dom is the platform display layer used by the vui runtime.
//
// A Document is a headless display tree built from golang.org/x/net/html
// nodes. It offers the small platform surface the reconciler needs: creating
// element and text nodes, mutating attributes and inline styles, moving nodes,
// registering one raw listener per event kind at the document root, and
// serializing the live tree back to HTML for inspection and snapshots.
//
// Events are delivered by DispatchEvent, which computes the propagation path
// from the target to the document root and hands the raw Event to the root
// listeners registered for its type.
package dom
