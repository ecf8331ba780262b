package vdom

import (
	"sort"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Key sets the reconciliation key. Strings and integers are accepted.
func Key(key any) Attr { return attr("key", key) }

// Class sets the class attribute from a list of class names.
// Empty names are dropped when the attribute is applied.
func Class(classes ...string) Attr { return attr("class", classes) }

// ClassMap sets the class attribute from a name -> enabled map.
func ClassMap(classes map[string]bool) Attr { return attr("class", classes) }

// Style sets inline styles from a property -> value map.
func Style(styles map[string]string) Attr { return attr("style", styles) }

// StyleAttr sets the style attribute verbatim.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// AttrOf creates an arbitrary attribute.
func AttrOf(key string, value any) Attr { return attr(key, value) }

// Common attributes

func Type(t string) Attr           { return attr("type", t) }
func Value(v string) Attr          { return attr("value", v) }
func Name(n string) Attr           { return attr("name", n) }
func Href(url string) Attr         { return attr("href", url) }
func Placeholder(p string) Attr    { return attr("placeholder", p) }
func Title(t string) Attr          { return attr("title", t) }
func Role(role string) Attr        { return attr("role", role) }
func AriaLabel(label string) Attr  { return attr("aria-label", label) }
func Disabled(disabled bool) Attr  { return attr("disabled", disabled) }
func Checked(checked bool) Attr    { return attr("checked", checked) }
func Hidden(hidden bool) Attr      { return attr("hidden", hidden) }
func TabIndex(index int) Attr      { return attr("tabindex", index) }

// NormalizeClass converts a class prop value to its attribute string.
// Supported forms: string, []string and map[string]bool; class names are
// trimmed and empty ones dropped. Map entries are emitted in sorted order.
func NormalizeClass(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.Join(strings.Fields(c), " ")
	case []string:
		parts := make([]string, 0, len(c))
		for _, name := range c {
			parts = append(parts, strings.Fields(name)...)
		}
		return strings.Join(parts, " ")
	case map[string]bool:
		parts := make([]string, 0, len(c))
		for name, on := range c {
			if on && strings.TrimSpace(name) != "" {
				parts = append(parts, strings.TrimSpace(name))
			}
		}
		sort.Strings(parts)
		return strings.Join(parts, " ")
	default:
		return FormatValue(v)
	}
}

// NormalizeStyle converts a style prop value to its attribute string.
// Maps are serialized as "prop: value" pairs in sorted property order.
func NormalizeStyle(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case map[string]string:
		props := make([]string, 0, len(s))
		for k := range s {
			props = append(props, k)
		}
		sort.Strings(props)
		var sb strings.Builder
		for i, k := range props {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(s[k])
		}
		return sb.String()
	default:
		return FormatValue(v)
	}
}
