package vdom

import (
	"fmt"
	"reflect"
	"strconv"
)

// H builds a VNode. kind is either a tag name or a ComponentType.
//
// The reserved "key" prop is moved into the node's Key field. Children may be
// *VNode, string or []byte (text), slices and arrays of any element type, or
// other scalars (formatted as text); nested slices are flattened and nil
// entries dropped. H never fails: an
// unsupported kind produces an empty text node.
func H(kind any, props Props, children ...any) *VNode {
	node := &VNode{}
	switch k := kind.(type) {
	case string:
		node.Kind = KindElement
		node.Tag = k
	case ComponentType:
		node.Kind = KindComponent
		node.Comp = k
	default:
		return &VNode{Kind: KindText}
	}

	node.Props = make(Props, len(props))
	for key, value := range props {
		if key == "key" {
			node.Key = KeyString(value)
			continue
		}
		node.Props[key] = value
	}
	node.Children = flatten(make([]*VNode, 0, len(children)), children)
	return node
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// KeyString normalizes a key value. Strings are used verbatim, integers are
// formatted in base 10; anything else is formatted with %v. nil yields "".
func KeyString(v any) string {
	switch k := v.(type) {
	case nil:
		return ""
	case string:
		return k
	case int:
		return strconv.Itoa(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case int32:
		return strconv.FormatInt(int64(k), 10)
	case uint:
		return strconv.FormatUint(uint64(k), 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	case uint32:
		return strconv.FormatUint(uint64(k), 10)
	default:
		return fmt.Sprintf("%v", k)
	}
}

// flatten appends children to dst, expanding nested slices and dropping nils.
func flatten(dst []*VNode, children []any) []*VNode {
	for _, child := range children {
		switch c := child.(type) {
		case nil:
			continue
		case *VNode:
			if c != nil {
				dst = append(dst, c)
			}
		case []*VNode:
			for _, n := range c {
				if n != nil {
					dst = append(dst, n)
				}
			}
		case []any:
			dst = flatten(dst, c)
		case string:
			dst = append(dst, Text(c))
		case []byte:
			dst = append(dst, Text(string(c)))
		case fmt.Stringer:
			dst = append(dst, Text(c.String()))
		default:
			if v := reflect.ValueOf(c); v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
				items := make([]any, v.Len())
				for i := range items {
					items[i] = v.Index(i).Interface()
				}
				dst = flatten(dst, items)
				continue
			}
			dst = append(dst, Text(FormatValue(c)))
		}
	}
	return dst
}

// FormatValue converts a prop or child value to its string form.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
