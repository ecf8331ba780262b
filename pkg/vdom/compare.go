package vdom

import (
	"reflect"
	"unsafe"
)

// SameValue reports whether a and b are the same value for change detection.
//
// Comparable values (numbers, strings, pointers, comparable structs) compare
// with ==. Maps, slices, funcs and channels compare by identity: the same
// backing storage and length for slices, the same closure for funcs, the same
// pointer otherwise. A comparable struct or array holding a non-comparable
// value in an interface field is never the same. Values of different dynamic
// types are never the same.
func SameValue(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	}

	if b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return equal(a, b)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Func:
		return funcData(a) == funcData(b)
	case reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	default:
		// Non-comparable structs and arrays have no identity of their own.
		return false
	}
}

// equal compares with ==, which panics when an interface field holds a
// non-comparable value.
func equal(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// funcData returns the closure pointer stored in the interface word of a func
// value. reflect.Value.Pointer yields the code pointer, which closures built
// from the same literal share.
func funcData(f any) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&f))[1]
}

// DepsChanged reports whether a dependency list changed. A nil next list is
// always a change; lists of different length are a change; otherwise entries
// are compared pairwise with SameValue.
func DepsChanged(prev, next []any) bool {
	if next == nil || prev == nil {
		return true
	}
	if len(prev) != len(next) {
		return true
	}
	for i := range next {
		if !SameValue(prev[i], next[i]) {
			return true
		}
	}
	return false
}
