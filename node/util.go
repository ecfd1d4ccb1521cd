package node

import (
	"reflect"
	"strconv"
)

// TypeName renders a type the way it is spelled in Go source, qualified by
// package name only: "*store.Order", "[]int", "map[string]*store.Item".
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + TypeName(t.Elem())
	case reflect.Slice:
		if t.Name() == "" {
			return "[]" + TypeName(t.Elem())
		}
	case reflect.Array:
		if t.Name() == "" {
			return "[" + strconv.Itoa(t.Len()) + "]" + TypeName(t.Elem())
		}
	case reflect.Map:
		if t.Name() == "" {
			return "map[" + TypeName(t.Key()) + "]" + TypeName(t.Elem())
		}
	}

	return t.String()
}

// ptrDepthAndBase returns the pointer depth and the final base type.
func ptrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for base != nil && base.Kind() == reflect.Ptr {
		depth++
		base = base.Elem()
	}

	return
}

// Base strips every pointer level from t.
func Base(t reflect.Type) reflect.Type {
	_, b := ptrDepthAndBase(t)
	return b
}
