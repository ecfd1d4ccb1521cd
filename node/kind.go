package node

import (
	"reflect"

	"fixturegen/primitive"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind is the structural shape of a node once pointers are stripped.
type Kind int

const (
	KindUnknown Kind = iota
	KindPrimitive
	KindInterface
	KindSlice
	KindMap
	KindStruct

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// Classify dispatches a type to its structural kind. Pointer levels are
// ignored; a *[]int is a slice node.
func Classify(t reflect.Type) Kind {
	_, b := ptrDepthAndBase(t)
	if b == nil {
		return KindUnknown
	}

	if primitive.FromReflectType(b) != 0 {
		return KindPrimitive
	}

	switch b.Kind() {
	case reflect.Interface:
		return KindInterface
	case reflect.Slice, reflect.Array:
		return KindSlice
	case reflect.Map:
		return KindMap
	case reflect.Struct:
		return KindStruct
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		// named scalars such as enums
		return KindPrimitive
	default:
		return KindUnknown
	}
}

// IsLeaf reports whether nodes of this kind never have children.
func (k Kind) IsLeaf() bool {
	return k == KindPrimitive || k == KindInterface || k == KindUnknown
}
