package primitive

import (
	"reflect"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var kindTypes = [KindTotal]reflect.Type{
	KindInt:      reflect.TypeFor[int](),
	KindInt8:     reflect.TypeFor[int8](),
	KindInt16:    reflect.TypeFor[int16](),
	KindInt32:    reflect.TypeFor[int32](),
	KindInt64:    reflect.TypeFor[int64](),
	KindUint:     reflect.TypeFor[uint](),
	KindUint8:    reflect.TypeFor[uint8](),
	KindUint16:   reflect.TypeFor[uint16](),
	KindUint32:   reflect.TypeFor[uint32](),
	KindUint64:   reflect.TypeFor[uint64](),
	KindFloat32:  reflect.TypeFor[float32](),
	KindFloat64:  reflect.TypeFor[float64](),
	KindBool:     reflect.TypeFor[bool](),
	KindString:   reflect.TypeFor[string](),
	KindTime:     reflect.TypeFor[time.Time](),
	KindDuration: reflect.TypeFor[time.Duration](),
}

func (k KindEnum) IsValid() bool {
	return k > 0 && int(k) < KindTotal
}

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// Type returns the value type for the kind, nil for an invalid kind.
func (k KindEnum) Type() reflect.Type {
	if !k.IsValid() {
		return nil
	}

	return kindTypes[k]
}

// PointerType returns the pointer counterpart of the kind's value type.
// Pointers play the role boxed wrappers play elsewhere: *int is the
// nullable twin of int.
func (k KindEnum) PointerType() reflect.Type {
	if !k.IsValid() {
		return nil
	}

	return reflect.PointerTo(kindTypes[k])
}

// FromReflectType returns the kind of a true primitive type. Named types
// (enums) and pointers are not primitives and yield the zero kind.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	for k := KindInt; int(k) < KindTotal; k++ {
		if kindTypes[k] == rtype {
			return k
		}
	}

	return 0
}

// Equivalent returns the value/pointer twin of a primitive type:
// int yields *int and *int yields int. Non-primitive types report false.
func Equivalent(rtype reflect.Type) (reflect.Type, bool) {
	if rtype == nil {
		return nil, false
	}

	if rtype.Kind() == reflect.Pointer {
		if k := FromReflectType(rtype.Elem()); k != 0 {
			return k.Type(), true
		}

		return nil, false
	}

	if k := FromReflectType(rtype); k != 0 {
		return k.PointerType(), true
	}

	return nil, false
}

// ByName returns the kind whose value type is spelled name, e.g. "int64"
// or "time.Duration".
func ByName(name string) (KindEnum, bool) {
	for k := KindInt; int(k) < KindTotal; k++ {
		if kindTypes[k].String() == name {
			return k, true
		}
	}

	return 0, false
}
