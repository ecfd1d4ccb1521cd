package selector

import (
	"reflect"

	"fixturegen/node"
)

// Key is the scope-stripped identity of a regular selector. Nodes produce
// the keys they can be looked up by with TypeKey, FieldKey and SetterKey.
type Key struct {
	kind  Kind
	typ   reflect.Type
	name  string
	param reflect.Type
	root  bool
}

// RootKey is the key of Root selectors.
func RootKey() Key { return Key{kind: KindType, root: true} }

func TypeKey(t reflect.Type) Key { return Key{kind: KindType, typ: t} }

func FieldKey(f *node.Field) Key { return Key{kind: KindField, typ: f.Owner, name: f.Name} }

func SetterKey(s *node.Setter) Key {
	return Key{kind: KindSetter, typ: s.Owner, name: s.Name, param: s.Param}
}
