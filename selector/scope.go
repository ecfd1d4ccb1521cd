package selector

import (
	"fmt"
	"reflect"
	"strings"

	"fixturegen/node"
)

// Scope is an ancestor constraint. A regular scope targets a type, a field
// or a setter and may require the ancestor to sit at or below a depth; a
// predicate scope tests the ancestor with a function.
type Scope struct {
	kind  Kind
	typ   reflect.Type
	name  string
	param reflect.Type
	pred  func(*node.Node) bool
	depth int
}

// InType scopes to ancestors whose resolved or declared type is t.
func InType(t reflect.Type) Scope {
	return Scope{kind: KindType, typ: t, depth: noDepth}
}

// In is InType for a type parameter.
func In[T any]() Scope {
	return InType(reflect.TypeFor[T]())
}

// InField scopes to ancestors reached through the named field of owner.
func InField(owner reflect.Type, name string) Scope {
	return Scope{kind: KindField, typ: node.Base(owner), name: name, depth: noDepth}
}

// InSetter scopes to ancestors reached through the named setter of *owner.
func InSetter(owner reflect.Type, method string) Scope {
	return Setter(owner, method).ToScope()
}

// InFunc scopes to ancestors satisfying fn.
func InFunc(fn func(*node.Node) bool) Scope {
	return Scope{kind: KindPredicate, pred: fn, depth: noDepth}
}

// AtDepth returns a copy of a regular scope that matches only ancestors at
// depth or deeper.
func (sc Scope) AtDepth(depth int) Scope {
	if depth < 0 {
		panic(fmt.Sprintf("selector: depth must not be negative: %d", depth))
	}

	if sc.kind == KindPredicate {
		panic("selector: depth cannot be set on a predicate scope")
	}

	sc.depth = depth

	return sc
}

func (sc Scope) Kind() Kind { return sc.kind }

// Matches tests a single ancestor against the scope.
func (sc Scope) Matches(n *node.Node) bool {
	if sc.kind == KindPredicate {
		return sc.pred != nil && sc.pred(n)
	}

	if sc.depth != noDepth && n.Depth() < sc.depth {
		return false
	}

	switch sc.kind {
	case KindField:
		f := n.Field()
		return f != nil && f.Owner == sc.typ && f.Name == sc.name
	case KindSetter:
		s := n.Setter()
		return s != nil && s.Owner == sc.typ && s.Name == sc.name && s.Param == sc.param
	case KindType:
		return n.Type() == sc.typ || n.DeclaredType() == sc.typ
	default:
		return false
	}
}

// Equal reports structural equality. Predicate scopes are equal only to
// themselves, which Go cannot tell, so they never compare equal.
func (sc Scope) Equal(other Scope) bool {
	if sc.kind == KindPredicate || other.kind == KindPredicate {
		return false
	}

	return sc.kind == other.kind && sc.typ == other.typ && sc.name == other.name &&
		sc.param == other.param && sc.depth == other.depth
}

func (sc Scope) String() string {
	var sb strings.Builder

	switch sc.kind {
	case KindType:
		fmt.Fprintf(&sb, "In(%s)", node.TypeName(sc.typ))
	case KindField:
		fmt.Fprintf(&sb, "InField(%s.%s)", node.TypeName(sc.typ), sc.name)
	case KindSetter:
		fmt.Fprintf(&sb, "InSetter(%s.%s(%s))", node.TypeName(sc.typ), sc.name, paramName(sc.param))
	case KindPredicate:
		sb.WriteString("InFunc()")
	}

	if sc.depth != noDepth {
		fmt.Fprintf(&sb, ".AtDepth(%d)", sc.depth)
	}

	return sb.String()
}
