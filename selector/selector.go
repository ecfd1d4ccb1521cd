// Package selector declares the patterns rules use to target nodes of a
// generated object graph.
//
// A Selector is one of four shapes: Type, Field, Setter or Predicate. Regular
// selectors (Type, Field, Setter) may carry an exact depth; every selector may
// carry an ordered list of scopes restricting it to nodes reached through
// matching ancestors. Selectors are immutable and compared by identity:
// two structurally equal selectors declared on different lines are tracked
// separately when reporting unused rules.
package selector

import (
	"fmt"
	"reflect"
	"strings"

	"fixturegen/node"
)

// Kind is the shape of a selector or scope.
type Kind int

const (
	KindType Kind = iota + 1
	KindField
	KindSetter
	KindPredicate
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "Type"
	case KindField:
		return "Field"
	case KindSetter:
		return "Setter"
	case KindPredicate:
		return "Predicate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Default predicate priorities. Lower values win.
const (
	PriorityField = 1
	PriorityType  = 2
	PriorityNode  = 3
)

const noDepth = -1

// Selector is an immutable node pattern. Use the package constructors to
// create one; the zero value is not usable.
type Selector struct {
	kind     Kind
	typ      reflect.Type // target type, or owner of a field/setter
	name     string       // field or method name
	param    reflect.Type // setter parameter
	pred     func(*node.Node) bool
	desc     string // predicate description
	root     bool
	scopes   []Scope
	depth    int
	priority int
	lenient  bool
	site     Site
	group    *group
}

// Type selects nodes whose resolved type is exactly t.
func Type(t reflect.Type) *Selector {
	if t == nil {
		panic("selector: type must not be nil")
	}

	return &Selector{kind: KindType, typ: t, depth: noDepth, site: caller()}
}

// TypeOf is Type for a type parameter.
func TypeOf[T any]() *Selector {
	return Type(reflect.TypeFor[T]())
}

// Root selects the root node of the tree.
func Root() *Selector {
	return &Selector{kind: KindType, root: true, depth: noDepth, site: caller()}
}

// Field selects nodes reached through the named field of owner.
func Field(owner reflect.Type, name string) *Selector {
	if owner == nil {
		panic("selector: field owner must not be nil")
	}

	if name == "" {
		panic("selector: field name must not be empty")
	}

	return &Selector{kind: KindField, typ: node.Base(owner), name: name, depth: noDepth, site: caller()}
}

// FieldOf is Field for a type parameter.
func FieldOf[T any](name string) *Selector {
	return Field(reflect.TypeFor[T](), name)
}

// RootField selects a field of the root type. The owner is filled in by
// Bind once the root type is known.
func RootField(name string) *Selector {
	if name == "" {
		panic("selector: field name must not be empty")
	}

	return &Selector{kind: KindField, name: name, depth: noDepth, site: caller()}
}

// Setter selects nodes reached through the named single-argument method of
// *owner. The parameter type is taken from the method; an unknown method
// yields a selector that never matches.
func Setter(owner reflect.Type, method string) *Selector {
	if owner == nil {
		panic("selector: setter owner must not be nil")
	}

	owner = node.Base(owner)

	var param reflect.Type
	if m, ok := reflect.PointerTo(owner).MethodByName(method); ok && m.Type.NumIn() == 2 {
		param = m.Type.In(1)
	}

	return &Selector{kind: KindSetter, typ: owner, name: method, param: param, depth: noDepth, site: caller()}
}

// Predicate selects nodes satisfying fn. It has the lowest default priority.
func Predicate(desc string, fn func(*node.Node) bool) *Selector {
	if fn == nil {
		panic("selector: predicate must not be nil")
	}

	return &Selector{kind: KindPredicate, pred: fn, desc: desc, priority: PriorityNode, depth: noDepth, site: caller()}
}

// Fields selects nodes reached through any field accepted by match.
func Fields(match func(*node.Field) bool) *Selector {
	s := Predicate("fields", func(n *node.Node) bool {
		return n.Field() != nil && match(n.Field())
	})
	s.priority = PriorityField

	return s
}

// Types selects nodes whose resolved type is accepted by match.
func Types(match func(reflect.Type) bool) *Selector {
	s := Predicate("types", func(n *node.Node) bool {
		return match(n.Type())
	})
	s.priority = PriorityType

	return s
}

func (s *Selector) clone() *Selector {
	c := *s
	c.scopes = append([]Scope(nil), s.scopes...)

	return &c
}

// Within returns a copy restricted to nodes whose ancestors (or the node
// itself) match scopes. Scopes are given outermost first.
func (s *Selector) Within(scopes ...Scope) *Selector {
	c := s.clone()
	c.scopes = append([]Scope(nil), scopes...)
	c.group = nil

	return c
}

// AtDepth returns a copy matching only nodes at exactly depth.
func (s *Selector) AtDepth(depth int) *Selector {
	if depth < 0 {
		panic(fmt.Sprintf("selector: depth must not be negative: %d", depth))
	}

	c := s.clone()
	c.depth = depth
	c.group = nil

	return c
}

// WithPriority returns a copy of a predicate selector with another priority.
func (s *Selector) WithPriority(priority int) *Selector {
	if s.kind != KindPredicate {
		panic("selector: priority applies to predicate selectors only")
	}

	c := s.clone()
	c.priority = priority

	return c
}

// Lenient returns a copy exempt from unused-selector reporting. The copy
// leaves its group; Group.Lenient keeps the members linked.
func (s *Selector) Lenient() *Selector {
	c := s.clone()
	c.lenient = true
	c.group = nil

	return c
}

// At returns a copy declared at site. Rule files use it to point
// diagnostics at their own lines.
func (s *Selector) At(site Site) *Selector {
	c := s.clone()
	c.site = site

	return c
}

// Bind fills in the owner of a root-relative field selector. Other
// selectors are returned unchanged.
func (s *Selector) Bind(root reflect.Type) *Selector {
	if s.kind != KindField || s.typ != nil || root == nil {
		return s
	}

	c := s.clone()
	c.typ = node.Base(root)

	return c
}

// ToScope converts the selector into a scope usable by other selectors.
func (s *Selector) ToScope() Scope {
	sc := Scope{kind: s.kind, typ: s.typ, name: s.name, param: s.param, depth: s.depth}

	switch {
	case s.root:
		sc.kind = KindPredicate
		sc.pred = (*node.Node).IsRoot
		sc.depth = noDepth
	case s.kind == KindPredicate:
		pred, depth := s.pred, s.depth
		sc.pred = func(n *node.Node) bool {
			return (depth == noDepth || n.Depth() == depth) && pred(n)
		}
		sc.depth = noDepth
	}

	return sc
}

// Flatten implements Target.
func (s *Selector) Flatten() []*Selector { return []*Selector{s} }

func (s *Selector) Kind() Kind { return s.kind }

// Type returns the target type of a Type selector or the owner of a Field
// or Setter selector. It is nil for predicates, root selectors and unbound
// root fields.
func (s *Selector) Type() reflect.Type { return s.typ }

// Name returns the field or method name.
func (s *Selector) Name() string { return s.name }

// Param returns a setter's parameter type.
func (s *Selector) Param() reflect.Type { return s.param }

func (s *Selector) IsRoot() bool { return s.root }

func (s *Selector) IsLenient() bool { return s.lenient }

func (s *Selector) Priority() int { return s.priority }

func (s *Selector) Site() Site { return s.site }

// Depth returns the exact depth constraint, if any.
func (s *Selector) Depth() (int, bool) { return s.depth, s.depth != noDepth }

// Scopes returns the scopes outermost first.
func (s *Selector) Scopes() []Scope { return append([]Scope(nil), s.scopes...) }

// Test applies a predicate selector's node predicate. Scopes and depth are
// not considered.
func (s *Selector) Test(n *node.Node) bool {
	return s.pred != nil && s.pred(n)
}

// Siblings returns the other members of the equivalence group the selector
// was declared in, e.g. the *int selector for the int selector of AllInts.
func (s *Selector) Siblings() []*Selector {
	if s.group == nil {
		return nil
	}

	out := make([]*Selector, 0, len(s.group.members)-1)
	for _, m := range s.group.members {
		if m != s {
			out = append(out, m)
		}
	}

	return out
}

// Key returns the scope-stripped lookup key of a regular selector.
func (s *Selector) Key() Key {
	switch {
	case s.root:
		return RootKey()
	case s.kind == KindField:
		return Key{kind: KindField, typ: s.typ, name: s.name}
	case s.kind == KindSetter:
		return Key{kind: KindSetter, typ: s.typ, name: s.name, param: s.param}
	default:
		return Key{kind: s.kind, typ: s.typ}
	}
}

// Equal reports structural equality, ignoring identity, site and leniency.
func (s *Selector) Equal(other *Selector) bool {
	if s == other {
		return true
	}

	if s == nil || other == nil || s.kind == KindPredicate || other.kind == KindPredicate {
		return false
	}

	if s.Key() != other.Key() || s.depth != other.depth || len(s.scopes) != len(other.scopes) {
		return false
	}

	for i := range s.scopes {
		if !s.scopes[i].Equal(other.scopes[i]) {
			return false
		}
	}

	return true
}

func (s *Selector) String() string {
	var sb strings.Builder

	switch {
	case s.root:
		sb.WriteString("Root()")
	case s.kind == KindType:
		fmt.Fprintf(&sb, "Type(%s)", node.TypeName(s.typ))
	case s.kind == KindField:
		if s.typ == nil {
			fmt.Fprintf(&sb, "Field(%s)", s.name)
		} else {
			fmt.Fprintf(&sb, "Field(%s.%s)", node.TypeName(s.typ), s.name)
		}
	case s.kind == KindSetter:
		fmt.Fprintf(&sb, "Setter(%s.%s(%s))", node.TypeName(s.typ), s.name, paramName(s.param))
	case s.kind == KindPredicate:
		fmt.Fprintf(&sb, "Predicate(%s)", s.desc)
	default:
		fmt.Fprintf(&sb, "%s()", s.kind)
	}

	if len(s.scopes) > 0 {
		sb.WriteString(".Within(")
		for i, sc := range s.scopes {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(sc.String())
		}
		sb.WriteString(")")
	}

	if s.depth != noDepth {
		fmt.Fprintf(&sb, ".AtDepth(%d)", s.depth)
	}

	return sb.String()
}

func paramName(t reflect.Type) string {
	if t == nil {
		return "?"
	}

	return node.TypeName(t)
}
