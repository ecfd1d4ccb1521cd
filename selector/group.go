package selector

import (
	"reflect"
	"time"

	"fixturegen/primitive"
)

// Target is anything rules can be declared against: a single selector or a
// group of them.
type Target interface {
	Flatten() []*Selector
}

type group struct {
	members []*Selector
}

// Group is a set of selectors declared as a unit. When a group is built from
// value/pointer twins (see AllOf), matching either member counts as using
// both.
type Group struct {
	selectors []*Selector
}

// NewGroup bundles independent selectors. Members are tracked separately.
func NewGroup(selectors ...*Selector) Group {
	return Group{selectors: append([]*Selector(nil), selectors...)}
}

// AllOf selects t and, for primitive types, its pointer (or value) twin.
func AllOf(t reflect.Type) Group {
	s := Type(t)

	twin, ok := primitive.Equivalent(t)
	if !ok {
		return Group{selectors: []*Selector{s}}
	}

	return link(s, Type(twin))
}

func AllInts() Group      { return AllOf(reflect.TypeFor[int]()) }
func AllInt64s() Group    { return AllOf(reflect.TypeFor[int64]()) }
func AllFloat64s() Group  { return AllOf(reflect.TypeFor[float64]()) }
func AllBools() Group     { return AllOf(reflect.TypeFor[bool]()) }
func AllStrings() Group   { return AllOf(reflect.TypeFor[string]()) }
func AllTimes() Group     { return AllOf(reflect.TypeFor[time.Time]()) }
func AllDurations() Group { return AllOf(reflect.TypeFor[time.Duration]()) }

func link(selectors ...*Selector) Group {
	g := &group{members: selectors}
	for _, s := range selectors {
		s.group = g
	}

	return Group{selectors: selectors}
}

func (g Group) Flatten() []*Selector {
	return append([]*Selector(nil), g.selectors...)
}

func (g Group) linked() bool {
	return len(g.selectors) > 1 && g.selectors[0].group != nil
}

func (g Group) derive(fn func(*Selector) *Selector) Group {
	out := make([]*Selector, len(g.selectors))
	for i, s := range g.selectors {
		out[i] = fn(s)
	}

	if g.linked() {
		return link(out...)
	}

	return Group{selectors: out}
}

// Within applies Selector.Within to every member.
func (g Group) Within(scopes ...Scope) Group {
	return g.derive(func(s *Selector) *Selector { return s.Within(scopes...) })
}

// AtDepth applies Selector.AtDepth to every member.
func (g Group) AtDepth(depth int) Group {
	return g.derive(func(s *Selector) *Selector { return s.AtDepth(depth) })
}

// Lenient applies Selector.Lenient to every member.
func (g Group) Lenient() Group {
	return g.derive((*Selector).Lenient)
}
