// Package rule is the declaration API: a Set collects the customizations a
// test wants for one root type, each bound to selectors.
//
//	rules := rule.Of[store.Order]().
//		Ignore(selector.RootField("Notes")).
//		Set(selector.AllStrings().Within(selector.In[store.Address]()), "n/a").
//		Subtype(selector.TypeOf[store.Payment](), reflect.TypeFor[store.Card]())
//
// Root-relative field selectors are bound to the root type as they are
// declared. A Set is not safe for concurrent use.
package rule

import (
	"fmt"
	"reflect"

	"github.com/davecgh/go-spew/spew"

	"fixturegen/node"
	"fixturegen/selector"
)

// Rule is one declaration. Payload depends on the category:
//
//	Ignore, Nullable     bool
//	Generate             Generator
//	Subtype              reflect.Type
//	AssignDestination    *Assignment
//	OnComplete           Callback
//	Filter               FilterFunc
//	Feed                 Source
//	SetModel             *Set
type Rule struct {
	Category Category
	Selector *selector.Selector
	Payload  any
}

// Set is an ordered collection of rules for one root type.
type Set struct {
	root    reflect.Type
	lenient bool
	rules   []Rule
}

// For starts a rule set for root.
func For(root reflect.Type) *Set {
	if root == nil {
		panic("rule: root type must not be nil")
	}

	return &Set{root: root}
}

// Of is For for a type parameter.
func Of[T any]() *Set {
	return For(reflect.TypeFor[T]())
}

// Root returns the root type the rules are declared against.
func (s *Set) Root() reflect.Type { return s.root }

// Rules returns the declarations in order.
func (s *Set) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Len returns the number of declarations.
func (s *Set) Len() int { return len(s.rules) }

// Lenient disables unused-selector errors for this set.
func (s *Set) Lenient() *Set {
	s.lenient = true
	return s
}

func (s *Set) IsLenient() bool { return s.lenient }

func (s *Set) add(c Category, target selector.Target, payload any) *Set {
	for _, sel := range target.Flatten() {
		s.rules = append(s.rules, Rule{Category: c, Selector: sel.Bind(s.root), Payload: payload})
	}

	return s
}

// Ignore leaves the targeted nodes unpopulated.
func (s *Set) Ignore(targets ...selector.Target) *Set {
	for _, t := range targets {
		s.add(Ignore, t, true)
	}

	return s
}

// Nullable allows the targeted nodes to be left nil.
func (s *Set) Nullable(targets ...selector.Target) *Set {
	for _, t := range targets {
		s.add(Nullable, t, true)
	}

	return s
}

// Generate populates the targeted nodes with g.
func (s *Set) Generate(target selector.Target, g Generator) *Set {
	if g == nil {
		panic("rule: generator must not be nil")
	}

	return s.add(Generate, target, g)
}

// Set populates the targeted nodes with v.
func (s *Set) Set(target selector.Target, v any) *Set {
	return s.add(Generate, target, Value(v))
}

// Supply populates the targeted nodes with the results of fn.
func (s *Set) Supply(target selector.Target, fn func() any) *Set {
	return s.add(Generate, target, Supplier(fn))
}

// Subtype makes the targeted nodes use t instead of their declared type.
func (s *Set) Subtype(target selector.Target, t reflect.Type) *Set {
	if t == nil {
		panic("rule: subtype must not be nil")
	}

	return s.add(Subtype, target, t)
}

// Assign declares assignments. Each is keyed by its destination.
func (s *Set) Assign(assignments ...*Assignment) *Set {
	for _, a := range assignments {
		bound := a.Rewrite(func(sel *selector.Selector) *selector.Selector { return sel.Bind(s.root) })
		s.rules = append(s.rules, Rule{Category: AssignDestination, Selector: bound.Destination, Payload: bound})
	}

	return s
}

// OnComplete runs fn for every targeted node once populated.
func (s *Set) OnComplete(target selector.Target, fn Callback) *Set {
	if fn == nil {
		panic("rule: callback must not be nil")
	}

	return s.add(OnComplete, target, fn)
}

// Filter rejects values of the targeted nodes for which fn returns false.
func (s *Set) Filter(target selector.Target, fn FilterFunc) *Set {
	if fn == nil {
		panic("rule: filter must not be nil")
	}

	return s.add(Filter, target, fn)
}

// Unique rejects values already produced for the targeted nodes. Values
// that cannot be map keys are compared by their dumped representation.
func (s *Set) Unique(target selector.Target) *Set {
	return s.add(Filter, target, uniqueFilter())
}

// Feed attaches a data source to the targeted nodes.
func (s *Set) Feed(target selector.Target, src Source) *Set {
	if src == nil {
		panic("rule: feed source must not be nil")
	}

	return s.add(Feed, target, src)
}

// SetModel embeds model at the targeted nodes. The model's rules apply
// relative to each targeted node.
func (s *Set) SetModel(target selector.Target, model *Set) *Set {
	if model == nil {
		panic("rule: model must not be nil")
	}

	return s.add(SetModel, target, model)
}

func (s *Set) String() string {
	return fmt.Sprintf("rule.Set(%s, %d rules)", node.TypeName(s.root), len(s.rules))
}

var dumper = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func uniqueFilter() FilterFunc {
	seen := make(map[any]struct{})

	return func(_ *node.Node, v any) bool {
		key := v
		if v != nil && !reflect.ValueOf(v).Comparable() {
			key = dumper.Sdump(v)
		}

		if _, dup := seen[key]; dup {
			return false
		}

		seen[key] = struct{}{}

		return true
	}
}
