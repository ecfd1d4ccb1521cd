package rule

import (
	"reflect"

	"fixturegen/node"
)

// Generator produces the value for a node.
type Generator interface {
	Generate(n *node.Node) (any, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(n *node.Node) (any, error)

func (f GeneratorFunc) Generate(n *node.Node) (any, error) { return f(n) }

// Typed is implemented by generators that know the concrete type they
// produce. Such generators imply a subtype for the nodes they target.
type Typed interface {
	TargetType() reflect.Type
}

// Value returns a generator that always yields v.
func Value(v any) Generator { return value{v: v} }

type value struct{ v any }

func (g value) Generate(*node.Node) (any, error) { return g.v, nil }

func (g value) TargetType() reflect.Type { return reflect.TypeOf(g.v) }

// Supplier returns a generator calling fn for every value.
func Supplier[T any](fn func() T) Generator { return supplier[T]{fn: fn} }

type supplier[T any] struct{ fn func() T }

func (g supplier[T]) Generate(*node.Node) (any, error) { return g.fn(), nil }

func (g supplier[T]) TargetType() reflect.Type { return reflect.TypeFor[T]() }

// Callback runs once the value of a node has been populated.
type Callback func(n *node.Node, v any)

// FilterFunc accepts or rejects a candidate value for a node.
type FilterFunc func(n *node.Node, v any) bool

// Source feeds values to the properties of the node it is attached to.
type Source interface {
	Property(name string) (any, bool)
}

// MapSource is a Source backed by a map.
type MapSource map[string]any

func (m MapSource) Property(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Provider contributes default rules. Provider rules never count as unused.
type Provider interface {
	Contribute(s *Set)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(s *Set)

func (f ProviderFunc) Contribute(s *Set) { f(s) }
