package rule

import (
	"fmt"

	"fixturegen/node"
	"fixturegen/selector"
)

// Assignment derives the value of destination nodes from an origin node.
// Without a condition it always applies; without a generator or transform
// the origin value is copied.
type Assignment struct {
	Origin      *selector.Selector
	Destination *selector.Selector

	condition func(origin any) bool
	generator Generator
	transform func(origin any) any
	multiple  bool
}

// Assign starts an assignment from origin to destination.
func Assign(origin, destination *selector.Selector) *Assignment {
	if origin == nil || destination == nil {
		panic("rule: assignment needs an origin and a destination")
	}

	return &Assignment{Origin: origin, Destination: destination}
}

// When makes the assignment conditional on the origin value.
func (a *Assignment) When(cond func(origin any) bool) *Assignment {
	a.condition = cond
	return a
}

// Set assigns a fixed value when the condition holds.
func (a *Assignment) Set(v any) *Assignment {
	a.generator = Value(v)
	return a
}

// Generate assigns a generated value when the condition holds.
func (a *Assignment) Generate(g Generator) *Assignment {
	a.generator = g
	return a
}

// As assigns fn(origin).
func (a *Assignment) As(fn func(origin any) any) *Assignment {
	a.transform = fn
	return a
}

// AllowMultipleOrigins tolerates an origin selector matching several nodes;
// the nearest one is used.
func (a *Assignment) AllowMultipleOrigins() *Assignment {
	a.multiple = true
	return a
}

func (a *Assignment) MultipleOrigins() bool { return a.multiple }

// Generator returns the generator set with Set or Generate, if any.
func (a *Assignment) Generator() Generator { return a.generator }

// Applies reports whether the assignment fires for the given origin value.
func (a *Assignment) Applies(origin any) bool {
	return a.condition == nil || a.condition(origin)
}

// Value computes the value of dest from the origin value.
func (a *Assignment) Value(dest *node.Node, origin any) (any, error) {
	switch {
	case a.generator != nil:
		return a.generator.Generate(dest)
	case a.transform != nil:
		return a.transform(origin), nil
	default:
		return origin, nil
	}
}

// Rewrite returns a copy with both selectors passed through fn.
func (a *Assignment) Rewrite(fn func(*selector.Selector) *selector.Selector) *Assignment {
	c := *a
	c.Origin = fn(a.Origin)
	c.Destination = fn(a.Destination)

	return &c
}

func (a *Assignment) String() string {
	return fmt.Sprintf("%s <- %s", a.Destination, a.Origin)
}
