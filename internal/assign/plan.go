// Package assign pairs every assignment destination in a node tree with its
// origin node and orders the resulting steps so that a step runs only after
// the value of its origin is final.
//
// The origin of a destination is the nearest node matching the origin
// selector: the subtree of the destination's parent is searched first, then
// the subtree of the grandparent, and so on up to the root. Two matches at
// the level where the search succeeds make the origin ambiguous.
package assign

import (
	"fmt"
	"log/slog"

	"fixturegen/internal/diagnostic"
	"fixturegen/internal/selectormap"
	"fixturegen/node"
	"fixturegen/rule"
	"fixturegen/selector"
	"fixturegen/utils"
)

// Resolver is the part of the rule maps the planner needs. Planning happens
// before generation, so none of its lookups may mark a selector used.
type Resolver interface {
	PeekIgnored(n *node.Node) bool
	PeekAssignments(n *node.Node) []*rule.Assignment
}

// Step applies one assignment to one destination node.
type Step struct {
	Assignment  *rule.Assignment
	Destination *node.Node
	Origin      *node.Node
}

func (s Step) String() string {
	return fmt.Sprintf("%s <- %s (%s)", s.Destination.Path(), s.Origin.Path(), s.Assignment)
}

// Plan is the ordered list of assignment steps for one tree.
type Plan struct {
	Steps []Step
}

// Len returns the number of steps.
func (p *Plan) Len() int { return len(p.Steps) }

// For returns the steps assigning n, in execution order.
func (p *Plan) For(n *node.Node) []Step {
	var out []Step

	for _, s := range p.Steps {
		if s.Destination == n {
			out = append(out, s)
		}
	}

	return out
}

// Option configures Build.
type Option func(*planner)

// TolerateAmbiguity picks the first match instead of failing when an origin
// selector matches several nodes, for every assignment.
func TolerateAmbiguity() Option {
	return func(p *planner) { p.tolerate = true }
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(p *planner) {
		if l != nil {
			p.logger = l
		}
	}
}

type planner struct {
	tree     *node.Tree
	r        Resolver
	tolerate bool
	logger   *slog.Logger
}

// Build plans the assignments of tree. It fails with a
// *diagnostic.AmbiguousOriginError when an origin cannot be decided and
// with a *diagnostic.UnresolvedAssignmentsError when steps wait on each
// other or their origin is missing from the tree.
func Build(tree *node.Tree, r Resolver, opts ...Option) (*Plan, error) {
	p := &planner{tree: tree, r: r, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}

	var (
		steps   []Step
		missing []string
	)

	for _, dest := range tree.Nodes() {
		if r.PeekIgnored(dest) {
			continue
		}

		for _, a := range r.PeekAssignments(dest) {
			origin, err := p.origin(dest, a)
			if err != nil {
				return nil, err
			}

			if origin == nil || r.PeekIgnored(origin) {
				missing = append(missing, fmt.Sprintf("%s <- %s (origin not populated)", dest.Path(), a.Origin))
				continue
			}

			steps = append(steps, Step{Assignment: a, Destination: dest, Origin: origin})
		}
	}

	order, pending := topoSort(len(steps), func(i int) []int {
		var deps []int

		for j, other := range steps {
			if j != i && dependsOn(steps[i], other) {
				deps = append(deps, j)
			}
		}

		// an assignment from a node to itself or its own subtree never settles
		if within(steps[i].Destination, steps[i].Origin) {
			deps = append(deps, i)
		}

		return deps
	})

	if len(pending) > 0 || len(missing) > 0 {
		err := &diagnostic.UnresolvedAssignmentsError{}
		for _, i := range pending {
			err.Pending = append(err.Pending, steps[i].String())
		}

		err.Pending = append(err.Pending, missing...)

		return nil, err
	}

	plan := &Plan{Steps: make([]Step, 0, len(order))}
	for _, i := range order {
		plan.Steps = append(plan.Steps, steps[i])
	}

	p.logger.Debug("assignments planned", "steps", plan.Len())

	return plan, nil
}

// dependsOn reports whether step s reads a value other writes.
func dependsOn(s, other Step) bool {
	return within(other.Destination, s.Origin)
}

// within reports whether n is top or one of its descendants.
func within(n, top *node.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.ID() == top.ID() {
			return true
		}
	}

	return false
}

// origin finds the nearest node matching a's origin selector.
func (p *planner) origin(dest *node.Node, a *rule.Assignment) (*node.Node, error) {
	limit := 2
	if p.tolerate || a.MultipleOrigins() {
		limit = 1
	}

	for top := dest.Parent(); top != nil; top = top.Parent() {
		matches := search(top, a.Origin, limit)

		switch {
		case len(matches) == 0:
			continue
		case len(matches) == 1:
			return matches[0], nil
		default:
			first, second := utils.Unpack2(matches)

			return nil, &diagnostic.AmbiguousOriginError{
				Origin:      a.Origin.String(),
				Site:        a.Origin.Site().String(),
				Destination: dest.Path(),
				Matches:     []string{first.Path(), second.Path()},
			}
		}
	}

	return nil, nil
}

// search walks the subtree of top breadth-first and stops after limit
// matches of s.
func search(top *node.Node, s *selector.Selector, limit int) []*node.Node {
	var out []*node.Node

	queue := []*node.Node{top}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if selectormap.Match(s, n) {
			out = append(out, n)
			if len(out) == limit {
				return out
			}
		}

		queue = append(queue, n.Children()...)
	}

	return out
}
