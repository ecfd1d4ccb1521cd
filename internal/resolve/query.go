package resolve

import (
	"fixturegen/node"
	"fixturegen/rule"
)

// IsIgnored reports whether n is left unpopulated.
func (m *Maps) IsIgnored(n *node.Node) bool {
	v, ok := m.ignore.Resolve(n)
	return ok && v
}

// IsNullable reports whether n may be left nil.
func (m *Maps) IsNullable(n *node.Node) bool {
	v, ok := m.nullable.Resolve(n)
	return ok && v
}

// Generator returns the generator populating n.
func (m *Maps) Generator(n *node.Node) (rule.Generator, bool) {
	return m.generators.Resolve(n)
}

// Assignments returns the assignments whose destination matches n, highest
// precedence first.
func (m *Maps) Assignments(n *node.Node) []*rule.Assignment {
	return flatten(m.assignments.ResolveAll(n))
}

// PeekIgnored is IsIgnored without marking the ignore rule used. The
// assignment planner uses it to look at the tree before generation starts.
func (m *Maps) PeekIgnored(n *node.Node) bool {
	v, ok := m.ignore.Peek(n)
	return ok && v
}

// PeekAssignments is Assignments without marking the destination selectors
// used.
func (m *Maps) PeekAssignments(n *node.Node) []*rule.Assignment {
	return flatten(m.assignments.PeekAll(n))
}

// MarkAssignmentUsed records that a planned assignment was handed to the
// generation engine: both its destination and its origin selector count
// as used.
func (m *Maps) MarkAssignmentUsed(a *rule.Assignment) {
	m.assignments.MarkUsed(a.Destination)
	m.origins.MarkUsed(a.Origin)
}

// Callbacks returns the callbacks to run once n is populated, in
// declaration order per selector, highest-precedence selector first.
func (m *Maps) Callbacks(n *node.Node) []rule.Callback {
	return flatten(m.callbacks.ResolveAll(n))
}

// Filters returns every filter a value of n must pass.
func (m *Maps) Filters(n *node.Node) []rule.FilterFunc {
	return flatten(m.filters.ResolveAll(n))
}

// Accept runs the filters of n against v.
func (m *Maps) Accept(n *node.Node, v any) bool {
	for _, f := range m.Filters(n) {
		if !f(n, v) {
			return false
		}
	}

	return true
}

// Feed returns the data source attached to n.
func (m *Maps) Feed(n *node.Node) (rule.Source, bool) {
	return m.feeds.Resolve(n)
}

// Model returns the rule set embedded at n.
func (m *Maps) Model(n *node.Node) (*rule.Set, bool) {
	return m.models.Resolve(n)
}

func flatten[V any](groups [][]V) []V {
	var out []V
	for _, g := range groups {
		out = append(out, g...)
	}

	return out
}
