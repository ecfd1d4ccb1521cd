// Package selectormap implements the generic selector resolution engine: a
// map from selectors to payloads answering which payload applies to a node.
//
// Regular selectors (type, field, setter) are indexed by their scope-stripped
// key. For a node the candidates are gathered by declared type, resolved
// type, setter and field key, and tried from the last one backwards, so
// field selectors beat type selectors and later declarations beat earlier
// ones. Predicate
// selectors are only consulted when no regular selector matches; they are
// ordered by priority, then by reverse insertion.
//
// Resolve and ResolveAll mark the winning selectors as used; Peek, PeekAll
// and Matches do not. A Map is not safe for concurrent use.
package selectormap

import (
	"slices"
	"sort"

	"fixturegen/internal/diagnostic"
	"fixturegen/node"
	"fixturegen/selector"
)

type entry[V any] struct {
	sel *selector.Selector
	val V
}

// Map binds selectors to payloads of type V.
type Map[V any] struct {
	index  map[selector.Key][]*entry[V]
	preds  []*entry[V]
	bySel  map[*selector.Selector]*entry[V]
	order  []*selector.Selector
	unused map[*selector.Selector]struct{}
}

// New returns an empty map.
func New[V any]() *Map[V] {
	return &Map[V]{
		index:  make(map[selector.Key][]*entry[V]),
		bySel:  make(map[*selector.Selector]*entry[V]),
		unused: make(map[*selector.Selector]struct{}),
	}
}

// Put binds s to v. Putting the same selector again replaces its payload
// and keeps its position. Non-lenient selectors start out unused.
func (m *Map[V]) Put(s *selector.Selector, v V) {
	if e, ok := m.bySel[s]; ok {
		e.val = v
		return
	}

	e := &entry[V]{sel: s, val: v}

	switch s.Kind() {
	case selector.KindType, selector.KindField, selector.KindSetter:
		k := s.Key()
		m.index[k] = append(m.index[k], e)
	case selector.KindPredicate:
		// newest first among equal priorities
		i := sort.Search(len(m.preds), func(i int) bool {
			return m.preds[i].sel.Priority() >= s.Priority()
		})
		m.preds = slices.Insert(m.preds, i, e)
	default:
		panic(diagnostic.Internal("unknown selector kind %s in %v", s.Kind(), s))
	}

	m.bySel[s] = e
	m.order = append(m.order, s)

	if !s.IsLenient() {
		m.unused[s] = struct{}{}
	}
}

// Get returns the payload bound to exactly s, without marking it used.
func (m *Map[V]) Get(s *selector.Selector) (V, bool) {
	if e, ok := m.bySel[s]; ok {
		return e.val, true
	}

	var zero V

	return zero, false
}

// Len returns the number of selectors in the map.
func (m *Map[V]) Len() int { return len(m.order) }

// Selectors returns all selectors in insertion order.
func (m *Map[V]) Selectors() []*selector.Selector {
	return slices.Clone(m.order)
}

// Each calls fn for every binding in insertion order.
func (m *Map[V]) Each(fn func(*selector.Selector, V)) {
	for _, s := range m.order {
		fn(s, m.bySel[s].val)
	}
}

// Resolve returns the payload of the highest-precedence selector matching
// n and marks that selector used.
func (m *Map[V]) Resolve(n *node.Node) (V, bool) {
	e := m.first(n)
	if e == nil {
		var zero V
		return zero, false
	}

	m.MarkUsed(e.sel)

	return e.val, true
}

// Peek is Resolve without marking anything used.
func (m *Map[V]) Peek(n *node.Node) (V, bool) {
	e := m.first(n)
	if e == nil {
		var zero V
		return zero, false
	}

	return e.val, true
}

func (m *Map[V]) first(n *node.Node) *entry[V] {
	if len(m.order) == 0 {
		return nil
	}

	candidates := m.candidates(n)
	for i := len(candidates) - 1; i >= 0; i-- {
		if ScopesMatch(candidates[i].sel, n) {
			return candidates[i]
		}
	}

	for _, e := range m.preds {
		if e.sel.Test(n) && ScopesMatch(e.sel, n) {
			return e
		}
	}

	return nil
}

// ResolveAll returns the payloads of every selector matching n, highest
// precedence first, and marks them used.
func (m *Map[V]) ResolveAll(n *node.Node) []V {
	matched := m.match(n)

	out := make([]V, len(matched))
	for i, e := range matched {
		m.MarkUsed(e.sel)
		out[i] = e.val
	}

	return out
}

// Matches returns every selector matching n, highest precedence first. It
// does not mark anything used.
func (m *Map[V]) Matches(n *node.Node) []*selector.Selector {
	matched := m.match(n)

	out := make([]*selector.Selector, len(matched))
	for i, e := range matched {
		out[i] = e.sel
	}

	return out
}

// PeekAll is ResolveAll without marking anything used.
func (m *Map[V]) PeekAll(n *node.Node) []V {
	matched := m.match(n)

	out := make([]V, len(matched))
	for i, e := range matched {
		out[i] = e.val
	}

	return out
}

func (m *Map[V]) match(n *node.Node) []*entry[V] {
	if len(m.order) == 0 {
		return nil
	}

	var out []*entry[V]

	candidates := m.candidates(n)
	for i := len(candidates) - 1; i >= 0; i-- {
		if ScopesMatch(candidates[i].sel, n) {
			out = append(out, candidates[i])
		}
	}

	for _, e := range m.preds {
		if e.sel.Test(n) && ScopesMatch(e.sel, n) {
			out = append(out, e)
		}
	}

	return out
}

// candidates gathers regular selectors by declared type, resolved type,
// setter and field key, in increasing precedence.
func (m *Map[V]) candidates(n *node.Node) []*entry[V] {
	if n.IsRoot() {
		roots := m.index[selector.RootKey()]
		for i := len(roots) - 1; i >= 0; i-- {
			if len(roots[i].sel.Scopes()) == 0 {
				return roots[i : i+1]
			}
		}
	}

	var out []*entry[V]

	if d := n.DeclaredType(); d != nil && d != n.Type() {
		out = append(out, m.index[selector.TypeKey(d)]...)
	}

	out = append(out, m.index[selector.TypeKey(n.Type())]...)

	if s := n.Setter(); s != nil {
		out = append(out, m.index[selector.SetterKey(s)]...)
	}

	if f := n.Field(); f != nil {
		out = append(out, m.index[selector.FieldKey(f)]...)
	}

	return out
}

// MarkUsed removes s, and the members of its value/pointer group, from the
// unused set.
func (m *Map[V]) MarkUsed(s *selector.Selector) {
	delete(m.unused, s)

	for _, sib := range s.Siblings() {
		delete(m.unused, sib)
	}
}

// IsUsed reports whether s has been consulted. Lenient and unknown
// selectors count as used.
func (m *Map[V]) IsUsed(s *selector.Selector) bool {
	_, pending := m.unused[s]
	return !pending
}

// Unused returns the non-lenient selectors never consulted, in insertion
// order.
func (m *Map[V]) Unused() []*selector.Selector {
	var out []*selector.Selector

	for _, s := range m.order {
		if _, ok := m.unused[s]; ok {
			out = append(out, s)
		}
	}

	return out
}

// Match reports whether s on its own selects n, as if it were the only
// selector in a map.
func Match(s *selector.Selector, n *node.Node) bool {
	switch s.Kind() {
	case selector.KindPredicate:
		return s.Test(n) && ScopesMatch(s, n)
	case selector.KindType, selector.KindField, selector.KindSetter:
	default:
		panic(diagnostic.Internal("unknown selector kind %s in %v", s.Kind(), s))
	}

	k := s.Key()

	switch {
	case s.IsRoot():
		if !n.IsRoot() {
			return false
		}
	case k == selector.TypeKey(n.Type()), k == selector.TypeKey(n.DeclaredType()):
	case n.Setter() != nil && k == selector.SetterKey(n.Setter()):
	case n.Field() != nil && k == selector.FieldKey(n.Field()):
	default:
		return false
	}

	return ScopesMatch(s, n)
}

// ScopesMatch tests a selector's depth constraint and scope chain against
// n. Scopes are consumed innermost first while walking from n towards the
// root; after a scope matches, the next one is tried on the same ancestor.
func ScopesMatch(s *selector.Selector, n *node.Node) bool {
	if d, ok := s.Depth(); ok && n.Depth() != d {
		return false
	}

	scopes := s.Scopes()
	if len(scopes) == 0 {
		return true
	}

	top := len(scopes) - 1
	for cur := n; cur != nil; {
		if !scopes[top].Matches(cur) {
			cur = cur.Parent()
			continue
		}

		top--
		if top < 0 {
			return true
		}
	}

	return false
}
