package resolve

import (
	"fmt"
	"reflect"

	"fixturegen/node"
	"fixturegen/rule"
	"fixturegen/selector"
)

// mergeSubtypes fills the subtype map. A generator or assignment whose
// values have a known type implies a lenient subtype hint for its
// selector; explicit subtype rules are inserted last and win ties. An
// implied hint contradicting an explicit rule on an equal selector is
// dropped with a warning.
func (m *Maps) mergeSubtypes(rules []rule.Rule) {
	var explicit []rule.Rule

	for _, r := range rules {
		if r.Category == rule.Subtype {
			explicit = append(explicit, r)
		}
	}

	imply := func(s *selector.Selector, g rule.Generator) {
		t := impliedType(g)
		if t == nil {
			return
		}

		for _, e := range explicit {
			want := e.Payload.(reflect.Type)
			if e.Selector.Equal(s) && want != t {
				m.warn("subtype_conflict",
					fmt.Sprintf("values of type %s conflict with declared subtype %s", node.TypeName(t), node.TypeName(want)), s)

				return
			}
		}

		m.subtypes.Put(s.Lenient(), subtype{typ: t, implied: true})
	}

	for _, r := range rules {
		if r.Category == rule.Generate {
			imply(r.Selector, r.Payload.(rule.Generator))
		}
	}

	for _, r := range rules {
		if r.Category == rule.AssignDestination {
			a := r.Payload.(*rule.Assignment)
			if g := a.Generator(); g != nil {
				imply(a.Destination, g)
			}
		}
	}

	for _, r := range explicit {
		m.subtypes.Put(r.Selector, subtype{typ: r.Payload.(reflect.Type)})
	}
}

// impliedType returns the concrete type a generator produces, if it is
// known up front.
func impliedType(g rule.Generator) reflect.Type {
	typed, ok := g.(rule.Typed)
	if !ok {
		return nil
	}

	t := typed.TargetType()
	if t == nil || t.Kind() == reflect.Interface {
		return nil
	}

	return t
}

// ResolveSubtype returns the type to use for n instead of its declared
// type. Implied hints that equal the declared type or cannot be assigned
// to it are skipped in favor of the next match. It implements
// node.SubtypeResolver.
func (m *Maps) ResolveSubtype(n *node.Node) (reflect.Type, bool) {
	for _, s := range m.subtypes.Matches(n) {
		st, _ := m.subtypes.Get(s)

		if st.implied {
			declared := n.DeclaredType()
			if st.typ == declared || !st.typ.AssignableTo(declared) {
				continue
			}
		}

		m.subtypes.MarkUsed(s)

		return st.typ, true
	}

	return nil, false
}
