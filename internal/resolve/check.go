package resolve

import (
	"fmt"
	"reflect"

	"fixturegen/internal/diagnostic"
	"fixturegen/internal/match"
	"fixturegen/node"
	"fixturegen/rule"
	"fixturegen/selector"
)

const maxSuggestions = 3

// checkSelectors warns about field and setter selectors naming members
// their owner does not have. Such selectors can never match.
func (m *Maps) checkSelectors(rules []rule.Rule) {
	seen := make(map[*selector.Selector]bool)

	check := func(s *selector.Selector) {
		if seen[s] {
			return
		}

		seen[s] = true

		switch s.Kind() {
		case selector.KindField:
			owner := s.Type()
			if owner == nil {
				return
			}

			if owner.Kind() != reflect.Struct {
				m.warn("not_a_struct", fmt.Sprintf("%s is not a struct, field %q never matches", node.TypeName(owner), s.Name()), s)

				return
			}

			if _, ok := owner.FieldByName(s.Name()); !ok {
				m.warn("unknown_field", fmt.Sprintf("%s has no field %q", node.TypeName(owner), s.Name()), s)
			}
		case selector.KindSetter:
			if s.Param() == nil {
				m.warn("unknown_setter",
					fmt.Sprintf("*%s has no single-argument method %q", node.TypeName(s.Type()), s.Name()), s)
			}
		case selector.KindType, selector.KindPredicate:
		}
	}

	for _, r := range rules {
		if a, ok := r.Payload.(*rule.Assignment); ok {
			check(a.Origin)
		}

		check(r.Selector)
	}
}

func (m *Maps) warn(code, msg string, s *selector.Selector) {
	m.logger.Warn(msg, "code", code, "selector", s.String(), "site", s.Site().String())

	m.diags.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticWarning,
		Code:        code,
		Message:     msg + " (declared at " + s.Site().String() + ")",
		Selector:    s.String(),
		Suggestions: Suggestions(s),
	})
}

// Suggestions returns member names of the selector's owner resembling the
// name it selects, when the owner has no such member. Only field and
// setter selectors get suggestions.
func Suggestions(s *selector.Selector) []string {
	owner := s.Type()
	if owner == nil || owner.Kind() != reflect.Struct {
		return nil
	}

	var known []string

	switch s.Kind() {
	case selector.KindField:
		if _, ok := owner.FieldByName(s.Name()); ok {
			return nil
		}

		for _, f := range reflect.VisibleFields(owner) {
			if !f.Anonymous {
				known = append(known, f.Name)
			}
		}
	case selector.KindSetter:
		if s.Param() != nil {
			return nil
		}

		pt := reflect.PointerTo(owner)
		for i := 0; i < pt.NumMethod(); i++ {
			known = append(known, pt.Method(i).Name)
		}
	default:
		return nil
	}

	return match.Suggest(s.Name(), known, maxSuggestions)
}
