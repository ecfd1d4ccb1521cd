package resolve

import (
	"fmt"
	"slices"

	"fixturegen/rule"
	"fixturegen/selector"
)

// imports collects the rules of every model embedded by set, rewritten into
// set's coordinates. A model's own imports come before its rules so the
// model overrides what it embeds. stack holds the models being imported.
func (m *Maps) imports(set *rule.Set, stack []*rule.Set) ([]rule.Rule, error) {
	var out []rule.Rule

	for _, r := range set.Rules() {
		if r.Category != rule.SetModel {
			continue
		}

		model := r.Payload.(*rule.Set)
		if slices.Contains(stack, model) {
			return nil, fmt.Errorf("%w: %s at %s declared at %s", ErrModelCycle, model, r.Selector, r.Selector.Site())
		}

		nested, err := m.imports(model, append(slices.Clone(stack), model))
		if err != nil {
			return nil, err
		}

		e := selector.NewEmbedder(r.Selector, model.Root())

		rewrite := e.Rewrite
		if model.IsLenient() {
			rewrite = func(s *selector.Selector) *selector.Selector { return e.Rewrite(s.Lenient()) }
		}

		for _, nr := range append(nested, model.Rules()...) {
			out = append(out, mapRule(nr, rewrite))
		}

		m.logger.Debug("model imported",
			"model", model.String(),
			"host", r.Selector.String(),
			"rules", len(nested)+model.Len())
	}

	return out, nil
}
