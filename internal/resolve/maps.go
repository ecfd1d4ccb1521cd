// Package resolve assembles the per-category selector maps for a rule set
// and answers the per-node questions the generation engine asks: is this
// node ignored, which generator or subtype applies, which assignments and
// callbacks target it.
//
// Rules enter the maps in this order: provider defaults, rules imported
// from embedded models, then the set's own rules. Later declarations win
// ties, so a set always overrides what it imports. The subtype map is
// assembled last from generator hints, assignment hints and explicit
// subtype rules, in that order.
package resolve

import (
	"errors"
	"log/slog"
	"reflect"

	"fixturegen/internal/diagnostic"
	"fixturegen/internal/selectormap"
	"fixturegen/node"
	"fixturegen/rule"
	"fixturegen/selector"
)

// ErrModelCycle is returned when embedded models import each other.
var ErrModelCycle = errors.New("model embeds itself")

// Option configures New.
type Option func(*Maps)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(m *Maps) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithProviders registers providers of default rules. Their rules are
// lenient and lose ties against every declared rule.
func WithProviders(providers ...rule.Provider) Option {
	return func(m *Maps) { m.providers = append(m.providers, providers...) }
}

// View is the category-independent side of a selector map used by
// diagnostics.
type View interface {
	Len() int
	Selectors() []*selector.Selector
	Matches(n *node.Node) []*selector.Selector
	Unused() []*selector.Selector
	IsUsed(s *selector.Selector) bool
}

type subtype struct {
	typ     reflect.Type
	implied bool
}

// Maps holds one selector map per rule category for a single generation
// run. It is not safe for concurrent use.
type Maps struct {
	root      reflect.Type
	lenient   bool
	logger    *slog.Logger
	providers []rule.Provider
	diags     diagnostic.Diagnostics

	ignore      *selectormap.Map[bool]
	nullable    *selectormap.Map[bool]
	generators  *selectormap.Map[rule.Generator]
	subtypes    *selectormap.Map[subtype]
	origins     *selectormap.Map[[]*rule.Assignment]
	assignments *selectormap.Map[[]*rule.Assignment]
	callbacks   *selectormap.Map[[]rule.Callback]
	filters     *selectormap.Map[[]rule.FilterFunc]
	feeds       *selectormap.Map[rule.Source]
	models      *selectormap.Map[*rule.Set]
}

// New builds the maps for set.
func New(set *rule.Set, opts ...Option) (*Maps, error) {
	m := &Maps{
		root:        set.Root(),
		lenient:     set.IsLenient(),
		logger:      slog.New(slog.DiscardHandler),
		ignore:      selectormap.New[bool](),
		nullable:    selectormap.New[bool](),
		generators:  selectormap.New[rule.Generator](),
		subtypes:    selectormap.New[subtype](),
		origins:     selectormap.New[[]*rule.Assignment](),
		assignments: selectormap.New[[]*rule.Assignment](),
		callbacks:   selectormap.New[[]rule.Callback](),
		filters:     selectormap.New[[]rule.FilterFunc](),
		feeds:       selectormap.New[rule.Source](),
		models:      selectormap.New[*rule.Set](),
	}

	for _, opt := range opts {
		opt(m)
	}

	var rules []rule.Rule

	for _, p := range m.providers {
		defaults := rule.For(set.Root())
		p.Contribute(defaults)

		for _, r := range defaults.Rules() {
			rules = append(rules, mapRule(r, (*selector.Selector).Lenient))
		}
	}

	imported, err := m.imports(set, []*rule.Set{set})
	if err != nil {
		return nil, err
	}

	rules = append(rules, imported...)
	rules = append(rules, set.Rules()...)

	for _, r := range rules {
		m.insert(r)
	}

	m.mergeSubtypes(rules)
	m.checkSelectors(rules)

	m.logger.Debug("rule maps ready",
		"root", node.TypeName(m.root),
		"rules", len(rules),
		"imported", len(imported),
		"warnings", len(m.diags.Warnings))

	return m, nil
}

func (m *Maps) insert(r rule.Rule) {
	m.logger.Debug("selector registered",
		"category", r.Category.String(),
		"selector", r.Selector.String(),
		"site", r.Selector.Site().String())

	switch r.Category {
	case rule.Ignore:
		m.ignore.Put(r.Selector, r.Payload.(bool))
	case rule.Nullable:
		m.nullable.Put(r.Selector, r.Payload.(bool))
	case rule.Generate:
		m.generators.Put(r.Selector, r.Payload.(rule.Generator))
	case rule.Subtype:
		// merged later
	case rule.AssignDestination:
		a := r.Payload.(*rule.Assignment)
		appendTo(m.assignments, a.Destination, a)
		appendTo(m.origins, a.Origin, a)
	case rule.OnComplete:
		appendTo(m.callbacks, r.Selector, r.Payload.(rule.Callback))
	case rule.Filter:
		appendTo(m.filters, r.Selector, r.Payload.(rule.FilterFunc))
	case rule.Feed:
		m.feeds.Put(r.Selector, r.Payload.(rule.Source))
	case rule.SetModel:
		m.models.Put(r.Selector, r.Payload.(*rule.Set))
	default:
		panic(diagnostic.Internal("rule %v declared with category %s", r.Selector, r.Category))
	}
}

// appendTo accumulates payloads declared for the same selector.
func appendTo[V any](m *selectormap.Map[[]V], s *selector.Selector, v V) {
	cur, _ := m.Get(s)
	m.Put(s, append(cur, v))
}

// mapRule applies fn to every selector of a rule, keeping an assignment's
// destination and the rule selector identical.
func mapRule(r rule.Rule, fn func(*selector.Selector) *selector.Selector) rule.Rule {
	if a, ok := r.Payload.(*rule.Assignment); ok {
		a = a.Rewrite(fn)
		return rule.Rule{Category: r.Category, Selector: a.Destination, Payload: a}
	}

	r.Selector = fn(r.Selector)

	return r
}

// Root returns the root type of the rule set.
func (m *Maps) Root() reflect.Type { return m.root }

// IsLenient reports whether the rule set opted out of strict mode.
func (m *Maps) IsLenient() bool { return m.lenient }

// Diagnostics returns the findings collected while the maps were built.
func (m *Maps) Diagnostics() diagnostic.Diagnostics { return m.diags }

// View returns the map behind a category.
func (m *Maps) View(c rule.Category) View {
	switch c {
	case rule.Ignore:
		return m.ignore
	case rule.Nullable:
		return m.nullable
	case rule.Generate:
		return m.generators
	case rule.Subtype:
		return m.subtypes
	case rule.AssignOrigin:
		return m.origins
	case rule.AssignDestination:
		return m.assignments
	case rule.OnComplete:
		return m.callbacks
	case rule.Filter:
		return m.filters
	case rule.Feed:
		return m.feeds
	case rule.SetModel:
		return m.models
	default:
		panic(diagnostic.Internal("no selector map for category %s", c))
	}
}
