// Package model is what a generation engine talks to. A Context owns the
// node tree of the root type, the resolved rule maps and the assignment
// plan for one construction run, and answers the per-node questions the
// engine asks while it walks the tree.
//
//	ctx, err := model.New(rules, model.WithMode(report.Strict))
//	if err != nil {
//		return err
//	}
//
//	for _, n := range ctx.Tree().Nodes() {
//		if ctx.IsIgnored(n) {
//			continue
//		}
//		// ...
//	}
//
//	return ctx.ReportUnused()
//
// A Context is not safe for concurrent use.
package model

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"fixturegen/internal/assign"
	"fixturegen/internal/config"
	"fixturegen/internal/report"
	"fixturegen/internal/resolve"
	"fixturegen/node"
	"fixturegen/rule"
)

// ErrStrictMode wraps the unused-selector error returned by ReportUnused.
var ErrStrictMode = errors.New("strict mode")

type options struct {
	logger    *slog.Logger
	providers []rule.Provider
	mode      report.Mode
	maxDepth  int
	setters   bool
	tolerate  bool
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used by every stage. By default nothing is
// logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProviders adds default rules, see resolve.WithProviders.
func WithProviders(p ...rule.Provider) Option {
	return func(o *options) { o.providers = append(o.providers, p...) }
}

// WithMode sets how ReportUnused treats unused selectors. The default is
// strict.
func WithMode(m report.Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithMaxDepth bounds the node tree.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithSetters includes setter methods in the node tree.
func WithSetters() Option {
	return func(o *options) { o.setters = true }
}

// TolerateAmbiguousOrigins uses the nearest match when an assignment origin
// matches several nodes instead of failing.
func TolerateAmbiguousOrigins() Option {
	return func(o *options) { o.tolerate = true }
}

// WithSettings applies loaded settings.
func WithSettings(s config.Settings) Option {
	return func(o *options) {
		o.mode = s.Mode
		o.maxDepth = s.MaxDepth
		o.setters = s.IncludeSetters
		o.tolerate = !s.FailOnAmbiguousOrigin
	}
}

// Context holds everything resolved for one construction run.
type Context struct {
	set    *rule.Set
	maps   *resolve.Maps
	tree   *node.Tree
	plan   *assign.Plan
	mode   report.Mode
	logger *slog.Logger
}

// New resolves set: it builds the rule maps, the node tree with subtypes
// applied, and the assignment plan.
func New(set *rule.Set, opts ...Option) (*Context, error) {
	o := options{
		logger:   slog.New(slog.DiscardHandler),
		mode:     report.Strict,
		maxDepth: node.DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	maps, err := resolve.New(set, resolve.WithLogger(o.logger), resolve.WithProviders(o.providers...))
	if err != nil {
		return nil, fmt.Errorf("resolve rules for %s: %w", node.TypeName(set.Root()), err)
	}

	treeOpts := []node.Option{node.WithMaxDepth(o.maxDepth), node.WithSubtypes(maps)}
	if o.setters {
		treeOpts = append(treeOpts, node.WithSetters())
	}

	tree, err := node.FromType(set.Root(), treeOpts...)
	if err != nil {
		return nil, fmt.Errorf("build node tree: %w", err)
	}

	var planOpts []assign.Option
	if o.tolerate {
		planOpts = append(planOpts, assign.TolerateAmbiguity())
	}

	plan, err := assign.Build(tree, maps, append(planOpts, assign.WithLogger(o.logger))...)
	if err != nil {
		return nil, err
	}

	for _, d := range maps.Diagnostics().Warnings {
		o.logger.Warn("rule declaration", "diagnostic", d.String())
	}

	o.logger.Info("model ready",
		"root", node.TypeName(set.Root()),
		"nodes", tree.Len(),
		"assignments", plan.Len(),
		"mode", string(o.mode))

	return &Context{set: set, maps: maps, tree: tree, plan: plan, mode: o.mode, logger: o.logger}, nil
}

// Root returns the root type.
func (c *Context) Root() reflect.Type { return c.set.Root() }

// Tree returns the node tree.
func (c *Context) Tree() *node.Tree { return c.tree }

// Plan returns the ordered assignment steps.
func (c *Context) Plan() *assign.Plan { return c.plan }

// Maps exposes the resolved rule maps.
func (c *Context) Maps() *resolve.Maps { return c.maps }

func (c *Context) IsIgnored(n *node.Node) bool { return c.maps.IsIgnored(n) }

func (c *Context) IsNullable(n *node.Node) bool { return c.maps.IsNullable(n) }

func (c *Context) Generator(n *node.Node) (rule.Generator, bool) { return c.maps.Generator(n) }

// Subtype returns the concrete type chosen for n, if a rule chose one.
func (c *Context) Subtype(n *node.Node) (reflect.Type, bool) { return c.maps.ResolveSubtype(n) }

// Assignments returns the planned steps assigning n, in execution order.
// The selectors of the returned assignments count as used from here on;
// planning them in New does not.
func (c *Context) Assignments(n *node.Node) []assign.Step {
	steps := c.plan.For(n)
	for _, s := range steps {
		c.maps.MarkAssignmentUsed(s.Assignment)
	}

	return steps
}

func (c *Context) Callbacks(n *node.Node) []rule.Callback { return c.maps.Callbacks(n) }

// Accept reports whether v passes every filter declared for n.
func (c *Context) Accept(n *node.Node, v any) bool { return c.maps.Accept(n, v) }

func (c *Context) Feed(n *node.Node) (rule.Source, bool) { return c.maps.Feed(n) }

// EmbeddedModelAt returns the rule set embedded at n. Its rules are already
// part of this context.
func (c *Context) EmbeddedModelAt(n *node.Node) (*rule.Set, bool) { return c.maps.Model(n) }

// Report collects the nodes every selector matches.
func (c *Context) Report() *report.Matches { return report.Collect(c.tree, c.maps) }

// Unused lists the selectors never consulted so far.
func (c *Context) Unused() []report.UnusedSelector { return report.Unused(c.maps) }

// ReportUnused fails in strict mode when a selector was never used. Call it
// once the generation pass is over.
func (c *Context) ReportUnused() error {
	if err := report.Check(c.maps, c.mode); err != nil {
		c.logger.Error("unused selectors", "count", len(c.Unused()))
		return fmt.Errorf("%w: %w", ErrStrictMode, err)
	}

	return nil
}
