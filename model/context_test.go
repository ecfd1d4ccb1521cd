package model_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixturegen/internal/config"
	"fixturegen/internal/diagnostic"
	"fixturegen/internal/report"
	"fixturegen/model"
	"fixturegen/node"
	"fixturegen/rule"
	"fixturegen/selector"
	"fixturegen/store"
)

func ExampleContext_ReportUnused() {
	rules := rule.Of[store.Order]().
		Ignore(selector.RootField("Tags")).
		Set(selector.FieldOf[store.Address]("Stret"), "Main St")

	ctx, err := model.New(rules, model.WithMaxDepth(3))
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, n := range ctx.Tree().Nodes() {
		if ctx.IsIgnored(n) {
			continue
		}

		ctx.Generator(n)
	}

	for _, u := range ctx.Unused() {
		fmt.Println(u.Category, u.Selector, u.Suggestions)
	}

	fmt.Println(errors.Is(ctx.ReportUnused(), model.ErrStrictMode))
	// Output:
	// generate, set or supply Field(store.Address.Stret) [Street]
	// true
}

func TestContextQueries(t *testing.T) {
	var completed []string

	address := rule.Of[store.Address]().Set(selector.RootField("Country"), "NL")

	rules := rule.Of[store.Order]().
		Subtype(selector.TypeOf[store.Payment](), reflect.TypeFor[store.Transfer]()).
		Nullable(selector.RootField("BillingAddress")).
		SetModel(selector.RootField("ShippingAddress"), address).
		Feed(selector.Root(), rule.MapSource{"ID": int64(42)}).
		OnComplete(selector.TypeOf[store.OrderItem](), func(n *node.Node, _ any) {
			completed = append(completed, n.Path())
		}).
		Unique(selector.FieldOf[store.Product]("SKU")).
		Assign(rule.Assign(selector.RootField("TotalCents"), selector.FieldOf[store.Transfer]("Amount")))

	ctx, err := model.New(rules, model.WithMaxDepth(4))
	require.NoError(t, err)

	tree := ctx.Tree()
	assert.Equal(t, reflect.TypeFor[store.Order](), ctx.Root())

	payment := tree.Find("store.Order.Payment")
	require.NotNil(t, payment)
	assert.Equal(t, reflect.TypeFor[store.Transfer](), payment.Type())

	sub, ok := ctx.Subtype(payment)
	assert.True(t, ok)
	assert.Equal(t, reflect.TypeFor[store.Transfer](), sub)

	assert.True(t, ctx.IsNullable(tree.Find("store.Order.BillingAddress")))
	assert.False(t, ctx.IsNullable(tree.Find("store.Order.Customer.Address")))

	country := tree.Find("store.Order.ShippingAddress.Country")
	g, ok := ctx.Generator(country)
	require.True(t, ok)
	v, err := g.Generate(country)
	require.NoError(t, err)
	assert.Equal(t, "NL", v)

	_, ok = ctx.Generator(tree.Find("store.Order.BillingAddress.Country"))
	assert.False(t, ok)

	model, ok := ctx.EmbeddedModelAt(tree.Find("store.Order.ShippingAddress"))
	require.True(t, ok)
	assert.Same(t, address, model)

	src, ok := ctx.Feed(tree.Root())
	require.True(t, ok)
	id, _ := src.Property("ID")
	assert.Equal(t, int64(42), id)

	item := tree.Find("store.Order.Items[]")
	for _, cb := range ctx.Callbacks(item) {
		cb(item, nil)
	}

	assert.Equal(t, []string{"store.Order.Items[]"}, completed)

	sku := tree.Find("store.Order.Items[].Product.SKU")
	assert.True(t, ctx.Accept(sku, "A-1"))
	assert.False(t, ctx.Accept(sku, "A-1"))

	amount := tree.Find("store.Order.Payment.Amount")
	steps := ctx.Assignments(amount)
	require.Len(t, steps, 1)
	assert.Equal(t, "store.Order.TotalCents", steps[0].Origin.Path())
	assert.Equal(t, 1, ctx.Plan().Len())

	assert.Empty(t, ctx.Unused())
	assert.NoError(t, ctx.ReportUnused())

	matches := ctx.Report()
	assert.Len(t, matches.Category(rule.Subtype), 1)
	assert.Equal(t, []string{"store.Order.Payment"}, paths(matches.Category(rule.Subtype)[0].Nodes))
}

func TestUsageComesFromQueriesOnly(t *testing.T) {
	rules := rule.Of[store.Order]().
		Ignore(selector.FieldOf[store.Customer]("Email")).
		Set(selector.RootField("Customer"), store.Customer{}).
		Assign(rule.Assign(selector.RootField("ID"), selector.FieldOf[store.Product]("ID")))

	ctx, err := model.New(rules, model.WithMaxDepth(4))
	require.NoError(t, err)
	require.Equal(t, 1, ctx.Plan().Len())

	var categories []string
	for _, u := range ctx.Unused() {
		categories = append(categories, u.Category)
	}

	assert.Equal(t, []string{"ignore", "generate, set or supply", "assignment origin", "assign"}, categories,
		"building the context uses no selector")

	// a generator stops at generated nodes, so the Email ignore is never consulted
	var walk func(n *node.Node)
	walk = func(n *node.Node) {
		if ctx.IsIgnored(n) {
			return
		}

		ctx.Assignments(n)

		if _, ok := ctx.Generator(n); ok {
			return
		}

		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(ctx.Tree().Root())

	unused := ctx.Unused()
	require.Len(t, unused, 1)
	assert.Equal(t, "ignore", unused[0].Category)
	assert.Equal(t, "Field(store.Customer.Email)", unused[0].Selector)
	assert.ErrorIs(t, ctx.ReportUnused(), model.ErrStrictMode)
}

func TestSettings(t *testing.T) {
	s := config.Default()
	s.Mode = report.Lenient
	s.MaxDepth = 2
	s.IncludeSetters = true
	s.FailOnAmbiguousOrigin = false

	rules := rule.Of[store.Order]().
		Ignore(selector.Setter(reflect.TypeFor[store.Customer](), "SetTier")).
		Set(selector.FieldOf[store.Category]("Name"), "never reached").
		Assign(rule.Assign(selector.TypeOf[string](), selector.RootField("Status")))

	ctx, err := model.New(rules, model.WithSettings(s))
	require.NoError(t, err, "ambiguous origins are tolerated")
	require.Len(t, ctx.Assignments(ctx.Tree().Find("store.Order.Status")), 1)

	tier := ctx.Tree().Find("store.Order.Customer.tier")
	require.NotNil(t, tier)
	assert.True(t, ctx.IsIgnored(tier))

	assert.Nil(t, ctx.Tree().Find("store.Order.Items[].Product"), "depth 2 stops at the item")
	assert.NoError(t, ctx.ReportUnused(), "lenient mode")
	assert.Len(t, ctx.Unused(), 1)
}

func TestNewErrors(t *testing.T) {
	_, err := model.New(rule.Of[store.Order]().
		Assign(rule.Assign(selector.TypeOf[string](), selector.RootField("Status"))))

	var amb *diagnostic.AmbiguousOriginError
	require.ErrorAs(t, err, &amb)

	loop := rule.Of[store.Address]()
	loop.SetModel(selector.Root(), loop)

	_, err = model.New(loop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve rules for store.Address")
}

func paths(nodes []*node.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Path())
	}

	return out
}
