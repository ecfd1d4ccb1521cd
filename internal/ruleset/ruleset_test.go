package ruleset_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"fixturegen/internal/ruleset"
	"fixturegen/model"
	"fixturegen/store"
)

const orderRules = `version: "1"
root: store.Order
ignore:
  - Tags
  - type: "*Category"
nullable: [BillingAddress]
set:
  - path: ShippingAddress.Country
    value: NL
  - path: Items[].Quantity
    value: 3
  - path: Status
    value: PAID
  - type: time.Time
    value: 2024-01-02T03:04:05Z
subtype:
  - type: Payment
    to: Transfer
`

func registry() ruleset.Registry {
	return ruleset.Registry(store.Types())
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "single", path: "ID", want: "ID"},
		{name: "nested", path: "Customer.Address.City", want: "Customer.Address.City"},
		{name: "slice", path: "Items[].Product.SKU", want: "Items[].Product.SKU"},
		{name: "ends on elements", path: "Items[]", want: "Items[]"},
		{name: "empty", path: "", wantErr: true},
		{name: "empty segment", path: "Customer..City", wantErr: true},
		{name: "bare brackets", path: "Items.[]", wantErr: true},
		{name: "bad identifier", path: "Customer.9lives", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ruleset.ParsePath(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ruleset.ErrInvalidPath)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestPathResolve(t *testing.T) {
	root := reflect.TypeFor[store.Order]()

	tests := []struct {
		path    string
		sel     string
		typ     reflect.Type
		wantErr string
	}{
		{
			path: "ID",
			sel:  "Field(store.Order.ID).AtDepth(1)",
			typ:  reflect.TypeFor[int64](),
		},
		{
			path: "BillingAddress.Country",
			sel:  "Field(store.Address.Country).Within(InField(store.Order.BillingAddress)).AtDepth(2)",
			typ:  reflect.TypeFor[string](),
		},
		{
			path: "Items[]",
			sel:  "Type(store.OrderItem).Within(InField(store.Order.Items)).AtDepth(2)",
			typ:  reflect.TypeFor[store.OrderItem](),
		},
		{path: "Customer.Nope", wantErr: "has no field"},
		{path: "Customer.tier", wantErr: "not exported"},
		{path: "ID.Value", wantErr: "cannot access field"},
		{path: "Customer[]", wantErr: "not a slice"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ruleset.ParsePath(tt.path)
			require.NoError(t, err)

			sel, typ, err := p.Resolve(root)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ruleset.ErrInvalidPath)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.sel, sel.String())
			assert.Equal(t, tt.typ, typ)
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := registry()

	tests := []struct {
		name string
		want reflect.Type
	}{
		{name: "Order", want: reflect.TypeFor[store.Order]()},
		{name: "store.Order", want: reflect.TypeFor[store.Order]()},
		{name: "fixturegen/store.Order", want: reflect.TypeFor[store.Order]()},
		{name: "int64", want: reflect.TypeFor[int64]()},
		{name: "time.Duration", want: reflect.TypeFor[time.Duration]()},
		{name: "*Category", want: reflect.TypeFor[*store.Category]()},
		{name: "[]*Address", want: reflect.TypeFor[[]*store.Address]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, name := range []string{"", "Invoice", "other.Order", "store.", "*"} {
		_, err := reg.Lookup(name)
		assert.ErrorIs(t, err, ruleset.ErrUnknownType, name)
	}
}

func TestBuild(t *testing.T) {
	f, err := ruleset.Parse([]byte(orderRules), "rules.yaml")
	require.NoError(t, err)

	set, err := f.Build(registry())
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[store.Order](), set.Root())
	assert.False(t, set.IsLenient())
	assert.Equal(t, 8, set.Len())

	rules := set.Rules()
	assert.Equal(t, "rules.yaml:4", rules[0].Selector.Site().String())
	assert.Equal(t, "rules.yaml:5", rules[1].Selector.Site().String())
	assert.Equal(t, "rules.yaml:8", rules[3].Selector.Site().String())

	ctx, err := model.New(set, model.WithMaxDepth(4))
	require.NoError(t, err)

	tree := ctx.Tree()

	assert.True(t, ctx.IsIgnored(tree.Find("store.Order.Tags")))
	assert.True(t, ctx.IsIgnored(tree.Find("store.Order.Items[].Product.Category")))
	assert.True(t, ctx.IsNullable(tree.Find("store.Order.BillingAddress")))
	assert.Equal(t, reflect.TypeFor[store.Transfer](), tree.Find("store.Order.Payment").Type())

	generated := func(path string) any {
		n := tree.Find(path)
		require.NotNil(t, n, path)

		g, ok := ctx.Generator(n)
		require.True(t, ok, path)

		v, err := g.Generate(n)
		require.NoError(t, err)

		return v
	}

	assert.Equal(t, "NL", generated("store.Order.ShippingAddress.Country"))
	assert.Equal(t, 3, generated("store.Order.Items[].Quantity"))
	assert.Equal(t, store.StatusPaid, generated("store.Order.Status"))
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), generated("store.Order.OrderedAt"))
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), generated("store.Order.Payment.BookedAt"))

	_, ok := ctx.Generator(tree.Find("store.Order.BillingAddress.Country"))
	assert.False(t, ok, "path selectors are pinned to their own branch")

	assert.Empty(t, ctx.Unused())
}

func TestBuildCollectsEveryError(t *testing.T) {
	const broken = `root: Order
ignore:
  - Customer.Nope
  - path: ID
    type: int64
nullable:
  - type: Invoice
set:
  - path: Items[].Quantity
    value: many
  - path: Payment
    value: card
subtype:
  - path: Customer
    to: Address
`

	f, err := ruleset.Parse([]byte(broken), "broken.yaml")
	require.NoError(t, err)

	_, err = f.Build(registry())
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 6)

	assert.ErrorIs(t, errs[0], ruleset.ErrInvalidPath)
	assert.Contains(t, errs[0].Error(), "broken.yaml:3:")
	assert.ErrorIs(t, errs[1], ruleset.ErrInvalidRule)
	assert.ErrorIs(t, errs[2], ruleset.ErrUnknownType)
	assert.Contains(t, errs[3].Error(), "broken.yaml:9:")
	assert.ErrorIs(t, errs[4], ruleset.ErrInvalidRule)
	assert.ErrorIs(t, errs[5], ruleset.ErrInvalidRule)

	assert.True(t, errors.Is(err, ruleset.ErrUnknownType))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "unknown root", data: "root: Invoice\n", want: "root: unknown type"},
		{name: "version", data: "version: \"2\"\nroot: Order\n", want: "unsupported version"},
		{name: "missing value", data: "root: Order\nset:\n  - path: ID\n", want: "missing value"},
		{name: "empty target", data: "root: Order\nignore:\n  - {}\n", want: "neither path nor type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ruleset.Parse([]byte(tt.data), "x.yaml")
			require.NoError(t, err)

			_, err = f.Build(registry())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ruleset.Parse([]byte("ignore: [[a]]"), "x.yaml")
	assert.ErrorContains(t, err, "failed to parse rule file x.yaml")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: Address\nlenient: true\nignore: [Street, City]\n"), 0o600))

	set, err := ruleset.LoadFile(path, registry())
	require.NoError(t, err)
	assert.True(t, set.IsLenient())
	assert.Equal(t, 2, set.Len())

	_, err = ruleset.LoadFile(filepath.Join(dir, "missing.yaml"), registry())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshal(t *testing.T) {
	f := &ruleset.File{
		Version: "1",
		Root:    "Order",
		Ignore:  []ruleset.Target{{Path: "Tags"}, {Type: "*Category"}},
	}

	data, err := ruleset.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, "version: \"1\"\nroot: Order\nignore:\n    - Tags\n    - type: '*Category'\n", string(data))
}
