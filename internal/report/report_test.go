package report_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fixturegen/internal/diagnostic"
	"fixturegen/internal/report"
	"fixturegen/internal/resolve"
	"fixturegen/node"
	"fixturegen/rule"
	"fixturegen/selector"
)

type Line struct {
	SKU   string
	Count int
}

type Invoice struct {
	Number string
	Lines  []Line
	Total  int
}

func setup(t *testing.T, set *rule.Set) (*node.Tree, *resolve.Maps) {
	t.Helper()

	maps, err := resolve.New(set)
	require.NoError(t, err)

	tree, err := node.FromType(reflect.TypeFor[Invoice]())
	require.NoError(t, err)

	return tree, maps
}

func TestCollect(t *testing.T) {
	ints := selector.TypeOf[int]()
	sku := selector.FieldOf[Line]("SKU")
	missing := selector.FieldOf[Line]("Price")

	tree, maps := setup(t, rule.Of[Invoice]().
		Set(ints, 1).
		Ignore(sku, missing))

	m := report.Collect(tree, maps)

	assert.Equal(t, []string{"report_test.Invoice.Total", "report_test.Invoice.Lines[].Count"}, pathsOf(m.Nodes(rule.Generate, ints)))
	assert.Equal(t, []string{"report_test.Invoice.Lines[].SKU"}, pathsOf(m.Nodes(rule.Ignore, sku)))
	assert.Empty(t, m.Nodes(rule.Ignore, missing))
	assert.Nil(t, m.Nodes(rule.Feed, ints))

	assert.Len(t, m.Category(rule.Ignore), 2)
	assert.Len(t, m.Entries, 3)

	// collecting never counts as use
	assert.Len(t, report.Unused(maps), 3)
}

func TestMarshalYAML(t *testing.T) {
	tree, maps := setup(t, rule.Of[Invoice]().Ignore(selector.RootField("Number")))

	out, err := report.Collect(tree, maps).YAML()
	require.NoError(t, err)

	var doc struct {
		Run        string `yaml:"run"`
		Root       string `yaml:"root"`
		Categories []struct {
			Category  string `yaml:"category"`
			Selectors []struct {
				Selector string   `yaml:"selector"`
				Site     string   `yaml:"site"`
				Nodes    []string `yaml:"nodes"`
			} `yaml:"selectors"`
		} `yaml:"categories"`
	}

	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Len(t, doc.Run, 36)
	assert.Equal(t, "report_test.Invoice", doc.Root)
	require.Len(t, doc.Categories, 1)
	assert.Equal(t, "ignore", doc.Categories[0].Category)
	require.Len(t, doc.Categories[0].Selectors, 1)
	assert.Equal(t, []string{"report_test.Invoice.Number"}, doc.Categories[0].Selectors[0].Nodes)
	assert.Contains(t, doc.Categories[0].Selectors[0].Site, "report_test.go:")
}

func TestDump(t *testing.T) {
	tree, maps := setup(t, rule.Of[Invoice]().Ignore(selector.RootField("Number")))

	dump := report.Collect(tree, maps).Dump()
	assert.Contains(t, dump, "Field(report_test.Invoice.Number)")
	assert.Contains(t, dump, "report_test.Invoice.Number")
}

func TestCheck(t *testing.T) {
	tree, maps := setup(t, rule.Of[Invoice]().
		Ignore(selector.RootField("Number")).
		Set(selector.FieldOf[Line]("Sku"), "x"))

	for _, n := range tree.Nodes() {
		maps.IsIgnored(n)
	}

	unused := report.Unused(maps)
	require.Len(t, unused, 1)
	assert.Equal(t, "generate, set or supply", unused[0].Category)
	assert.Equal(t, []string{"SKU"}, unused[0].Suggestions)

	require.NoError(t, report.Check(maps, report.Lenient))

	err := report.Check(maps, report.Strict)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.ErrUnusedSelectors))
	assert.Contains(t, err.Error(), "Field(report_test.Line.Sku)")
	assert.Contains(t, err.Error(), "did you mean: SKU?")
}

func TestCheckLenientSet(t *testing.T) {
	_, maps := setup(t, rule.Of[Invoice]().Ignore(selector.RootField("Number")).Lenient())

	assert.NoError(t, report.Check(maps, report.Strict))
	assert.Len(t, report.Unused(maps), 1, "lenient sets still list their unused selectors")
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    report.Mode
		wantErr bool
	}{
		{"strict", report.Strict, false},
		{" Lenient ", report.Lenient, false},
		{"loose", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := report.ParseMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, report.ErrUnknownMode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func pathsOf(nodes []*node.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Path())
	}

	return out
}
