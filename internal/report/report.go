// Package report runs after a generation pass. Collect records which nodes
// every declared selector matches, and Unused and Check turn selectors that
// never influenced a node into diagnostics.
package report

import (
	"reflect"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"fixturegen/internal/resolve"
	"fixturegen/node"
	"fixturegen/rule"
	"fixturegen/selector"
)

// Entry is one selector with the nodes it matched.
type Entry struct {
	Category rule.Category
	Selector *selector.Selector
	Nodes    []*node.Node
}

// Matches maps each category's selectors to the nodes they match.
type Matches struct {
	RunID   uuid.UUID
	Root    reflect.Type
	Entries []Entry

	index map[rule.Category]map[*selector.Selector]int
}

// Collect walks tree breadth-first and records, for every category, each
// node matched by each selector. It does not mark selectors used.
func Collect(tree *node.Tree, maps *resolve.Maps) *Matches {
	m := &Matches{
		RunID: uuid.New(),
		Root:  maps.Root(),
		index: make(map[rule.Category]map[*selector.Selector]int),
	}

	views := make(map[rule.Category]resolve.View)

	for _, c := range rule.Categories() {
		v := maps.View(c)
		if v.Len() == 0 {
			continue
		}

		views[c] = v
		m.index[c] = make(map[*selector.Selector]int, v.Len())

		for _, s := range v.Selectors() {
			m.index[c][s] = len(m.Entries)
			m.Entries = append(m.Entries, Entry{Category: c, Selector: s})
		}
	}

	tree.Walk(func(n *node.Node) bool {
		for _, c := range rule.Categories() {
			v, ok := views[c]
			if !ok {
				continue
			}

			for _, s := range v.Matches(n) {
				i := m.index[c][s]
				m.Entries[i].Nodes = append(m.Entries[i].Nodes, n)
			}
		}

		return true
	})

	return m
}

// Nodes returns the nodes s matched in category c, breadth-first.
func (m *Matches) Nodes(c rule.Category, s *selector.Selector) []*node.Node {
	i, ok := m.index[c][s]
	if !ok {
		return nil
	}

	return m.Entries[i].Nodes
}

// Category returns the entries of category c in declaration order.
func (m *Matches) Category(c rule.Category) []Entry {
	var out []Entry

	for _, e := range m.Entries {
		if e.Category == c {
			out = append(out, e)
		}
	}

	return out
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders the report as a nested debug dump of paths.
func (m *Matches) Dump() string {
	out := make(map[string]map[string][]string)

	for _, e := range m.Entries {
		cat := e.Category.String()
		if out[cat] == nil {
			out[cat] = make(map[string][]string)
		}

		out[cat][e.Selector.String()] = paths(e.Nodes)
	}

	return dumper.Sdump(out)
}

type yamlSelector struct {
	Selector string   `yaml:"selector"`
	Site     string   `yaml:"site"`
	Lenient  bool     `yaml:"lenient,omitempty"`
	Nodes    []string `yaml:"nodes"`
}

type yamlCategory struct {
	Category  string         `yaml:"category"`
	Selectors []yamlSelector `yaml:"selectors"`
}

type yamlReport struct {
	Run        string         `yaml:"run"`
	Root       string         `yaml:"root"`
	Categories []yamlCategory `yaml:"categories"`
}

// MarshalYAML implements yaml.Marshaler.
func (m *Matches) MarshalYAML() (any, error) {
	doc := yamlReport{Run: m.RunID.String(), Root: node.TypeName(m.Root)}

	for _, e := range m.Entries {
		if n := len(doc.Categories); n == 0 || doc.Categories[n-1].Category != e.Category.String() {
			doc.Categories = append(doc.Categories, yamlCategory{Category: e.Category.String()})
		}

		cat := &doc.Categories[len(doc.Categories)-1]
		cat.Selectors = append(cat.Selectors, yamlSelector{
			Selector: e.Selector.String(),
			Site:     e.Selector.Site().String(),
			Lenient:  e.Selector.IsLenient(),
			Nodes:    paths(e.Nodes),
		})
	}

	return doc, nil
}

// YAML encodes the report.
func (m *Matches) YAML() ([]byte, error) {
	return yaml.Marshal(m)
}

func paths(nodes []*node.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path()
	}

	return out
}
