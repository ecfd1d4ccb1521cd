package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is a YAML rule file.
//
//	version: "1"
//	root: Order
//	ignore: [Tags]
//	nullable:
//	  - BillingAddress
//	  - type: Category
//	set:
//	  - path: ShippingAddress.Country
//	    value: NL
//	subtype:
//	  - type: Payment
//	    to: Transfer
type File struct {
	Version  string        `yaml:"version"`
	Root     string        `yaml:"root"`
	Lenient  bool          `yaml:"lenient,omitempty"`
	Ignore   []Target      `yaml:"ignore,omitempty"`
	Nullable []Target      `yaml:"nullable,omitempty"`
	Set      []ValueRule   `yaml:"set,omitempty"`
	Subtype  []SubtypeRule `yaml:"subtype,omitempty"`

	// Name is the file the rules were read from, used in declaration sites.
	Name string `yaml:"-"`
}

// Target selects nodes either by a dotted path from the root or by type.
// A plain string is a path.
type Target struct {
	Path string `yaml:"path,omitempty"`
	Type string `yaml:"type,omitempty"`

	Line int `yaml:"-"`
}

// UnmarshalYAML accepts a path string or a {path|type} mapping.
func (t *Target) UnmarshalYAML(node *yaml.Node) error {
	t.Line = node.Line

	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&t.Path)
	case yaml.MappingNode:
		type plain Target

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*t = Target(p)
		t.Line = node.Line

		return nil
	default:
		return fmt.Errorf("line %d: expected a path or a mapping, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML writes path-only targets back as plain strings.
func (t Target) MarshalYAML() (any, error) {
	if t.Type == "" {
		return t.Path, nil
	}

	type plain Target

	return plain(t), nil
}

func (t Target) String() string {
	if t.Path != "" {
		return t.Path
	}

	return "type " + t.Type
}

// ValueRule populates the targeted nodes with a fixed value. The value is
// decoded into the type of the targeted nodes.
type ValueRule struct {
	Path  string    `yaml:"path,omitempty"`
	Type  string    `yaml:"type,omitempty"`
	Value yaml.Node `yaml:"value"`

	Line int `yaml:"-"`
}

// UnmarshalYAML records the line of the rule.
func (r *ValueRule) UnmarshalYAML(node *yaml.Node) error {
	type plain ValueRule

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*r = ValueRule(p)
	r.Line = node.Line

	return nil
}

// Target returns what the rule selects.
func (r ValueRule) Target() Target {
	return Target{Path: r.Path, Type: r.Type, Line: r.Line}
}

// SubtypeRule makes the targeted nodes use the registered type To.
type SubtypeRule struct {
	Path string `yaml:"path,omitempty"`
	Type string `yaml:"type,omitempty"`
	To   string `yaml:"to"`

	Line int `yaml:"-"`
}

// UnmarshalYAML records the line of the rule.
func (r *SubtypeRule) UnmarshalYAML(node *yaml.Node) error {
	type plain SubtypeRule

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*r = SubtypeRule(p)
	r.Line = node.Line

	return nil
}

// Target returns what the rule selects.
func (r SubtypeRule) Target() Target {
	return Target{Path: r.Path, Type: r.Type, Line: r.Line}
}
