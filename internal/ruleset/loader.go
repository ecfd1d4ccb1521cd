// Package ruleset reads rule sets from YAML files. Paths in a file are
// dotted field paths from the root type ("Items[].Product.SKU"), types are
// names from a Registry.
package ruleset

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"fixturegen/node"
	"fixturegen/rule"
	"fixturegen/selector"
)

// ErrInvalidRule reports a rule that names a valid target but cannot apply
// to it.
var ErrInvalidRule = errors.New("invalid rule")

// LoadFile reads the rule file at path and builds its rule set.
func LoadFile(path string, reg Registry) (*rule.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	f, err := Parse(data, path)
	if err != nil {
		return nil, err
	}

	return f.Build(reg)
}

// Parse parses YAML data into a File. name is used in declaration sites
// and error messages.
func Parse(data []byte, name string) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rule file %s: %w", name, err)
	}

	if f.Version == "" {
		f.Version = "1"
	}

	f.Name = name

	return &f, nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// Build turns the file into a rule set. Every broken rule is reported, not
// just the first.
func (f *File) Build(reg Registry) (*rule.Set, error) {
	if f.Version != "1" {
		return nil, fmt.Errorf("%s: unsupported version %q", f.Name, f.Version)
	}

	root, err := reg.Lookup(f.Root)
	if err != nil {
		return nil, fmt.Errorf("%s: root: %w", f.Name, err)
	}

	set := rule.For(root)
	if f.Lenient {
		set.Lenient()
	}

	var errs error

	for _, t := range f.Ignore {
		sel, _, err := f.selector(t, root, reg)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		set.Ignore(sel)
	}

	for _, t := range f.Nullable {
		sel, _, err := f.selector(t, root, reg)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		set.Nullable(sel)
	}

	for _, r := range f.Set {
		sel, typ, err := f.selector(r.Target(), root, reg)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		v, err := decodeValue(&r.Value, typ)
		if err != nil {
			errs = multierr.Append(errs, f.errorf(r.Line, "set %s: %w", r.Target(), err))
			continue
		}

		set.Set(sel, v)
	}

	for _, r := range f.Subtype {
		sel, typ, err := f.selector(r.Target(), root, reg)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		to, err := reg.Lookup(r.To)
		if err != nil {
			errs = multierr.Append(errs, f.errorf(r.Line, "subtype %s: %w", r.Target(), err))
			continue
		}

		if !to.AssignableTo(typ) {
			errs = multierr.Append(errs, f.errorf(r.Line, "subtype %s: %w: %s is not assignable to %s",
				r.Target(), ErrInvalidRule, node.TypeName(to), node.TypeName(typ)))

			continue
		}

		set.Subtype(sel, to)
	}

	if errs != nil {
		return nil, errs
	}

	return set, nil
}

// selector resolves a target into a selector declared at the target's
// line, and the type of the nodes it selects.
func (f *File) selector(t Target, root reflect.Type, reg Registry) (*selector.Selector, reflect.Type, error) {
	var (
		sel *selector.Selector
		typ reflect.Type
	)

	switch {
	case t.Path != "" && t.Type != "":
		return nil, nil, f.errorf(t.Line, "%w: both path %q and type %q given", ErrInvalidRule, t.Path, t.Type)
	case t.Path != "":
		p, err := ParsePath(t.Path)
		if err != nil {
			return nil, nil, f.errorf(t.Line, "%w", err)
		}

		sel, typ, err = p.Resolve(root)
		if err != nil {
			return nil, nil, f.errorf(t.Line, "%w", err)
		}
	case t.Type != "":
		var err error

		typ, err = reg.Lookup(t.Type)
		if err != nil {
			return nil, nil, f.errorf(t.Line, "%w", err)
		}

		sel = selector.Type(typ)
	default:
		return nil, nil, f.errorf(t.Line, "%w: neither path nor type given", ErrInvalidRule)
	}

	return sel.At(selector.Site{File: f.Name, Line: t.Line}), typ, nil
}

func (f *File) errorf(line int, format string, args ...any) error {
	return fmt.Errorf("%s:%d: "+format, append([]any{f.Name, line}, args...)...)
}

// decodeValue decodes v into a fresh value of type t.
func decodeValue(v *yaml.Node, t reflect.Type) (any, error) {
	if v.Kind == 0 {
		return nil, errors.New("missing value")
	}

	if t.Kind() == reflect.Interface {
		return nil, fmt.Errorf("%w: cannot decode a value of interface type %s", ErrInvalidRule, node.TypeName(t))
	}

	ptr := reflect.New(t)
	if err := v.Decode(ptr.Interface()); err != nil {
		return nil, err
	}

	return ptr.Elem().Interface(), nil
}
