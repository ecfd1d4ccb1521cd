package ruleset

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"fixturegen/node"
	"fixturegen/selector"
)

// Sentinel errors matched with errors.Is.
var (
	ErrInvalidPath = errors.New("invalid path")
	ErrUnknownType = errors.New("unknown type")
)

// Segment is one step of a path: a field, optionally followed by [] to step
// into the elements of a slice or array.
type Segment struct {
	Name    string
	IsSlice bool
}

// Path is a parsed dotted path such as "Items[].Product.SKU".
type Path struct {
	Segments []Segment
}

func (p Path) String() string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = s.Name
		if s.IsSlice {
			parts[i] += "[]"
		}
	}

	return strings.Join(parts, ".")
}

// ParsePath parses a dotted field path.
func ParsePath(path string) (Path, error) {
	if path == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var segments []Segment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return Path{}, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, path)
		}

		name, isSlice := strings.CutSuffix(part, "[]")
		if name == "" {
			return Path{}, fmt.Errorf("%w %q: [] without field name", ErrInvalidPath, path)
		}

		if !isValidIdent(name) {
			return Path{}, fmt.Errorf("%w %q: invalid identifier %q", ErrInvalidPath, path, name)
		}

		segments = append(segments, Segment{Name: name, IsSlice: isSlice})
	}

	return Path{Segments: segments}, nil
}

// Resolve translates the path into a selector for root. Every segment but
// the last becomes a field scope and the selector is pinned to the depth
// the path reaches, so it matches exactly the nodes the path names. It
// also returns the type of those nodes.
func (p Path) Resolve(root reflect.Type) (*selector.Selector, reflect.Type, error) {
	var (
		scopes []selector.Scope
		cur    = root
		depth  int
	)

	for i, seg := range p.Segments {
		owner := node.Base(cur)
		if owner.Kind() != reflect.Struct {
			return nil, nil, fmt.Errorf("%w %q: cannot access field %q on %s", ErrInvalidPath, p, seg.Name, node.TypeName(cur))
		}

		sf, ok := owner.FieldByName(seg.Name)
		if !ok {
			return nil, nil, fmt.Errorf("%w %q: %s has no field %q", ErrInvalidPath, p, node.TypeName(owner), seg.Name)
		}

		if !sf.IsExported() {
			return nil, nil, fmt.Errorf("%w %q: field %q is not exported", ErrInvalidPath, p, seg.Name)
		}

		cur = sf.Type
		depth++

		last := i == len(p.Segments)-1
		if last && !seg.IsSlice {
			return selector.Field(owner, seg.Name).Within(scopes...).AtDepth(depth), cur, nil
		}

		scopes = append(scopes, selector.InField(owner, seg.Name))

		if seg.IsSlice {
			base := node.Base(cur)
			if base.Kind() != reflect.Slice && base.Kind() != reflect.Array {
				return nil, nil, fmt.Errorf("%w %q: %s is %s, not a slice", ErrInvalidPath, p, seg.Name, node.TypeName(cur))
			}

			cur = base.Elem()
			depth++
		}
	}

	// the path ends on slice elements
	return selector.Type(cur).Within(scopes...).AtDepth(depth), cur, nil
}

func isValidIdent(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return s != ""
}
