package ruleset

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"fixturegen/internal/common"
	"fixturegen/primitive"
)

// Registry names the types a rule file may refer to.
type Registry map[string]reflect.Type

// Lookup resolves a type name like:
//   - "Order" (registered name)
//   - "store.Order" (package-qualified)
//   - "fixturegen/store.Order" (full package path)
//   - "int64", "time.Duration" (builtin kinds)
//   - "*Order", "[]Order" (pointer and slice of any of the above)
func (r Registry) Lookup(name string) (reflect.Type, error) {
	name = strings.TrimSpace(name)

	switch {
	case name == "":
		return nil, fmt.Errorf("%w: empty type name", ErrUnknownType)
	case strings.HasPrefix(name, "*"):
		t, err := r.Lookup(name[1:])
		if err != nil {
			return nil, err
		}

		return reflect.PointerTo(t), nil
	case strings.HasPrefix(name, "[]"):
		t, err := r.Lookup(name[2:])
		if err != nil {
			return nil, err
		}

		return reflect.SliceOf(t), nil
	}

	if t, ok := r[name]; ok {
		return t, nil
	}

	if k, ok := primitive.ByName(name); ok {
		return k.Type(), nil
	}

	lastDot := strings.LastIndex(name, ".")
	if lastDot <= 0 || lastDot == len(name)-1 {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, name)
	}

	pkg, short := name[:lastDot], name[lastDot+1:]

	var found []reflect.Type

	for _, key := range r.names() {
		t := r[key]
		if t.Name() != short {
			continue
		}

		if t.PkgPath() == pkg || common.PkgAlias(t.PkgPath()) == pkg {
			found = append(found, t)
		}
	}

	switch {
	case common.IsEmpty(found):
		return nil, fmt.Errorf("%w %q", ErrUnknownType, name)
	case common.IsMultiple(found):
		return nil, fmt.Errorf("%w %q: ambiguous, use the full package path", ErrUnknownType, name)
	}

	return found[0], nil
}

// names returns the registered names sorted, for deterministic lookups.
func (r Registry) names() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}

	slices.Sort(out)

	return out
}
