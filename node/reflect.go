package node

import (
	"reflect"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxDepth bounds recursive types such as linked lists.
const DefaultMaxDepth = 8

// SubtypeResolver picks a concrete type for a node while the tree is built.
// The node passed in is only valid for the duration of the call.
type SubtypeResolver interface {
	ResolveSubtype(n *Node) (reflect.Type, bool)
}

// SubtypeFunc adapts a plain function to SubtypeResolver.
type SubtypeFunc func(n *Node) (reflect.Type, bool)

func (f SubtypeFunc) ResolveSubtype(n *Node) (reflect.Type, bool) { return f(n) }

type options struct {
	maxDepth   int
	setters    bool
	unexported bool
	subtypes   SubtypeResolver
}

// Option configures FromType.
type Option func(*options)

// WithMaxDepth limits how deep the tree grows. Nodes at the limit get no children.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithSetters makes single-argument SetX methods part of the tree. A setter
// named after a field is attached to that field's node; others become
// setter-only members.
func WithSetters() Option {
	return func(o *options) { o.setters = true }
}

// WithUnexported includes unexported struct fields.
func WithUnexported() Option {
	return func(o *options) { o.unexported = true }
}

// WithSubtypes resolves interface (or otherwise abstract) positions to
// concrete types before their children are expanded.
func WithSubtypes(r SubtypeResolver) Option {
	return func(o *options) { o.subtypes = r }
}

// FromType builds the node tree of a Go type by reflection.
func FromType(root reflect.Type, opts ...Option) (*Tree, error) {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	w := &walker{b: NewBuilder(root), opts: o}
	w.visit(0)

	return w.b.Build()
}

type walker struct {
	b    *Builder
	opts options
}

func (w *walker) visit(id int) {
	if w.b.err != nil {
		return
	}

	if w.opts.subtypes != nil {
		if t, ok := w.opts.subtypes.ResolveSubtype(&w.b.tree.nodes[id]); ok {
			w.b.Resolve(id, t)
		}
	}

	n := w.b.tree.nodes[id]
	if n.depth >= w.opts.maxDepth {
		return
	}

	switch Classify(n.typ) {
	case KindStruct:
		w.members(id, Base(n.typ))
	case KindSlice:
		w.visit(w.b.AddElem(id))
	case KindMap:
		w.visit(w.b.AddKey(id))
		w.visit(w.b.AddValue(id))
	case KindPrimitive, KindInterface, KindUnknown:
	}
}

func (w *walker) members(id int, st reflect.Type) {
	fields := make(map[string]bool, st.NumField())

	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		fields[sf.Name] = true

		var s *Setter
		if w.opts.setters {
			s, _ = setterOf(st, setterName(sf.Name))
		}

		if !sf.IsExported() && !w.opts.unexported && s == nil {
			continue
		}

		w.visit(w.b.add(id, RoleMember, sf.Type, fieldOf(st, sf), s))
	}

	if !w.opts.setters {
		return
	}

	// methods come sorted by name
	pt := reflect.PointerTo(st)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)

		prop := propertyOf(m.Name)
		if prop == "" || fields[prop] || fields[lowerFirst(prop)] {
			continue
		}

		s, ok := setterOf(st, m.Name)
		if !ok {
			continue
		}

		w.visit(w.b.add(id, RoleMember, s.Param, nil, s))
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
