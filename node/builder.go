package node

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Builder assembles a Tree node by node. Nodes are addressed by the ids the
// Add methods return. The first error is kept and reported by Build; later
// calls become no-ops returning -1.
type Builder struct {
	tree *Tree
	err  error
}

// NewBuilder starts a tree whose root has the given type.
func NewBuilder(root reflect.Type) *Builder {
	t := &Tree{}
	t.nodes = append(t.nodes, Node{
		tree:     t,
		id:       0,
		parent:   -1,
		role:     RoleRoot,
		typ:      root,
		declared: root,
	})

	return &Builder{tree: t}
}

// Root returns the id of the root node.
func (b *Builder) Root() int { return 0 }

// Err returns the first error recorded so far.
func (b *Builder) Err() error { return b.err }

// AddField adds the named struct field of parent's type.
func (b *Builder) AddField(parent int, field string) int {
	return b.AddMember(parent, field, "")
}

// AddSetter adds a setter-only member reached through the named method.
func (b *Builder) AddSetter(parent int, method string) int {
	return b.AddMember(parent, "", method)
}

// AddMember adds a member reached through a field, a setter or both.
func (b *Builder) AddMember(parent int, field, method string) int {
	p, ok := b.parent(parent)
	if !ok {
		return -1
	}

	owner := Base(p.typ)
	if owner == nil || owner.Kind() != reflect.Struct {
		return b.fail("%s is not a struct, cannot add member %q", TypeName(p.typ), field+method)
	}

	var (
		f   *Field
		s   *Setter
		typ reflect.Type
	)

	if field != "" {
		sf, found := owner.FieldByName(field)
		if !found {
			return b.fail("%s has no field %q", TypeName(owner), field)
		}

		f = fieldOf(owner, sf)
		typ = sf.Type
	}

	if method != "" {
		s, ok = setterOf(owner, method)
		if !ok {
			return b.fail("*%s has no setter %q", TypeName(owner), method)
		}

		if typ == nil {
			typ = s.Param
		}
	}

	if f == nil && s == nil {
		return b.fail("member of %s needs a field or a setter", TypeName(owner))
	}

	return b.add(parent, RoleMember, typ, f, s)
}

// AddElem adds the element node of a slice or array parent.
func (b *Builder) AddElem(parent int) int {
	p, ok := b.parent(parent)
	if !ok {
		return -1
	}

	if Classify(p.typ) != KindSlice {
		return b.fail("%s is not a slice or array", TypeName(p.typ))
	}

	return b.add(parent, RoleElem, Base(p.typ).Elem(), nil, nil)
}

// AddKey adds the key node of a map parent.
func (b *Builder) AddKey(parent int) int {
	p, ok := b.parent(parent)
	if !ok {
		return -1
	}

	if Classify(p.typ) != KindMap {
		return b.fail("%s is not a map", TypeName(p.typ))
	}

	return b.add(parent, RoleKey, Base(p.typ).Key(), nil, nil)
}

// AddValue adds the value node of a map parent.
func (b *Builder) AddValue(parent int) int {
	p, ok := b.parent(parent)
	if !ok {
		return -1
	}

	if Classify(p.typ) != KindMap {
		return b.fail("%s is not a map", TypeName(p.typ))
	}

	return b.add(parent, RoleValue, Base(p.typ).Elem(), nil, nil)
}

// Resolve sets the run-time type of a node whose declared type is an
// interface (or any other type the resolved one is assignable to).
func (b *Builder) Resolve(id int, t reflect.Type) {
	n, ok := b.parent(id)
	if !ok {
		return
	}

	if t == nil || !t.AssignableTo(n.declared) {
		b.fail("%s is not assignable to %s at %s", TypeName(t), TypeName(n.declared), n.Path())
		return
	}

	n.typ = t
}

// Build finishes the tree. The builder must not be used afterwards.
func (b *Builder) Build() (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}

	t := b.tree
	b.tree = nil

	return t, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Tree {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}

	return t
}

func (b *Builder) parent(id int) (*Node, bool) {
	if b.err != nil {
		return nil, false
	}

	if b.tree == nil {
		b.err = fmt.Errorf("node: builder already built")
		return nil, false
	}

	if id < 0 || id >= len(b.tree.nodes) {
		b.fail("unknown node id %d", id)
		return nil, false
	}

	return &b.tree.nodes[id], true
}

func (b *Builder) add(parent int, role Role, typ reflect.Type, f *Field, s *Setter) int {
	id := len(b.tree.nodes)
	depth := b.tree.nodes[parent].depth + 1

	b.tree.nodes = append(b.tree.nodes, Node{
		tree:     b.tree,
		id:       id,
		parent:   parent,
		role:     role,
		typ:      typ,
		declared: typ,
		depth:    depth,
		field:    f,
		setter:   s,
	})
	b.tree.nodes[parent].children = append(b.tree.nodes[parent].children, id)

	return id
}

func (b *Builder) fail(format string, args ...any) int {
	if b.err == nil {
		b.err = fmt.Errorf("node: "+format, args...)
	}

	return -1
}

// fieldOf describes sf as a member of owner. For promoted fields the owner
// becomes the embedded struct that actually declares the field.
func fieldOf(owner reflect.Type, sf reflect.StructField) *Field {
	declaring := owner
	for _, i := range sf.Index[:len(sf.Index)-1] {
		declaring = Base(declaring.Field(i).Type)
	}

	return &Field{
		Owner:    declaring,
		Name:     sf.Name,
		Type:     sf.Type,
		Tag:      sf.Tag,
		Index:    sf.Index,
		Exported: sf.IsExported(),
		Embedded: sf.Anonymous,
	}
}

// setterOf looks up a method on *owner taking exactly one argument and
// returning nothing.
func setterOf(owner reflect.Type, name string) (*Setter, bool) {
	m, ok := reflect.PointerTo(owner).MethodByName(name)
	if !ok {
		return nil, false
	}

	// receiver is In(0)
	if m.Type.NumIn() != 2 || m.Type.NumOut() != 0 {
		return nil, false
	}

	return &Setter{Owner: owner, Name: name, Param: m.Type.In(1)}, true
}

// setterName returns the conventional setter for a field: "SetName" for
// both "Name" and "name".
func setterName(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	return "Set" + string(unicode.ToUpper(r)) + field[size:]
}

// propertyOf returns the property a setter name refers to, "" when the
// method does not follow the SetX convention.
func propertyOf(method string) string {
	prop, ok := strings.CutPrefix(method, "Set")
	if !ok || prop == "" {
		return ""
	}

	r, _ := utf8.DecodeRuneInString(prop)
	if !unicode.IsUpper(r) {
		return ""
	}

	return prop
}
