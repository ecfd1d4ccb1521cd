// Package node models the generated object graph as an immutable tree of
// positions. Nodes live in an arena owned by a Tree and refer to their parent
// and children by index, so ancestor walks are O(depth) without pointer cycles.
package node

import (
	"reflect"
	"strings"
)

// Role describes how a node is reached from its parent.
type Role int

const (
	RoleRoot   Role = iota // the tree root
	RoleMember             // struct field and/or setter
	RoleElem               // slice or array element
	RoleKey                // map key
	RoleValue              // map value
)

// Field identifies a struct field by its declaring struct and name.
type Field struct {
	Owner    reflect.Type      // struct type that declares the field
	Name     string            // Go field name
	Type     reflect.Type      // declared field type
	Tag      reflect.StructTag // raw struct tag
	Index    []int             // index sequence for reflect.Value.FieldByIndex from the parent
	Exported bool
	Embedded bool
}

// Equal reports whether both fields denote the same struct member.
func (f *Field) Equal(other *Field) bool {
	if f == nil || other == nil {
		return f == other
	}

	return f.Owner == other.Owner && f.Name == other.Name
}

// JSONName returns the JSON tag name if present, otherwise the field name.
func (f *Field) JSONName() string {
	if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}

	return f.Name
}

// HasTag returns true if the field has the specified tag.
func (f *Field) HasTag(key string) bool {
	_, ok := f.Tag.Lookup(key)
	return ok
}

func (f *Field) String() string {
	return TypeName(f.Owner) + "." + f.Name
}

// Setter identifies a single-argument setter method declared on *Owner.
type Setter struct {
	Owner reflect.Type // struct type whose pointer declares the method
	Name  string       // method name, e.g. "SetName"
	Param reflect.Type // type of the single parameter
}

// Equal reports whether both setters denote the same method signature.
func (s *Setter) Equal(other *Setter) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.Owner == other.Owner && s.Name == other.Name && s.Param == other.Param
}

func (s *Setter) String() string {
	return TypeName(s.Owner) + "." + s.Name + "(" + TypeName(s.Param) + ")"
}

// Node is one position in the object graph.
type Node struct {
	tree     *Tree
	id       int
	parent   int
	children []int

	role     Role
	typ      reflect.Type
	declared reflect.Type
	depth    int
	field    *Field
	setter   *Setter
}

// ID returns the node's index in its tree.
func (n *Node) ID() int { return n.id }

// Type returns the resolved run-time type of the node.
func (n *Node) Type() reflect.Type { return n.typ }

// DeclaredType returns the static type the owner declares for this position.
// It differs from Type when a subtype was resolved for an interface.
func (n *Node) DeclaredType() reflect.Type { return n.declared }

func (n *Node) Depth() int { return n.depth }

func (n *Node) Role() Role { return n.role }

// Field returns the struct field this node is reached through, or nil.
func (n *Node) Field() *Field { return n.field }

// Setter returns the setter method this node is reached through, or nil.
func (n *Node) Setter() *Setter { return n.setter }

// Kind classifies the node's resolved type.
func (n *Node) Kind() Kind { return Classify(n.typ) }

func (n *Node) IsRoot() bool { return n.parent < 0 }

// Parent returns the parent node, nil for the root.
func (n *Node) Parent() *Node {
	if n.parent < 0 {
		return nil
	}

	return &n.tree.nodes[n.parent]
}

func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	for i, c := range n.children {
		out[i] = &n.tree.nodes[c]
	}

	return out
}

// Path renders the node's position from the root, e.g. "Order.Items[].Price".
func (n *Node) Path() string {
	var parts []string

	for cur := n; cur != nil; cur = cur.Parent() {
		switch cur.role {
		case RoleRoot:
			parts = append(parts, TypeName(cur.typ))
		case RoleMember:
			if cur.field != nil {
				parts = append(parts, "."+cur.field.Name)
			} else {
				parts = append(parts, "."+cur.setter.Name+"()")
			}
		case RoleElem:
			parts = append(parts, "[]")
		case RoleKey:
			parts = append(parts, "{key}")
		case RoleValue:
			parts = append(parts, "{value}")
		}
	}

	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString(parts[i])
	}

	return sb.String()
}

func (n *Node) String() string {
	return n.Path() + " <" + TypeName(n.typ) + ">"
}

// Tree is a finished, immutable node graph.
type Tree struct {
	nodes []Node
}

// Root returns the root node.
func (t *Tree) Root() *Node { return &t.nodes[0] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id.
func (t *Tree) Node(id int) *Node { return &t.nodes[id] }

// Walk visits nodes breadth-first from the root until fn returns false.
func (t *Tree) Walk(fn func(*Node) bool) {
	if len(t.nodes) == 0 {
		return
	}

	queue := []int{0}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		n := &t.nodes[id]
		if !fn(n) {
			return
		}

		queue = append(queue, n.children...)
	}
}

// Nodes returns all nodes in breadth-first order.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, 0, len(t.nodes))
	t.Walk(func(n *Node) bool {
		out = append(out, n)
		return true
	})

	return out
}

// Find returns the first node, breadth-first, whose path equals path.
func (t *Tree) Find(path string) *Node {
	var found *Node

	t.Walk(func(n *Node) bool {
		if n.Path() == path {
			found = n
			return false
		}

		return true
	})

	return found
}
