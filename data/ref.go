package data

import (
	"strings"

	"github.com/signadot/ydata/schema"
	"github.com/signadot/ydata/ypath"
)

// NodeRef is a handle on a node of a Tree. It is valid until the tree is
// next mutated or freed; accessors on an invalid handle return zero values
// and fallible operations fail with ErrStaleReference.
type NodeRef struct {
	tree *Tree
	id   int32
	gen  uint64
}

func (t *Tree) ref(id int32) NodeRef {
	if id == none {
		return NodeRef{}
	}
	return NodeRef{tree: t, id: id, gen: t.gen}
}

func (r NodeRef) IsZero() bool {
	return r.tree == nil
}

func (r NodeRef) valid() bool {
	return r.tree != nil && !r.tree.freed && r.gen == r.tree.gen
}

// Err returns nil for a valid reference.
func (r NodeRef) Err() error {
	switch {
	case r.tree == nil:
		return errorf(ErrStaleReference, "", "zero reference")
	case r.tree.freed:
		return errorf(ErrStaleReference, "", "tree was freed")
	case r.gen != r.tree.gen:
		return errorf(ErrStaleReference, "", "tree was modified")
	}
	return nil
}

// Tree returns the tree r points into.
func (r NodeRef) Tree() *Tree {
	return r.tree
}

func (r NodeRef) Schema() *schema.Node {
	if !r.valid() {
		return nil
	}
	return r.tree.nodes[r.id].schema
}

// OwnerModule returns the module of the top-level ancestor of r.
func (r NodeRef) OwnerModule() *schema.Module {
	if !r.valid() {
		return nil
	}
	return r.tree.nodes[r.id].schema.TopModule()
}

func (r NodeRef) Name() string {
	if sn := r.Schema(); sn != nil {
		return sn.Name
	}
	return ""
}

func (r NodeRef) Parent() NodeRef {
	if !r.valid() {
		return NodeRef{}
	}
	return r.tree.ref(r.tree.nodes[r.id].parent)
}

func (r NodeRef) FirstChild() NodeRef {
	if !r.valid() {
		return NodeRef{}
	}
	return r.tree.ref(r.tree.nodes[r.id].child)
}

func (r NodeRef) NextSibling() NodeRef {
	if !r.valid() {
		return NodeRef{}
	}
	return r.tree.ref(r.tree.nodes[r.id].next)
}

// Value returns the canonical value of a leaf, leaf-list entry or anydata
// node.
func (r NodeRef) Value() (string, bool) {
	sn := r.Schema()
	if sn == nil || !(sn.IsTerminal() || sn.Kind == schema.AnydataKind) {
		return "", false
	}
	return r.tree.nodes[r.id].value, true
}

// IsDefault reports whether r was created from a schema default.
func (r NodeRef) IsDefault() bool {
	return r.valid() && r.tree.isDefault(r.id)
}

// Equal reports whether r and o refer to the same node.
func (r NodeRef) Equal(o NodeRef) bool {
	return r.tree == o.tree && r.id == o.id && r.gen == o.gen
}

// Path returns the data path of r.
func (r NodeRef) Path() (string, error) {
	if err := r.Err(); err != nil {
		return "", err
	}
	return r.tree.path(r.id), nil
}

func (r NodeRef) String() string {
	if !r.valid() {
		return "<invalid node>"
	}
	return r.tree.path(r.id)
}

// path renders the data path of id: module prefixes on the first step and
// where the module changes, key predicates on list entries and a value
// predicate on leaf-list entries.
func (t *Tree) path(id int32) string {
	if id == none {
		return "/"
	}
	var steps []string
	for x := id; x != none; x = t.nodes[x].parent {
		steps = append(steps, t.step(x))
	}
	buf := strings.Builder{}
	for i := len(steps) - 1; i >= 0; i-- {
		buf.WriteByte('/')
		buf.WriteString(steps[i])
	}
	return buf.String()
}

func (t *Tree) step(id int32) string {
	n := &t.nodes[id]
	sn := n.schema
	name := sn.Name
	if n.parent == none || t.nodes[n.parent].schema.Module != sn.Module {
		name = sn.Module.Name + ":" + name
	}
	switch sn.Kind {
	case schema.ListKind:
		buf := strings.Builder{}
		buf.WriteString(name)
		buf.WriteString(t.keyPredicates(id))
		return buf.String()
	case schema.LeafListKind:
		return name + "[.=" + ypath.Quote(n.value) + "]"
	}
	return name
}

// keyPredicates renders the key predicates of list entry id.
func (t *Tree) keyPredicates(id int32) string {
	buf := strings.Builder{}
	for i, kn := range t.nodes[id].schema.KeyNodes {
		v := ""
		if c := t.childOf(id, kn); c != none {
			v = t.nodes[c].value
		}
		buf.WriteString("[" + t.nodes[id].schema.Keys[i] + "=" + ypath.Quote(v) + "]")
	}
	return buf.String()
}

// childOf returns the first child of parent that is an instance of sn.
func (t *Tree) childOf(parent int32, sn *schema.Node) int32 {
	for c := t.first(parent); c != none; c = t.nodes[c].next {
		if t.nodes[c].schema == sn {
			return c
		}
	}
	return none
}
