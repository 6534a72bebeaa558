package data

import (
	"github.com/signadot/ydata/debug"
	"github.com/signadot/ydata/schema"
)

// Merge merges the top-level nodes of src into t. Nodes match by schema
// node, list entries by keys and leaf-list entries by value. A matched leaf
// takes the value of src unless that value is an implicit default and the
// value in t is explicit. Unmatched subtrees are copied.
//
// The result is not validated.
func (t *Tree) Merge(src *Tree) error {
	if t.freed || src.freed {
		return errorf(ErrStaleReference, "", "tree was freed")
	}
	if src.ctx != t.ctx {
		return errorf(ErrMerge, "", "source tree has a different schema context")
	}
	for c := src.top; c != none; c = src.nodes[c].next {
		t.mergeNode(src, c, none)
	}
	t.mutated()
	return nil
}

func (t *Tree) mergeNode(src *Tree, s, parent int32) {
	sn := &src.nodes[s]
	m := t.matchOf(parent, src, s)
	if m == none {
		id := t.copySorted(src, s, parent, true)
		if !src.isDefault(s) {
			t.clearDefault(id)
		}
		if debug.Merge() {
			debug.Logf("merge: copied %s\n", t.path(id))
		}
		return
	}
	explicit := !src.isDefault(s)
	switch sn.schema.Kind {
	case schema.LeafKind, schema.AnydataKind:
		if !explicit && !t.isDefault(m) {
			return
		}
		if debug.Merge() && t.nodes[m].value != sn.value {
			debug.Logf("merge: %s %q -> %q\n", t.path(m), t.nodes[m].value, sn.value)
		}
		t.nodes[m].value = sn.value
		t.nodes[m].flags = t.nodes[m].flags&^flagAnyJSON | sn.flags&flagAnyJSON
		if explicit {
			t.clearDefault(m)
		}
	case schema.LeafListKind:
		if explicit {
			t.clearDefault(m)
		}
	default:
		if explicit {
			t.clearDefault(m)
		}
		for c := sn.child; c != none; c = src.nodes[c].next {
			t.mergeNode(src, c, m)
		}
	}
}

// matchOf returns the instance under parent in t corresponding to node s of
// src.
func (t *Tree) matchOf(parent int32, src *Tree, s int32) int32 {
	sn := src.nodes[s].schema
	if !sn.IsMulti() {
		return t.childOf(parent, sn)
	}
	k, _ := src.instanceKeyOf(s)
	for _, id := range t.instances(parent, sn) {
		if x, _ := t.instanceKeyOf(id); x == k {
			return id
		}
	}
	return none
}

// copySorted copies the subtree src of from under parent at its schema
// position.
func (t *Tree) copySorted(from *Tree, src, parent int32, withMeta bool) int32 {
	id := t.copyFrom(from, src, parent, withMeta)
	t.unlink(id)
	t.insertSorted(parent, id)
	return id
}
