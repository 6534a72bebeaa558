package data

import "iter"

// Ancestors yields the parent of r, its parent and so on up to the
// top-level ancestor.
func (r NodeRef) Ancestors() iter.Seq[NodeRef] {
	return func(yield func(NodeRef) bool) {
		if !r.valid() {
			return
		}
		t := r.tree
		for x := t.nodes[r.id].parent; x != none; x = t.nodes[x].parent {
			if !yield(t.ref(x)) || !r.valid() {
				return
			}
		}
	}
}

// Siblings yields r and its following siblings in document order.
func (r NodeRef) Siblings() iter.Seq[NodeRef] {
	return func(yield func(NodeRef) bool) {
		if !r.valid() {
			return
		}
		r.tree.siblings(r.id, r.gen, yield)
	}
}

// Children yields the children of r in document order.
func (r NodeRef) Children() iter.Seq[NodeRef] {
	return func(yield func(NodeRef) bool) {
		if !r.valid() {
			return
		}
		r.tree.siblings(r.tree.nodes[r.id].child, r.gen, yield)
	}
}

// Traverse yields r and its descendants in pre-order.
func (r NodeRef) Traverse() iter.Seq[NodeRef] {
	return func(yield func(NodeRef) bool) {
		if !r.valid() {
			return
		}
		r.tree.traverse(r.id, r.gen, yield)
	}
}

// TopLevel yields the top-level nodes of t.
func (t *Tree) TopLevel() iter.Seq[NodeRef] {
	return func(yield func(NodeRef) bool) {
		t.siblings(t.top, t.gen, yield)
	}
}

// Traverse yields every top-level node of t followed by its descendants,
// in pre-order.
func (t *Tree) Traverse() iter.Seq[NodeRef] {
	return func(yield func(NodeRef) bool) {
		gen := t.gen
		for c := t.top; c != none && gen == t.gen; c = t.nodes[c].next {
			if !t.traverse(c, gen, yield) {
				return
			}
		}
	}
}

func (t *Tree) siblings(id int32, gen uint64, yield func(NodeRef) bool) {
	for x := id; x != none && gen == t.gen; x = t.nodes[x].next {
		if !yield(t.ref(x)) || gen != t.gen {
			return
		}
	}
}

func (t *Tree) traverse(id int32, gen uint64, yield func(NodeRef) bool) bool {
	if gen != t.gen || !yield(t.ref(id)) || gen != t.gen {
		return false
	}
	for c := t.nodes[id].child; c != none; c = t.nodes[c].next {
		if !t.traverse(c, gen, yield) {
			return false
		}
	}
	return true
}

// walk calls f on id and its descendants in pre-order; f returning false
// skips the subtree.
func (t *Tree) walk(id int32, f func(int32) bool) {
	if !f(id) {
		return
	}
	for c := t.nodes[id].child; c != none; {
		next := t.nodes[c].next
		t.walk(c, f)
		c = next
	}
}

// walkAll is walk over every top-level node.
func (t *Tree) walkAll(f func(int32) bool) {
	for c := t.top; c != none; {
		next := t.nodes[c].next
		t.walk(c, f)
		c = next
	}
}
