package data

import (
	"github.com/signadot/ydata/schema"
)

// none is the nil node id. As a parent it stands for the tree root whose
// children are the top-level nodes.
const none int32 = -1

type nodeFlags uint8

const (
	// flagDefault marks a node created implicitly from a schema default.
	flagDefault nodeFlags = 1 << iota
	// flagAnyJSON marks an anydata value holding a JSON object.
	flagAnyJSON
	flagFree
)

// node is an arena record; links are ids into Tree.nodes.
type node struct {
	schema *schema.Node
	value  string

	parent, child, last, next int32
	meta                      int32
	flags                     nodeFlags
}

func (t *Tree) rec(id int32) *node {
	return &t.nodes[id]
}

func (t *Tree) alloc(sn *schema.Node, value string) int32 {
	n := node{
		schema: sn,
		value:  value,
		parent: none,
		child:  none,
		last:   none,
		next:   none,
		meta:   none,
	}
	if k := len(t.free); k != 0 {
		id := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

// first returns the first child of parent, or the first top-level node.
func (t *Tree) first(parent int32) int32 {
	if parent == none {
		return t.top
	}
	return t.nodes[parent].child
}

func (t *Tree) lastChild(parent int32) int32 {
	if parent == none {
		return t.topLast
	}
	return t.nodes[parent].last
}

func (t *Tree) setFirst(parent, id int32) {
	if parent == none {
		t.top = id
		return
	}
	t.nodes[parent].child = id
}

func (t *Tree) setLast(parent, id int32) {
	if parent == none {
		t.topLast = id
		return
	}
	t.nodes[parent].last = id
}

// insertAfter links id under parent right after prev; a prev of none makes
// id the first child.
func (t *Tree) insertAfter(parent, prev, id int32) {
	n := t.rec(id)
	n.parent = parent
	if prev == none {
		n.next = t.first(parent)
		t.setFirst(parent, id)
	} else {
		n.next = t.nodes[prev].next
		t.nodes[prev].next = id
	}
	if n.next == none {
		t.setLast(parent, id)
	}
}

// prevSibling returns the sibling before id, none if id is first.
func (t *Tree) prevSibling(id int32) int32 {
	prev := none
	for c := t.first(t.nodes[id].parent); c != none && c != id; c = t.nodes[c].next {
		prev = c
	}
	return prev
}

func (t *Tree) unlink(id int32) {
	n := t.rec(id)
	prev := t.prevSibling(id)
	if prev == none {
		t.setFirst(n.parent, n.next)
	} else {
		t.nodes[prev].next = n.next
	}
	if n.next == none {
		t.setLast(n.parent, prev)
	}
	n.next = none
}

// freeSubtree unlinks id and releases it with its descendants.
func (t *Tree) freeSubtree(id int32) {
	t.unlink(id)
	t.release(id)
}

func (t *Tree) release(id int32) {
	for c := t.nodes[id].child; c != none; {
		next := t.nodes[c].next
		t.release(c)
		c = next
	}
	t.nodes[id] = node{flags: flagFree, parent: none, child: none, last: none, next: none, meta: none}
	t.free = append(t.free, id)
}

// rank orders schema siblings: list keys first, then schema order. Top-level
// nodes are ordered by module.
func (t *Tree) rank(sn *schema.Node) int {
	if r, ok := t.ranks[sn]; ok {
		return r
	}
	var r int
	dp := sn.DataParent()
	if dp == nil {
		for i, m := range t.ctx.Modules() {
			if m == sn.TopModule() {
				r = i << 16
				break
			}
		}
		r += indexOf(appendDataNodes(nil, sn.TopModule().Nodes), sn)
	} else {
		r = indexOf(dp.DataChildren(), sn) + len(dp.KeyNodes)
		if k := indexOf(dp.KeyNodes, sn); k != -1 {
			r = k
		}
	}
	t.ranks[sn] = r
	return r
}

func appendDataNodes(dst, nodes []*schema.Node) []*schema.Node {
	for _, n := range nodes {
		if n.IsSchemaOnly() {
			dst = appendDataNodes(dst, n.Children)
			continue
		}
		dst = append(dst, n)
	}
	return dst
}

func indexOf(nodes []*schema.Node, sn *schema.Node) int {
	for i, n := range nodes {
		if n == sn {
			return i
		}
	}
	return -1
}

// insertSorted links id under parent after the last sibling that does not
// rank after it, keeping siblings in schema order and instances of one
// schema node in insertion order.
func (t *Tree) insertSorted(parent, id int32) {
	r := t.rank(t.nodes[id].schema)
	if l := t.lastChild(parent); l == none || t.rank(t.nodes[l].schema) <= r {
		t.insertAfter(parent, l, id)
		return
	}
	prev := none
	for c := t.first(parent); c != none; c = t.nodes[c].next {
		if t.rank(t.nodes[c].schema) > r {
			break
		}
		prev = c
	}
	t.insertAfter(parent, prev, id)
}

// instances returns the children of parent that are instances of sn.
func (t *Tree) instances(parent int32, sn *schema.Node) []int32 {
	var res []int32
	for c := t.first(parent); c != none; c = t.nodes[c].next {
		if t.nodes[c].schema == sn {
			res = append(res, c)
		}
	}
	return res
}

// newChild allocates an instance of sn and inserts it by schema order.
func (t *Tree) newChild(parent int32, sn *schema.Node, value string) int32 {
	id := t.alloc(sn, value)
	t.insertSorted(parent, id)
	return id
}

// clearDefault makes id and its ancestors explicit.
func (t *Tree) clearDefault(id int32) {
	for x := id; x != none; x = t.nodes[x].parent {
		t.nodes[x].flags &^= flagDefault
	}
}

func (t *Tree) isDefault(id int32) bool {
	return t.nodes[id].flags&flagDefault != 0
}
