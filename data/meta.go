package data

import "iter"

// Metadata is an annotation attached to a node.
type Metadata struct {
	Module string
	Name   string
	Value  string
}

type meta struct {
	module, name, value string
	next                int32
}

func (t *Tree) addMeta(id int32, module, name, value string) {
	t.metas = append(t.metas, meta{module: module, name: name, value: value, next: none})
	mid := int32(len(t.metas) - 1)
	n := t.rec(id)
	if n.meta == none {
		n.meta = mid
		return
	}
	last := n.meta
	for t.metas[last].next != none {
		last = t.metas[last].next
	}
	t.metas[last].next = mid
}

func (t *Tree) findMeta(id int32, module, name string) int32 {
	for m := t.nodes[id].meta; m != none; m = t.metas[m].next {
		if t.metas[m].module == module && t.metas[m].name == name {
			return m
		}
	}
	return none
}

func (t *Tree) metaValue(id int32, module, name string) (string, bool) {
	if m := t.findMeta(id, module, name); m != none {
		return t.metas[m].value, true
	}
	return "", false
}

// setMeta replaces the value of the first matching annotation or adds one.
func (t *Tree) setMeta(id int32, module, name, value string) {
	if m := t.findMeta(id, module, name); m != none {
		t.metas[m].value = value
		return
	}
	t.addMeta(id, module, name, value)
}

func (t *Tree) delMeta(id int32, module, name string) {
	prev := none
	for m := t.nodes[id].meta; m != none; m = t.metas[m].next {
		if t.metas[m].module != module || t.metas[m].name != name {
			prev = m
			continue
		}
		if prev == none {
			t.nodes[id].meta = t.metas[m].next
		} else {
			t.metas[prev].next = t.metas[m].next
		}
		return
	}
}

func (t *Tree) metaSeq(id int32) iter.Seq[Metadata] {
	return func(yield func(Metadata) bool) {
		for m := t.nodes[id].meta; m != none; m = t.metas[m].next {
			x := &t.metas[m]
			if !yield(Metadata{Module: x.module, Name: x.name, Value: x.value}) {
				return
			}
		}
	}
}

// Meta returns the annotations of r in insertion order.
func (r NodeRef) Meta() iter.Seq[Metadata] {
	return func(yield func(Metadata) bool) {
		if !r.valid() {
			return
		}
		for m := range r.tree.metaSeq(r.id) {
			if !r.valid() || !yield(m) {
				return
			}
		}
	}
}

// MetaValue returns the value of the annotation module:name of r.
func (r NodeRef) MetaValue(module, name string) (string, bool) {
	if !r.valid() {
		return "", false
	}
	return r.tree.metaValue(r.id, module, name)
}
