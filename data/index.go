package data

import (
	"strconv"
	"strings"

	"github.com/signadot/ydata/schema"
)

// instanceKey identifies the list entries with given key values, or the
// leaf-list entries with a given value, under one parent.
type instanceKey struct {
	parent int32
	schema *schema.Node
	key    string
}

// joinKey length-prefixes each key value, so no value can forge a
// boundary between two others.
func joinKey(vs []string) string {
	buf := &strings.Builder{}
	for _, v := range vs {
		buf.WriteString(strconv.Itoa(len(v)))
		buf.WriteByte(':')
		buf.WriteString(v)
	}
	return buf.String()
}

// instanceKeyOf returns the index key of list or leaf-list entry id.
func (t *Tree) instanceKeyOf(id int32) (string, bool) {
	n := &t.nodes[id]
	switch n.schema.Kind {
	case schema.LeafListKind:
		return n.value, true
	case schema.ListKind:
		vs := make([]string, len(n.schema.KeyNodes))
		for i, kn := range n.schema.KeyNodes {
			if c := t.childOf(id, kn); c != none {
				vs[i] = t.nodes[c].value
			}
		}
		return joinKey(vs), true
	}
	return "", false
}

// lookup returns the entries of sn under parent matching key, in document
// order. The index is built on first use after a mutation.
func (t *Tree) lookup(parent int32, sn *schema.Node, key string) []int32 {
	if t.index == nil {
		t.buildIndex()
	}
	return t.index[instanceKey{parent: parent, schema: sn, key: key}]
}

func (t *Tree) buildIndex() {
	t.index = map[instanceKey][]int32{}
	t.walkAll(func(id int32) bool {
		n := &t.nodes[id]
		if n.parent == none || !n.schema.IsMulti() {
			return true
		}
		k, _ := t.instanceKeyOf(id)
		ik := instanceKey{parent: n.parent, schema: n.schema, key: k}
		t.index[ik] = append(t.index[ik], id)
		return true
	})
}
