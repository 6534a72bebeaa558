package data

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/signadot/ydata/schema"
)

// Reverse returns the diff undoing d. Reversing twice gives back d.
func (d *Diff) Reverse() (*Diff, error) {
	t, err := d.tree.Duplicate()
	if err != nil {
		return nil, err
	}
	t.walkAll(func(id int32) bool {
		t.reverseNode(id)
		return true
	})
	return &Diff{tree: t}, nil
}

func (t *Tree) reverseNode(id int32) {
	op, ok := t.explicitOp(id)
	if !ok {
		return
	}
	n := &t.nodes[id]
	switch op {
	case DiffCreate:
		t.setOp(id, DiffDelete)
	case DiffDelete:
		t.setOp(id, DiffCreate)
	case DiffReplace:
		switch n.schema.Kind {
		case schema.LeafKind, schema.AnydataKind:
			if ov, ok := t.metaValue(id, yangModule, metaOrigValue); ok {
				t.setMeta(id, yangModule, metaOrigValue, n.value)
				n.value = ov
				if n.schema.Kind == schema.AnydataKind {
					n.flags &^= flagAnyJSON
					if isJSONObject(ov) {
						n.flags |= flagAnyJSON
					}
				}
			}
			t.swapDefault(id)
		case schema.ListKind:
			t.swapMetas(id, metaKey, metaOrigKey)
		case schema.LeafListKind:
			t.swapMetas(id, metaValue, metaOrigValue)
		}
	case DiffNone:
		t.swapDefault(id)
	}
}

// swapDefault exchanges the default flag of id with its orig-default
// annotation.
func (t *Tree) swapDefault(id int32) {
	od, ok := t.metaValue(id, yangModule, metaOrigDefault)
	if !ok {
		return
	}
	t.setMeta(id, yangModule, metaOrigDefault, strconv.FormatBool(t.isDefault(id)))
	if od == "true" {
		t.nodes[id].flags |= flagDefault
	} else {
		t.nodes[id].flags &^= flagDefault
	}
}

func (t *Tree) swapMetas(id int32, a, b string) {
	av, aok := t.metaValue(id, yangModule, a)
	bv, bok := t.metaValue(id, yangModule, b)
	if aok && bok {
		t.setMeta(id, yangModule, a, bv)
		t.setMeta(id, yangModule, b, av)
	}
}

// isJSONObject reports whether an anydata value holds structured content.
func isJSONObject(v string) bool {
	return strings.HasPrefix(strings.TrimSpace(v), "{") && gjson.Valid(v)
}
