package data

import (
	"github.com/signadot/ydata/debug"
	"github.com/signadot/ydata/schema"
)

// DiffApply executes the operations of d on t. Deletions run before any
// insertion; user-ordered entries are placed after their predecessors in
// dependency order. No annotation of d is kept in t.
//
// The result is not validated and a failure leaves t partially patched.
func (t *Tree) DiffApply(d *Diff) error {
	if t.freed || d.tree.freed {
		return errorf(ErrStaleReference, "", "tree was freed")
	}
	if d.tree.ctx != t.ctx {
		return errorf(ErrPatch, "", "diff has a different schema context")
	}
	ap := &applier{t: t, d: d.tree}
	err := ap.siblings(none, none)
	t.mutated()
	return err
}

type applier struct {
	t, d *Tree
}

// placement is a user-ordered entry waiting to be moved after the entry
// identified by pred.
type placement struct {
	id   int32
	sn   *schema.Node
	pred string
}

func (ap *applier) op(c int32) (DiffOp, error) {
	v, ok := ap.d.metaValue(c, yangModule, metaOperation)
	if !ok {
		return DiffNone, nil
	}
	op, err := ParseDiffOp(v)
	if err != nil {
		return DiffNone, wrapErr(ErrPatch, ap.d.path(c), err)
	}
	return op, nil
}

func (ap *applier) target(tp, c int32) (int32, error) {
	m := ap.t.matchOf(tp, ap.d, c)
	if m == none {
		return none, errorf(ErrPatch, ap.d.path(c), "no node to patch")
	}
	return m, nil
}

// siblings applies the children of diff node dp to target node tp.
func (ap *applier) siblings(dp, tp int32) error {
	t, d := ap.t, ap.d
	for c := d.first(dp); c != none; c = d.nodes[c].next {
		op, err := ap.op(c)
		if err != nil {
			return err
		}
		if op != DiffDelete {
			continue
		}
		m, err := ap.target(tp, c)
		if err != nil {
			return err
		}
		if debug.Apply() {
			debug.Logf("apply: delete %s\n", t.path(m))
		}
		t.freeSubtree(m)
	}
	var places []placement
	for c := d.first(dp); c != none; c = d.nodes[c].next {
		dn := &d.nodes[c]
		sn := dn.schema
		if sn.IsKey() {
			continue
		}
		op, err := ap.op(c)
		if err != nil {
			return err
		}
		pm, _ := predMetas(sn)
		switch op {
		case DiffDelete:
			continue
		case DiffCreate:
			if t.matchOf(tp, d, c) != none {
				return errorf(ErrPatch, d.path(c), "node to create exists")
			}
			id := t.copySorted(d, c, tp, false)
			if debug.Apply() {
				debug.Logf("apply: create %s\n", t.path(id))
			}
			if sn.IsMulti() && sn.OrderedByUser {
				pred, _ := d.metaValue(c, yangModule, pm)
				places = append(places, placement{id: id, sn: sn, pred: pred})
			}
		case DiffReplace:
			m, err := ap.target(tp, c)
			if err != nil {
				return err
			}
			switch sn.Kind {
			case schema.LeafKind, schema.AnydataKind:
				if debug.Apply() {
					debug.Logf("apply: replace %s with %q\n", t.path(m), dn.value)
				}
				t.nodes[m].value = dn.value
				t.nodes[m].flags = t.nodes[m].flags&^(flagDefault|flagAnyJSON) | dn.flags&(flagDefault|flagAnyJSON)
				continue
			}
			if sn.IsMulti() && sn.OrderedByUser {
				pred, _ := d.metaValue(c, yangModule, pm)
				places = append(places, placement{id: m, sn: sn, pred: pred})
			}
			if err := ap.siblings(c, m); err != nil {
				return err
			}
		default:
			m, err := ap.target(tp, c)
			if err != nil {
				return err
			}
			if _, ok := d.metaValue(c, yangModule, metaOrigDefault); ok {
				t.nodes[m].flags = t.nodes[m].flags&^flagDefault | dn.flags&flagDefault
			}
			if err := ap.siblings(c, m); err != nil {
				return err
			}
		}
	}
	return ap.place(tp, places)
}

// place moves the entries of places after their predecessors, placing a
// predecessor that is itself waiting first.
func (ap *applier) place(tp int32, places []placement) error {
	if len(places) == 0 {
		return nil
	}
	type ident struct {
		sn *schema.Node
		id string
	}
	waiting := make(map[ident]int, len(places))
	for i, p := range places {
		waiting[ident{p.sn, ap.t.identity(p.id)}] = i
	}
	state := make([]int, len(places))
	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case 1:
			return errorf(ErrPatch, ap.t.path(places[i].id), "user-ordered placements form a cycle")
		case 2:
			return nil
		}
		state[i] = 1
		p := &places[i]
		if j, ok := waiting[ident{p.sn, p.pred}]; ok && p.pred != "" && j != i {
			if err := visit(j); err != nil {
				return err
			}
		}
		if err := ap.placeAfter(tp, p); err != nil {
			return err
		}
		state[i] = 2
		return nil
	}
	for i := range places {
		if err := visit(i); err != nil {
			return err
		}
	}
	return nil
}

func (ap *applier) placeAfter(tp int32, p *placement) error {
	t := ap.t
	t.unlink(p.id)
	if p.pred == "" {
		for c := t.first(tp); c != none; c = t.nodes[c].next {
			if t.nodes[c].schema == p.sn {
				t.insertAfter(tp, t.prevSibling(c), p.id)
				return nil
			}
		}
		t.insertSorted(tp, p.id)
		return nil
	}
	for c := t.first(tp); c != none; c = t.nodes[c].next {
		if t.nodes[c].schema == p.sn && t.identity(c) == p.pred {
			t.insertAfter(tp, c, p.id)
			return nil
		}
	}
	// keep the entry linked
	t.insertSorted(tp, p.id)
	return errorf(ErrPatch, t.path(p.id), "no predecessor %s", p.pred)
}
