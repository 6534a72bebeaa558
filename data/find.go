package data

import (
	"cmp"
	"slices"

	"github.com/signadot/ydata/debug"
	"github.com/signadot/ydata/schema"
	"github.com/signadot/ydata/ypath"
)

// Find returns the nodes matched by path in document order. Relative paths
// are evaluated from the root.
func (t *Tree) Find(path string) ([]NodeRef, error) {
	if t.freed {
		return nil, errorf(ErrStaleReference, "", "tree was freed")
	}
	return t.findRefs(none, path)
}

// FindSingle is Find for paths that must match exactly one node.
func (t *Tree) FindSingle(path string) (NodeRef, error) {
	if t.freed {
		return NodeRef{}, errorf(ErrStaleReference, "", "tree was freed")
	}
	return t.findSingle(none, path)
}

// Find evaluates path with r as the context node.
func (r NodeRef) Find(path string) ([]NodeRef, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	return r.tree.findRefs(r.id, path)
}

func (r NodeRef) FindSingle(path string) (NodeRef, error) {
	if err := r.Err(); err != nil {
		return NodeRef{}, err
	}
	return r.tree.findSingle(r.id, path)
}

func (t *Tree) findRefs(ctx int32, path string) ([]NodeRef, error) {
	ids, err := t.find(ctx, path, false)
	if err != nil {
		return nil, err
	}
	res := make([]NodeRef, len(ids))
	for i, id := range ids {
		res[i] = t.ref(id)
	}
	return res, nil
}

func (t *Tree) findSingle(ctx int32, path string) (NodeRef, error) {
	ids, err := t.find(ctx, path, false)
	if err != nil {
		return NodeRef{}, err
	}
	switch len(ids) {
	case 0:
		return NodeRef{}, errorf(ErrNotFound, path, "no node matches")
	case 1:
		return t.ref(ids[0]), nil
	}
	return NodeRef{}, errorf(ErrAmbiguous, path, "%d nodes match", len(ids))
}

// find parses and evaluates path from ctx. With scan set, the instance
// index is not used.
func (t *Tree) find(ctx int32, path string, scan bool) ([]int32, error) {
	p, err := ypath.Parse(path)
	if err != nil {
		return nil, wrapErr(ErrPath, path, err)
	}
	ids, err := t.eval(ctx, p, scan)
	if err != nil {
		return nil, err
	}
	if debug.Path() {
		debug.Logf("path %s from %s: %d matches\n", p, t.path(ctx), len(ids))
	}
	return ids, nil
}

// eval evaluates p from ctx, where none is the root.
func (t *Tree) eval(ctx int32, p *ypath.Path, scan bool) ([]int32, error) {
	set := []int32{ctx}
	if p.Absolute {
		set = []int32{none}
		if len(p.Steps) != 0 {
			st := p.Steps[0]
			if st.Axis == ypath.ChildAxis && st.Module == "" && !st.IsWildcard() && !st.IsSelf() && !st.IsParent() {
				return nil, errorf(ErrPath, p.String(), "first step %s is not module qualified", st.Name)
			}
		}
	}
	unordered := false
	for _, st := range p.Steps {
		from := set
		if st.Axis == ypath.DescendantAxis {
			from = t.descendantsOrSelf(set)
			unordered = true
		}
		var next []int32
		seen := map[int32]bool{}
		add := func(id int32) {
			if !seen[id] {
				seen[id] = true
				next = append(next, id)
			}
		}
		switch {
		case st.IsSelf():
			for _, x := range t.filter(from, st.Predicates) {
				add(x)
			}
		case st.IsParent():
			for _, x := range from {
				if x != none {
					add(t.nodes[x].parent)
				}
			}
			unordered = true
		default:
			for _, x := range from {
				for _, c := range t.stepChildren(x, st, scan) {
					add(c)
				}
			}
		}
		set = next
	}
	res := set[:0:0]
	for _, x := range set {
		if x != none {
			res = append(res, x)
		}
	}
	if unordered && len(res) > 1 {
		t.sortDocOrder(res)
	}
	return res, nil
}

func (t *Tree) descendantsOrSelf(set []int32) []int32 {
	var res []int32
	seen := map[int32]bool{}
	for _, x := range set {
		if x == none {
			if !seen[none] {
				seen[none] = true
				res = append(res, none)
			}
			t.walkAll(func(id int32) bool {
				if seen[id] {
					return false
				}
				seen[id] = true
				res = append(res, id)
				return true
			})
			continue
		}
		t.walk(x, func(id int32) bool {
			if seen[id] {
				return false
			}
			seen[id] = true
			res = append(res, id)
			return true
		})
	}
	return res
}

// stepChildren returns the children of x matched by st and its
// predicates.
func (t *Tree) stepChildren(x int32, st *ypath.Step, scan bool) []int32 {
	if !scan && x != none && !st.IsWildcard() {
		if sn := uniqueDataChild(t.nodes[x].schema, st); sn != nil {
			if ids, rest, ok := t.indexed(x, sn, st); ok {
				return t.filter(ids, rest)
			}
		}
	}
	var cands []int32
	for c := t.first(x); c != none; c = t.nodes[c].next {
		if stepMatches(t.nodes[c].schema, st) {
			cands = append(cands, c)
		}
	}
	return t.filter(cands, st.Predicates)
}

func stepMatches(sn *schema.Node, st *ypath.Step) bool {
	if st.Module != "" && sn.Module.Name != st.Module {
		return false
	}
	return st.IsWildcard() || sn.Name == st.Name
}

// uniqueDataChild returns the only data child of psn matched by st.
func uniqueDataChild(psn *schema.Node, st *ypath.Step) *schema.Node {
	var res *schema.Node
	for _, c := range psn.DataChildren() {
		if !stepMatches(c, st) {
			continue
		}
		if res != nil {
			return nil
		}
		res = c
	}
	return res
}

// indexed resolves the leading predicates of st through the instance index
// when they determine an index key for sn. It returns the matches and the
// predicates left to apply.
func (t *Tree) indexed(parent int32, sn *schema.Node, st *ypath.Step) ([]int32, []ypath.Predicate, bool) {
	switch sn.Kind {
	case schema.LeafListKind:
		if len(st.Predicates) == 0 || st.Predicates[0].Kind != ypath.ValuePredicate {
			return nil, nil, false
		}
		v, err := sn.Type.Canonical(st.Predicates[0].Value)
		if err != nil {
			return nil, nil, true
		}
		return t.lookup(parent, sn, v), st.Predicates[1:], true
	case schema.ListKind:
		kps, n := st.KeyPredicates()
		if len(kps) != len(sn.Keys) {
			return nil, nil, false
		}
		vs := make([]string, len(sn.Keys))
		for i, k := range sn.Keys {
			pv, ok := kps[k]
			if !ok {
				return nil, nil, false
			}
			v, err := sn.KeyNodes[i].Type.Canonical(pv)
			if err != nil {
				return nil, nil, true
			}
			vs[i] = v
		}
		return t.lookup(parent, sn, joinKey(vs)), st.Predicates[n:], true
	}
	return nil, nil, false
}

// filter applies preds in order; positions count the survivors of the
// previous predicates.
func (t *Tree) filter(ids []int32, preds []ypath.Predicate) []int32 {
	for _, p := range preds {
		switch p.Kind {
		case ypath.PosPredicate:
			if p.Pos < 1 || p.Pos > len(ids) {
				return nil
			}
			ids = ids[p.Pos-1 : p.Pos]
			continue
		}
		var keep []int32
		for _, id := range ids {
			if t.predicateHolds(id, p) {
				keep = append(keep, id)
			}
		}
		ids = keep
	}
	return ids
}

func (t *Tree) predicateHolds(id int32, p ypath.Predicate) bool {
	if id == none {
		return false
	}
	if p.Kind == ypath.ValuePredicate {
		return valueEquals(&t.nodes[id], p.Value)
	}
	for c := t.nodes[id].child; c != none; c = t.nodes[c].next {
		cn := &t.nodes[c]
		if cn.schema.Name != p.Name || (p.Module != "" && cn.schema.Module.Name != p.Module) {
			continue
		}
		if valueEquals(cn, p.Value) {
			return true
		}
	}
	return false
}

// valueEquals compares the value of n with v canonicalized by n's type.
func valueEquals(n *node, v string) bool {
	if n.value == v {
		return true
	}
	if !n.schema.IsTerminal() {
		return false
	}
	cv, err := n.schema.Type.Canonical(v)
	return err == nil && cv == n.value
}

// sortDocOrder sorts ids by pre-order position.
func (t *Tree) sortDocOrder(ids []int32) {
	pos := make(map[int32]int, len(t.nodes))
	i := 0
	t.walkAll(func(id int32) bool {
		pos[id] = i
		i++
		return true
	})
	slices.SortFunc(ids, func(a, b int32) int {
		return cmp.Compare(pos[a], pos[b])
	})
}
