package data

import (
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/signadot/ydata/debug"
	"github.com/signadot/ydata/format"
	"github.com/signadot/ydata/libdiff"
	"github.com/signadot/ydata/schema"
)

// DiffOp is the operation a diff node carries in its yang:operation
// annotation.
type DiffOp int

const (
	DiffNone DiffOp = iota
	DiffCreate
	DiffDelete
	DiffReplace
)

var diffOpNames = [...]string{"none", "create", "delete", "replace"}

func (o DiffOp) String() string {
	if o < 0 || int(o) >= len(diffOpNames) {
		return "<unknown op>"
	}
	return diffOpNames[o]
}

func ParseDiffOp(v string) (DiffOp, error) {
	for i, s := range diffOpNames {
		if s == v {
			return DiffOp(i), nil
		}
	}
	return DiffNone, fmt.Errorf("unknown diff operation %q", v)
}

// annotation names of the diff engine, all in the yang module.
const (
	metaOperation   = "operation"
	metaOrigValue   = "orig-value"
	metaOrigDefault = "orig-default"
	metaKey         = "key"
	metaOrigKey     = "orig-key"
	metaValue       = "value"
)

// Diff is a tree of differences. Nodes carry yang:operation annotations;
// nodes without one inherit the operation of their closest annotated
// ancestor.
type Diff struct {
	tree *Tree
}

// ParseDiff reads a printed diff.
func ParseDiff(ctx *schema.Context, d []byte, f format.Format) (*Diff, error) {
	t, err := Parse(ctx, d, f, ParseOnly, 0)
	if err != nil {
		return nil, err
	}
	return &Diff{tree: t}, nil
}

// Tree returns the tree holding the diff nodes.
func (d *Diff) Tree() *Tree {
	return d.tree
}

func (d *Diff) Free() {
	d.tree.Free()
}

func (d *Diff) Empty() bool {
	return d.tree.Empty()
}

func (d *Diff) Find(path string) ([]NodeRef, error) {
	return d.tree.Find(path)
}

func (d *Diff) FindSingle(path string) (NodeRef, error) {
	return d.tree.FindSingle(path)
}

// Print writes the diff with every node, defaults and empty containers
// included, and its annotations.
func (d *Diff) Print(w io.Writer, f format.Format, flags PrinterFlags) error {
	return d.tree.Print(w, f, flags|PrintWDAll|PrintKeepEmptyCont)
}

// Iter yields the nodes with an explicit operation other than none, in
// pre-order.
func (d *Diff) Iter() iter.Seq2[DiffOp, NodeRef] {
	return func(yield func(DiffOp, NodeRef) bool) {
		t := d.tree
		for r := range t.Traverse() {
			op, ok := t.explicitOp(r.id)
			if !ok || op == DiffNone {
				continue
			}
			if !yield(op, r) {
				return
			}
		}
	}
}

// EffectiveOp returns the operation of r, inherited from its ancestors when
// r has none of its own.
func (d *Diff) EffectiveOp(r NodeRef) DiffOp {
	if !r.valid() || r.tree != d.tree {
		return DiffNone
	}
	t := d.tree
	for x := r.id; x != none; x = t.nodes[x].parent {
		if op, ok := t.explicitOp(x); ok {
			return op
		}
	}
	return DiffNone
}

func (t *Tree) explicitOp(id int32) (DiffOp, bool) {
	v, ok := t.metaValue(id, yangModule, metaOperation)
	if !ok {
		return DiffNone, false
	}
	op, err := ParseDiffOp(v)
	if err != nil {
		return DiffNone, false
	}
	return op, true
}

func (t *Tree) setOp(id int32, op DiffOp) {
	t.setMeta(id, yangModule, metaOperation, op.String())
}

// Diff returns the differences turning t into other.
func (t *Tree) Diff(other *Tree) (*Diff, error) {
	if t.freed || other.freed {
		return nil, errorf(ErrStaleReference, "", "tree was freed")
	}
	if t.ctx != other.ctx {
		return nil, errorf(ErrValidation, "", "trees have different schema contexts")
	}
	df := &differ{a: t, b: other, d: newTree(t.ctx)}
	df.siblings(none, none, none)
	if debug.Diff() {
		s, _ := df.d.PrintString(format.JSONFormat, PrintWDAll|PrintKeepEmptyCont)
		debug.Logf("diff:\n%s", s)
	}
	return &Diff{tree: df.d}, nil
}

// differ compares a and b into d.
type differ struct {
	a, b, d *Tree
}

func (df *differ) siblings(ap, bp, dp int32) {
	var order []*schema.Node
	as := map[*schema.Node][]int32{}
	bs := map[*schema.Node][]int32{}
	for c := df.a.first(ap); c != none; c = df.a.nodes[c].next {
		sn := df.a.nodes[c].schema
		if _, ok := as[sn]; !ok {
			order = append(order, sn)
		}
		as[sn] = append(as[sn], c)
	}
	for c := df.b.first(bp); c != none; c = df.b.nodes[c].next {
		sn := df.b.nodes[c].schema
		if _, ok := as[sn]; !ok {
			if _, ok := bs[sn]; !ok {
				order = append(order, sn)
			}
		}
		bs[sn] = append(bs[sn], c)
	}
	for _, sn := range order {
		if sn.IsMulti() && sn.OrderedByUser {
			df.userOrdered(sn, as[sn], bs[sn], dp)
			continue
		}
		df.matched(as[sn], bs[sn], dp)
	}
}

func (df *differ) matched(as, bs []int32, dp int32) {
	byKey := map[string]int32{}
	for _, b := range bs {
		k, _ := df.b.instanceKeyOf(b)
		byKey[k] = b
	}
	used := map[int32]bool{}
	for _, a := range as {
		k, _ := df.a.instanceKeyOf(a)
		b, ok := byKey[k]
		if !ok || used[b] {
			df.deleted(a, dp)
			continue
		}
		used[b] = true
		df.compare(a, b, dp)
	}
	for _, b := range bs {
		if !used[b] {
			df.created(b, dp)
		}
	}
}

func (df *differ) userOrdered(sn *schema.Node, as, bs []int32, dp int32) {
	akeys := df.a.instanceKeys(as)
	bkeys := df.b.instanceKeys(bs)
	moved := libdiff.Moved(libdiff.Sequence(akeys, bkeys), akeys, bkeys)
	apos := map[string]int{}
	for i, k := range akeys {
		apos[k] = i
	}
	bpos := map[string]int{}
	for i, k := range bkeys {
		bpos[k] = i
	}
	pm, opm := predMetas(sn)
	for i, a := range as {
		if _, ok := bpos[akeys[i]]; ok {
			continue
		}
		id := df.deleted(a, dp)
		df.d.setMeta(id, yangModule, pm, df.a.predecessor(as, i))
	}
	for j, b := range bs {
		i, ok := apos[bkeys[j]]
		if !ok {
			id := df.created(b, dp)
			df.d.setMeta(id, yangModule, pm, df.b.predecessor(bs, j))
			continue
		}
		id := df.compare(as[i], b, dp)
		if !moved[bkeys[j]] {
			continue
		}
		if id == none {
			id = df.shallow(b, dp)
			df.keys(b, id)
		}
		df.d.setOp(id, DiffReplace)
		df.d.setMeta(id, yangModule, pm, df.b.predecessor(bs, j))
		df.d.setMeta(id, yangModule, opm, df.a.predecessor(as, i))
	}
}

// predMetas returns the annotations naming the predecessor of a
// user-ordered entry of sn, and its original.
func predMetas(sn *schema.Node) (string, string) {
	if sn.Kind == schema.ListKind {
		return metaKey, metaOrigKey
	}
	return metaValue, metaOrigValue
}

func (t *Tree) instanceKeys(ids []int32) []string {
	res := make([]string, len(ids))
	for i, id := range ids {
		res[i], _ = t.instanceKeyOf(id)
	}
	return res
}

// predecessor identifies the entry before ids[i]: its key predicates for
// list entries, its value for leaf-list entries, empty for the first.
func (t *Tree) predecessor(ids []int32, i int) string {
	if i == 0 {
		return ""
	}
	return t.identity(ids[i-1])
}

func (t *Tree) identity(id int32) string {
	if t.nodes[id].schema.Kind == schema.ListKind {
		return t.keyPredicates(id)
	}
	return t.nodes[id].value
}

func (df *differ) deleted(a, dp int32) int32 {
	id := df.d.copySorted(df.a, a, dp, false)
	df.d.setOp(id, DiffDelete)
	return id
}

func (df *differ) created(b, dp int32) int32 {
	id := df.d.copySorted(df.b, b, dp, false)
	df.d.setOp(id, DiffCreate)
	return id
}

// shallow copies node b without its children.
func (df *differ) shallow(b, dp int32) int32 {
	bn := &df.b.nodes[b]
	id := df.d.newChild(dp, bn.schema, bn.value)
	df.d.nodes[id].flags = bn.flags
	return id
}

// keys adds the key leaves of list entry b to id.
func (df *differ) keys(b, id int32) {
	for _, kn := range df.b.nodes[b].schema.KeyNodes {
		c := df.b.childOf(b, kn)
		if c == none || df.d.childOf(id, kn) != none {
			continue
		}
		df.d.newChild(id, kn, df.b.nodes[c].value)
	}
}

// compare records the differences between matching nodes a and b, returning
// the diff node or none when they are equal.
func (df *differ) compare(a, b, dp int32) int32 {
	an, bn := &df.a.nodes[a], &df.b.nodes[b]
	sn := an.schema
	defDiff := (an.flags&flagDefault != 0) != (bn.flags&flagDefault != 0)
	switch sn.Kind {
	case schema.LeafKind, schema.AnydataKind:
		if an.value != bn.value {
			id := df.shallow(b, dp)
			df.d.setOp(id, DiffReplace)
			df.d.setMeta(id, yangModule, metaOrigValue, an.value)
			df.d.setMeta(id, yangModule, metaOrigDefault, strconv.FormatBool(an.flags&flagDefault != 0))
			return id
		}
		fallthrough
	case schema.LeafListKind:
		if !defDiff {
			return none
		}
		id := df.shallow(b, dp)
		df.d.setOp(id, DiffNone)
		df.d.setMeta(id, yangModule, metaOrigDefault, strconv.FormatBool(an.flags&flagDefault != 0))
		return id
	}
	id := df.shallow(b, dp)
	df.siblings(a, b, id)
	if df.d.nodes[id].child == none && !defDiff {
		df.d.freeSubtree(id)
		return none
	}
	df.d.setOp(id, DiffNone)
	if defDiff {
		df.d.setMeta(id, yangModule, metaOrigDefault, strconv.FormatBool(an.flags&flagDefault != 0))
	}
	if sn.Kind == schema.ListKind {
		df.keys(b, id)
	}
	return id
}
