package data

import (
	"bytes"
	"io"

	"github.com/signadot/ydata/debug"
	"github.com/signadot/ydata/encode"
	"github.com/signadot/ydata/format"
	"github.com/signadot/ydata/parse"
	"github.com/signadot/ydata/schema"
)

// Tree owns a forest of data nodes conforming to a schema context.
//
// A Tree is not safe for concurrent mutation. Any number of readers may
// share it while nothing mutates it.
type Tree struct {
	ctx   *schema.Context
	nodes []node
	metas []meta
	free  []int32

	top, topLast int32

	// gen is bumped by every mutation; NodeRefs from older generations
	// are stale.
	gen       uint64
	validated bool
	freed     bool

	index map[instanceKey][]int32
	ranks map[*schema.Node]int

	colors *encode.Colors
}

func newTree(ctx *schema.Context) *Tree {
	return &Tree{
		ctx:     ctx,
		top:     none,
		topLast: none,
		gen:     1,
		ranks:   map[*schema.Node]int{},
	}
}

// New returns an empty tree over ctx, validated without flags, so top-level
// defaults are present.
func New(ctx *schema.Context) (*Tree, error) {
	t := newTree(ctx)
	if err := t.Validate(0); err != nil {
		return nil, err
	}
	return t, nil
}

// Parse decodes d in format f into a new tree. Unless p has ParseOnly, the
// result is validated with v.
func Parse(ctx *schema.Context, d []byte, f format.Format, p ParserFlags, v ValidationFlags) (*Tree, error) {
	nodes, err := parse.Parse(d, parse.ParseFormat(f))
	if err != nil {
		return nil, wrapErr(ErrParse, "", err)
	}
	if debug.Parse() {
		debug.Logf("parsed %s input: %v\n", f, nodes)
	}
	t := newTree(ctx)
	b := &binder{tree: t, flags: p, format: f}
	for _, n := range nodes {
		if err := b.bindTop(n); err != nil {
			return nil, err
		}
	}
	if p.has(ParseOnly) {
		return t, nil
	}
	if err := t.Validate(v); err != nil {
		return nil, err
	}
	return t, nil
}

func ParseReader(ctx *schema.Context, r io.Reader, f format.Format, p ParserFlags, v ValidationFlags) (*Tree, error) {
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, wrapErr(ErrResource, "", err)
	}
	return Parse(ctx, buf.Bytes(), f, p, v)
}

func (t *Tree) Context() *schema.Context {
	return t.ctx
}

// Validated reports whether the tree was validated since its last
// mutation.
func (t *Tree) Validated() bool {
	return t.validated
}

// mutated records a structural change.
func (t *Tree) mutated() {
	t.gen++
	t.validated = false
	t.index = nil
}

// Free releases every node. References into t become stale.
func (t *Tree) Free() {
	t.mutated()
	t.freed = true
	t.nodes = nil
	t.metas = nil
	t.free = nil
	t.top, t.topLast = none, none
}

// First returns the first top-level node, zero when the tree is empty.
func (t *Tree) First() NodeRef {
	return t.ref(t.top)
}

// Empty reports whether t has no nodes.
func (t *Tree) Empty() bool {
	return t.top == none
}

// Remove deletes the single node matched by path and its subtree.
func (t *Tree) Remove(path string) error {
	r, err := t.FindSingle(path)
	if err != nil {
		return err
	}
	t.freeSubtree(r.id)
	t.mutated()
	return nil
}

// Duplicate deep-copies t, flags and metadata included.
func (t *Tree) Duplicate() (*Tree, error) {
	if t.freed {
		return nil, errorf(ErrResource, "", "tree was freed")
	}
	res := newTree(t.ctx)
	for c := t.top; c != none; c = t.nodes[c].next {
		res.copyFrom(t, c, none, true)
	}
	res.validated = t.validated
	return res, nil
}

// copyFrom copies the subtree src of from under parent in t, returning the
// new id. Metadata is copied when withMeta is set.
func (t *Tree) copyFrom(from *Tree, src, parent int32, withMeta bool) int32 {
	sn := from.nodes[src]
	id := t.alloc(sn.schema, sn.value)
	t.nodes[id].flags = sn.flags
	t.insertAfter(parent, t.lastChild(parent), id)
	if withMeta {
		for m := range from.metaSeq(src) {
			t.addMeta(id, m.Module, m.Name, m.Value)
		}
	}
	for c := from.nodes[src].child; c != none; c = from.nodes[c].next {
		t.copyFrom(from, c, id, withMeta)
	}
	return id
}
