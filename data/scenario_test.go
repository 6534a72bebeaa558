package data

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signadot/ydata/format"
)

func TestScenarioEmptyTree(t *testing.T) {
	tree, err := New(newContext(t, modModule))
	require.NoError(t, err)
	require.True(t, tree.Empty())
	n := 0
	for range tree.Traverse() {
		n++
	}
	require.Zero(t, n)
	require.True(t, tree.Validated())
}

func TestScenarioParseLeaf(t *testing.T) {
	tree, err := Parse(newContext(t, modModule), []byte(`{"mod:leaf": 5}`), format.JSONFormat, 0, 0)
	require.NoError(t, err)
	var refs []NodeRef
	for r := range tree.TopLevel() {
		refs = append(refs, r)
	}
	require.Len(t, refs, 1)
	require.Equal(t, "leaf", refs[0].Name())
	require.Equal(t, "mod", refs[0].OwnerModule().Name)
	v, ok := refs[0].Value()
	require.True(t, ok)
	require.Equal(t, "5", v)
}

func TestScenarioNewPathUpdates(t *testing.T) {
	tree, err := New(newContext(t, modModule))
	require.NoError(t, err)
	for _, v := range []string{"1", "2"} {
		_, err := tree.NewPath("/mod:list[k='a']/v", &v)
		require.NoError(t, err)
	}
	entries, err := tree.Find("/mod:list")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	r, err := tree.FindSingle("/mod:list[k='a']/v")
	require.NoError(t, err)
	v, _ := r.Value()
	require.Equal(t, "2", v)
	require.False(t, tree.Validated())
	require.NoError(t, tree.Validate(0))
}

func TestScenarioDiffReplace(t *testing.T) {
	ctx := newContext(t, modModule)
	a := parseJSON(t, ctx, `{"mod:leaf": 1}`)
	b := parseJSON(t, ctx, `{"mod:leaf": 2}`)
	d, err := a.Diff(b)
	require.NoError(t, err)
	var top []NodeRef
	for r := range d.Tree().TopLevel() {
		top = append(top, r)
	}
	require.Len(t, top, 1)
	op, ok := top[0].MetaValue("yang", "operation")
	require.True(t, ok)
	require.Equal(t, "replace", op)
	orig, ok := top[0].MetaValue("yang", "orig-value")
	require.True(t, ok)
	require.Equal(t, "1", orig)
	v, _ := top[0].Value()
	require.Equal(t, "2", v)
}

func TestScenarioRemoveAmbiguous(t *testing.T) {
	tree := parseJSON(t, newContext(t, modModule), `{"mod:list": [{"k": "a"}, {"k": "b"}]}`)
	before := dump(tree)
	err := tree.Remove("/mod:list")
	require.ErrorIs(t, err, ErrAmbiguous)
	require.Equal(t, before, dump(tree))
	require.True(t, tree.Validated())

	require.NoError(t, tree.Remove("/mod:list[k='b']"))
	require.Len(t, dump(tree), 2)
}
