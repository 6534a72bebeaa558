package data

import (
	"errors"
	"strings"
	"testing"
)

func TestMerge(t *testing.T) {
	ctx := exContext(t)
	dst := parseJSON(t, ctx, `{"ex:top": {"name": "a", "mtu": 9000, "item": [{"id": 1, "label": "one"}]}}`)
	src := parseJSON(t, ctx, `{"ex:top": {"item": [{"id": 1, "label": "uno"}, {"id": 3, "tags": ["q"]}], "blob": {"ex:q": 1}}}`)
	if err := dst.Merge(src); err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		path string
		want string
	}{
		{"/ex:top/name", "a"},
		{"/ex:top/mtu", "9000"},
		{"/ex:top/item[id='1']/label", "uno"},
		{"/ex:top/item[id='3']/tags[.='q']", "q"},
		{"/ex:top/interval", "30"},
	} {
		r, err := dst.FindSingle(test.path)
		if err != nil {
			t.Errorf("%s: %v", test.path, err)
			continue
		}
		if v, _ := r.Value(); v != test.want {
			t.Errorf("%s: got %q want %q", test.path, v, test.want)
		}
	}
	if r, _ := dst.FindSingle("/ex:top/mtu"); r.IsDefault() {
		t.Error("explicit mtu became a default")
	}
	blob, err := dst.FindSingle("/ex:top/blob")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := blob.Value(); !strings.Contains(v, `"ex:q"`) {
		t.Errorf("blob %q", v)
	}
	items, _ := dst.Find("/ex:top/item")
	if len(items) != 2 {
		t.Errorf("%d items", len(items))
	}
}

func TestMergeIntoEmpty(t *testing.T) {
	ctx := exContext(t)
	src := parseJSON(t, ctx, exDoc)
	dst := newTree(ctx)
	if err := dst.Merge(src); err != nil {
		t.Fatal(err)
	}
	if err := dst.Validate(0); err != nil {
		t.Fatal(err)
	}
	d, err := src.Diff(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Empty() {
		t.Errorf("merge into empty differs from source:\n%v", dump(d.Tree()))
	}
}

func TestMergeErrors(t *testing.T) {
	a := parseJSON(t, exContext(t), exDoc)
	b := parseJSON(t, newContext(t, modModule), `{"mod:leaf": 1}`)
	if err := a.Merge(b); !errors.Is(err, ErrMerge) {
		t.Errorf("foreign context: %v", err)
	}
	b.Free()
	if err := a.Merge(b); !errors.Is(err, ErrStaleReference) {
		t.Errorf("freed source: %v", err)
	}
}

func TestApplyJSONPatch(t *testing.T) {
	ctx := exContext(t)
	tree := parseJSON(t, ctx, exDoc)
	res, err := tree.ApplyJSONPatch([]byte(`[{"op": "replace", "path": "/ex:top/name", "value": "z"}]`), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	r, err := res.FindSingle("/ex:top/name")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Value(); v != "z" {
		t.Errorf("got %q", v)
	}
	r, _ = tree.FindSingle("/ex:top/name")
	if v, _ := r.Value(); v != "a" {
		t.Errorf("source tree changed: %q", v)
	}
	for _, bad := range []string{
		`x`,
		`[{"op": "remove", "path": "/ex:nope"}]`,
	} {
		if _, err := tree.ApplyJSONPatch([]byte(bad), 0, 0); !errors.Is(err, ErrPatch) {
			t.Errorf("%s: %v", bad, err)
		}
	}
	bogus := []byte(`[{"op": "add", "path": "/ex:top/bogus", "value": 1}]`)
	if _, err := tree.ApplyJSONPatch(bogus, ParseStrict, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown member: %v", err)
	}
	if _, err := tree.ApplyJSONPatch(bogus, 0, 0); err != nil {
		t.Errorf("unknown member dropped: %v", err)
	}
}

func TestApplyMergePatch(t *testing.T) {
	ctx := exContext(t)
	tree := parseJSON(t, ctx, exDoc)
	res, err := tree.ApplyMergePatch([]byte(`{"ex:top": {"name": null, "mtu": 576}}`), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := res.FindSingle("/ex:top/name"); !errors.Is(err, ErrNotFound) {
		t.Errorf("name survived: %v", err)
	}
	r, _ := res.FindSingle("/ex:top/mtu")
	if v, _ := r.Value(); v != "576" {
		t.Errorf("mtu %q", v)
	}
	if _, err := tree.ApplyMergePatch([]byte(`{`), 0, 0); !errors.Is(err, ErrPatch) {
		t.Errorf("bad patch: %v", err)
	}
}
