package data

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/ydata/format"
)

func TestNewDefaults(t *testing.T) {
	ctx := exContext(t)
	tree, err := New(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !tree.Validated() {
		t.Error("new tree not validated")
	}
	want := []string{
		"/ex:top (default)",
		`/ex:top/mtu="1500" (default)`,
		`/ex:top/interval="30" (default)`,
		"/ex:state (default)",
	}
	if diff := cmp.Diff(want, dump(tree)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	s, err := tree.PrintString(format.JSONFormat, PrintShrink)
	if err != nil {
		t.Fatal(err)
	}
	if s != "{}\n" {
		t.Errorf("explicit print: got %q", s)
	}
}

func TestNewMandatory(t *testing.T) {
	ctx := newContext(t, modModule, reqModule)
	if _, err := New(ctx); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	tree := newTree(ctx)
	if err := tree.Validate(ValidatePresent); err != nil {
		t.Fatalf("present modules only: %v", err)
	}
	if _, err := tree.NewPath("/mod:leaf", ptr("3")); err != nil {
		t.Fatal(err)
	}
	if err := tree.Validate(ValidatePresent); err != nil {
		t.Fatalf("req has no data: %v", err)
	}
}

func ptr(s string) *string {
	return &s
}

func TestParseRoundTrip(t *testing.T) {
	ctx := exContext(t)
	docs := []string{
		exDoc,
		`{"ex:top": {"rate": 7, "mtu": 9000, "item": [{"id": 3, "tags": ["c", "a", "b"]}]}}`,
		`{"ex:top": {"name": "dbg", "debug": true, "blob": "text"}, "ex:state": {"up": false}}`,
	}
	for _, doc := range docs {
		orig := parseJSON(t, ctx, doc)
		for _, f := range format.AllFormats() {
			for _, flags := range []PrinterFlags{0, PrintShrink, PrintWDTrim | PrintKeepEmptyCont} {
				s, err := orig.PrintString(f, flags)
				if err != nil {
					t.Fatal(err)
				}
				again, err := Parse(ctx, []byte(s), f, ParseStrict, 0)
				if err != nil {
					t.Fatalf("reparse %s output %q: %v", f, s, err)
				}
				if diff := cmp.Diff(dump(orig), dump(again)); diff != "" {
					t.Errorf("%s roundtrip with flags %x (-orig +again):\n%s", f, flags, diff)
				}
			}
		}
	}
}

func TestParseXML(t *testing.T) {
	ctx := exContext(t)
	doc := `<top xmlns="urn:ex"><name>a</name><item><id> 01 </id><label>one</label></item></top>`
	tree, err := Parse(ctx, []byte(doc), format.XMLFormat, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	r, err := tree.FindSingle("/ex:top/item[id='1']/label")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Value(); v != "one" {
		t.Errorf("got %q", v)
	}
}

func TestParseErrors(t *testing.T) {
	ctx := exContext(t)
	tests := []struct {
		doc   string
		p     ParserFlags
		v     ValidationFlags
		kind  error
		clean bool
	}{
		{doc: `{`, kind: ErrParse},
		{doc: `{"top": {}}`, kind: ErrParse},
		{doc: `{"ex:top": {"mtu": 70000}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"item": {"id": 1}}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"item": [{"label": "x"}]}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"name": ["a"]}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"nope": 1}}`, clean: true},
		{doc: `{"ex:top": {"nope": 1}}`, p: ParseStrict, kind: ErrValidation},
		{doc: `{"zz:top": 1}`, clean: true},
		{doc: `{"ex:state": {"up": true}}`, p: ParseNoState, kind: ErrValidation},
		{doc: `{"ex:state": {"up": true}}`, v: ValidateNoState, kind: ErrValidation},
		{doc: `{"ex:top": {"item": [{"id": 1}, {"id": 1}]}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"item": [{"id": 1, "tags": ["a", "a"]}]}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"interval": 5, "rate": 3}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"extra": "x"}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"debug": true}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"ref": 3}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"seq": [{"k": "a"}, {"k": "b"}, {"k": "c"}, {"k": "d"}, {"k": "e"}]}}`, kind: ErrValidation},
		{doc: `{"ex:top": {"item": [{"id": 1}, {"id": 1}]}}`, p: ParseOnly, clean: true},
	}
	for i, test := range tests {
		_, err := Parse(ctx, []byte(test.doc), format.JSONFormat, test.p, test.v)
		if test.clean {
			if err != nil {
				t.Errorf("%d: %s: unexpected error %v", i, test.doc, err)
			}
			continue
		}
		if !errors.Is(err, test.kind) {
			t.Errorf("%d: %s: expected %v, got %v", i, test.doc, test.kind, err)
		}
	}
}

func TestErrorPath(t *testing.T) {
	ctx := exContext(t)
	_, err := Parse(ctx, []byte(`{"ex:top": {"item": [{"id": 1, "label": "x"}, {"id": 300}]}}`), format.JSONFormat, 0, 0)
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if e.Path != "/ex:top/item/id" {
		t.Errorf("path: got %q", e.Path)
	}
}

func TestFeatureEnabled(t *testing.T) {
	ctx := exContext(t)
	if err := ctx.EnableFeature("ex", "extra"); err != nil {
		t.Fatal(err)
	}
	parseJSON(t, ctx, `{"ex:top": {"extra": "x", "name": "dbg", "debug": false}}`)
}

func TestRemove(t *testing.T) {
	ctx := exContext(t)
	tree := parseJSON(t, ctx, exDoc)
	before := dump(tree)
	if err := tree.Remove("/ex:top/item"); !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("expected ambiguous, got %v", err)
	}
	if err := tree.Remove("/ex:top/item[id='9']"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if diff := cmp.Diff(before, dump(tree)); diff != "" {
		t.Errorf("failed removes changed the tree:\n%s", diff)
	}
	if err := tree.Remove("/ex:top/item[id='1']"); err != nil {
		t.Fatal(err)
	}
	if tree.Validated() {
		t.Error("removal left the tree validated")
	}
	refs, err := tree.Find("/ex:top/item")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 {
		t.Errorf("got %d items", len(refs))
	}
}

func TestNewPath(t *testing.T) {
	ctx := exContext(t)
	tree, err := New(ctx)
	if err != nil {
		t.Fatal(err)
	}
	r, err := tree.NewPath("/ex:top/name", ptr("x"))
	if err != nil {
		t.Fatal(err)
	}
	if r.Name() != "name" {
		t.Errorf("created %s", r)
	}
	top, err := tree.FindSingle("/ex:top")
	if err != nil {
		t.Fatal(err)
	}
	if top.IsDefault() {
		t.Error("top still implicit")
	}

	r, err = tree.NewPath("/ex:top/item[id='07']/tags[.='q']", nil)
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := r.Path(); p != "/ex:top/item[id='7']" {
		t.Errorf("first created: %s", p)
	}
	if _, err := tree.FindSingle("/ex:top/item[id='7']/tags[.='q']"); err != nil {
		t.Error(err)
	}

	r, err = tree.NewPath("/ex:top/mtu", ptr("9000"))
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsZero() {
		t.Errorf("update created %s", r)
	}
	mtu, _ := tree.FindSingle("/ex:top/mtu")
	if v, _ := mtu.Value(); v != "9000" || mtu.IsDefault() {
		t.Errorf("mtu %q default %t", v, mtu.IsDefault())
	}

	tests := []struct {
		path  string
		value *string
		kind  error
	}{
		{"ex:top/name", nil, ErrPath},
		{"/top/name", nil, ErrPath},
		{"/ex:top/item/label", nil, ErrPath},
		{"/ex:top/item[id='1'][label='x']", nil, ErrPath},
		{"/ex:top/item[id='x']/label", nil, ErrValidation},
		{"/ex:top/mtu", ptr("big"), ErrValidation},
		{"/ex:top/nope", nil, ErrPath},
		{"/ex:top/name/x", nil, ErrPath},
		{"/ex:top/item[id='7']/tags", nil, ErrPath},
		{"/ex:top//name", nil, ErrPath},
		{"/ex:top/item[", nil, ErrPath},
	}
	for _, test := range tests {
		if _, err := tree.NewPath(test.path, test.value); !errors.Is(err, test.kind) {
			t.Errorf("%s: expected %v, got %v", test.path, test.kind, err)
		}
	}
}

func TestAnydataNewPath(t *testing.T) {
	ctx := exContext(t)
	tree := newTree(ctx)
	if _, err := tree.NewPath("/ex:top/blob", ptr("raw")); err != nil {
		t.Fatal(err)
	}
	r, err := tree.FindSingle("/ex:top/blob")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Value(); v != "" {
		t.Errorf("got %q", v)
	}
	r, err = tree.NewPath("/ex:top/blob", ptr("other"))
	if err != nil || !r.IsZero() {
		t.Fatalf("second new path: %v %s", err, r)
	}
	r, _ = tree.FindSingle("/ex:top/blob")
	if v, _ := r.Value(); v != "" {
		t.Errorf("value replaced: %q", v)
	}
}

func TestNewPathKeyLeaf(t *testing.T) {
	ctx := newContext(t, modModule)
	tree := parseJSON(t, ctx, `{"mod:list": [{"k": "a", "v": 1}]}`)
	for _, value := range []*string{nil, ptr("a"), ptr("b")} {
		r, err := tree.NewPath("/mod:list[k='a']/k", value)
		if err != nil {
			t.Fatalf("%v: %v", value, err)
		}
		if !r.IsZero() {
			t.Errorf("created %s", r)
		}
	}
	r, err := tree.NewPath("/mod:list[k='z']/k", ptr("b"))
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := r.Path(); p != "/mod:list[k='z']" {
		t.Errorf("created %s", p)
	}
	want := []string{
		`/mod:list[k='a']`,
		`/mod:list[k='a']/k="a"`,
		`/mod:list[k='a']/v="1"`,
		`/mod:list[k='z']`,
		`/mod:list[k='z']/k="z"`,
	}
	if diff := cmp.Diff(want, dump(tree)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestAnydataModules(t *testing.T) {
	ctx := exContext(t)
	for _, test := range []struct {
		doc  string
		want string
	}{
		{`{"ex:top": {"blob": {"ex:q": 1}}}`, `{"ex:q":1}`},
		{`{"ex:top": {"blob": {"q": 1}}}`, `{"ex:q":1}`},
		{`{"ex:top": {"blob": {"other:q": {"r": true}}}}`, `{"other:q":{"r":true}}`},
	} {
		tree := parseJSON(t, ctx, test.doc)
		r, err := tree.FindSingle("/ex:top/blob")
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := r.Value(); v != test.want {
			t.Errorf("%s: stored %q want %q", test.doc, v, test.want)
		}
		out, err := tree.PrintString(format.JSONFormat, PrintShrink)
		if err != nil {
			t.Fatal(err)
		}
		r, err = parseJSON(t, ctx, out).FindSingle("/ex:top/blob")
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := r.Value(); v != test.want {
			t.Errorf("%s: reparsed %s stored %q", test.doc, out, v)
		}
	}
}

func TestStaleReference(t *testing.T) {
	ctx := exContext(t)
	tree := parseJSON(t, ctx, exDoc)
	r := tree.First()
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	if _, err := tree.NewPath("/ex:top/name", ptr("b")); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(r.Err(), ErrStaleReference) {
		t.Errorf("expected stale reference, got %v", r.Err())
	}
	if _, err := r.Find("name"); !errors.Is(err, ErrStaleReference) {
		t.Errorf("find on stale reference: %v", err)
	}
	if r.Schema() != nil || !r.Parent().IsZero() {
		t.Error("stale reference has accessors")
	}
	tree.Free()
	if _, err := tree.Find("/ex:top"); !errors.Is(err, ErrStaleReference) {
		t.Errorf("find on freed tree: %v", err)
	}
	var zero NodeRef
	if !errors.Is(zero.Err(), ErrStaleReference) {
		t.Error("zero reference is valid")
	}
}

func TestDuplicate(t *testing.T) {
	ctx := exContext(t)
	tree := parseJSON(t, ctx, exDoc)
	dup, err := tree.Duplicate()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(dump(tree), dump(dup)); diff != "" {
		t.Fatalf("(-orig +dup):\n%s", diff)
	}
	if _, err := dup.NewPath("/ex:top/name", ptr("changed")); err != nil {
		t.Fatal(err)
	}
	r, _ := tree.FindSingle("/ex:top/name")
	if v, _ := r.Value(); v != "a" {
		t.Errorf("original changed to %q", v)
	}
}

func TestIterators(t *testing.T) {
	ctx := exContext(t)
	tree := parseJSON(t, ctx, exDoc)
	item, err := tree.FindSingle("/ex:top/item[id='1']")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for c := range item.Children() {
		names = append(names, c.Name())
	}
	if diff := cmp.Diff([]string{"id", "label", "tags", "tags"}, names); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	n := 0
	for range item.Siblings() {
		n++
	}
	// item 1, item 2, seq b, seq a, ref, interval
	if n != 6 {
		t.Errorf("got %d siblings", n)
	}
	tag, _ := tree.FindSingle("/ex:top/item[id='1']/tags[.='y']")
	var up []string
	for a := range tag.Ancestors() {
		up = append(up, a.Name())
	}
	if diff := cmp.Diff([]string{"item", "top"}, up); diff != "" {
		t.Errorf("ancestors (-want +got):\n%s", diff)
	}
	n = 0
	for r := range tree.TopLevel() {
		if r.OwnerModule().Name != "ex" {
			t.Errorf("owner of %s: %s", r, r.OwnerModule())
		}
		n++
	}
	if n != 2 {
		t.Errorf("got %d top-level nodes", n)
	}
	n = 0
	for r := range tree.Traverse() {
		if _, err := tree.NewPath("/ex:top/name", ptr("z")); err != nil {
			t.Fatal(err)
		}
		_ = r
		n++
	}
	if n != 1 {
		t.Errorf("traversal continued after mutation: %d", n)
	}
}
