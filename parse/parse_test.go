package parse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/signadot/ydata/ir"
)

var ignoreParent = cmpopts.IgnoreFields(ir.Node{}, "Parent")

func TestParseJSON(t *testing.T) {
	in := `{
  "ex:top": {
    "@": {"ex:note": "hi"},
    "name": "a",
    "count": 3,
    "on": true,
    "tags": ["x", "y"],
    "@tags": [null, {"yang:operation": "delete"}],
    "flag": [null],
    "other:item": [{"k": "1"}]
  },
  "ex:leaf": "5"
}`
	got, err := Parse([]byte(in), ParseJSON())
	if err != nil {
		t.Fatal(err)
	}
	top := ir.NewObject("ex", "top",
		ir.FromString("", "name", "a"),
		ir.NewScalar(ir.NumberType, "", "count", "3"),
		ir.NewScalar(ir.BoolType, "", "on", "true"),
		ir.FromString("", "tags", "x").WithArray(true),
		ir.FromString("", "tags", "y").WithArray(true).WithAttr(ir.Attr{Module: "yang", Name: "operation", Value: "delete"}),
		ir.NewScalar(ir.NullType, "", "flag", ""),
		ir.NewObject("other", "item", ir.FromString("", "k", "1")).WithArray(true),
	).WithAttr(ir.Attr{Module: "ex", Name: "note", Value: "hi"})
	want := []*ir.Node{top, ir.FromString("ex", "leaf", "5")}
	if diff := cmp.Diff(want, got, ignoreParent); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got[0].Parent != nil || got[0].Children[0].Parent != got[0] {
		t.Errorf("bad parent links")
	}
}

func TestParseXML(t *testing.T) {
	in := `<top xmlns="urn:ex" xmlns:yang="urn:ietf:params:xml:ns:yang:1">
  <name>a</name>
  <tags yang:operation="delete">y</tags>
  <flag/>
  <item xmlns="urn:other"><k>1</k></item>
</top>
<leaf xmlns="urn:ex">5</leaf>`
	got, err := Parse([]byte(in), ParseXML())
	if err != nil {
		t.Fatal(err)
	}
	mk := func(ns, name string, children ...*ir.Node) *ir.Node {
		n := ir.NewObject("", name, children...)
		n.Namespace = ns
		return n
	}
	str := func(ns, name, v string) *ir.Node {
		n := ir.FromString("", name, v)
		n.Namespace = ns
		return n
	}
	flag := ir.NewScalar(ir.NullType, "", "flag", "")
	flag.Namespace = "urn:ex"
	want := []*ir.Node{
		mk("urn:ex", "top",
			str("urn:ex", "name", "a"),
			str("urn:ex", "tags", "y").WithAttr(ir.Attr{Namespace: "urn:ietf:params:xml:ns:yang:1", Name: "operation", Value: "delete"}),
			flag,
			mk("urn:other", "item", str("urn:other", "k", "1")),
		),
		str("urn:ex", "leaf", "5"),
	}
	if diff := cmp.Diff(want, got, ignoreParent); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	type errTest struct {
		in   string
		opts []ParseOption
		is   error
	}
	tests := []errTest{
		{in: `{"a": `, opts: []ParseOption{ParseJSON()}, is: ErrParse},
		{in: `[1]`, opts: []ParseOption{ParseJSON()}, is: ErrParse},
		{in: `{"m:a": [[1]]}`, opts: []ParseOption{ParseJSON()}, is: ErrParse},
		{in: `{"m:a": 1, "@m:b": {"m:x": "1"}}`, opts: []ParseOption{ParseJSON()}, is: ErrMetadata},
		{in: `{"m:a": 1, "@m:a": {"x": "1"}}`, opts: []ParseOption{ParseJSON()}, is: ErrMetadata},
		{in: `<a><b>`, is: ErrParse},
		{in: `<a>x<b/></a>`, is: ErrParse},
		{in: `text`, is: ErrParse},
	}
	for _, test := range tests {
		_, err := Parse([]byte(test.in), test.opts...)
		if !errors.Is(err, test.is) {
			t.Errorf("%q: expected %v, got %v", test.in, test.is, err)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	for _, opt := range []ParseOption{ParseJSON(), ParseXML()} {
		nodes, err := Parse([]byte("  \n"), opt)
		if err != nil {
			t.Fatal(err)
		}
		if len(nodes) != 0 {
			t.Errorf("expected no nodes, got %d", len(nodes))
		}
	}
}
