package encode

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/signadot/ydata/format"
	"github.com/signadot/ydata/ir"
	"github.com/signadot/ydata/parse"
)

func sample() []*ir.Node {
	top := ir.NewObject("ex", "top",
		ir.FromString("ex", "name", "a<b"),
		ir.NewScalar(ir.NumberType, "ex", "count", "3"),
		ir.FromString("ex", "tags", "x").WithArray(true),
		ir.FromString("ex", "tags", "y").WithArray(true).WithAttr(ir.Attr{Module: "yang", Namespace: "urn:ietf:params:xml:ns:yang:1", Name: "operation", Value: "delete"}),
		ir.NewScalar(ir.NullType, "ex", "flag", ""),
		ir.NewObject("other", "item", ir.FromString("other", "k", "1")).WithArray(true),
	)
	top.Namespace = "urn:ex"
	for _, c := range top.Children {
		c.Namespace = "urn:ex"
	}
	item := top.Children[5]
	item.Namespace = "urn:other"
	item.Children[0].Namespace = "urn:other"
	return []*ir.Node{top}
}

func TestEncodeJSONShrink(t *testing.T) {
	got, err := EncodeString(sample(), EncodeFormat(format.JSONFormat), EncodeShrink(true))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"ex:top":{"name":"a<b","count":3,"tags":["x","y"],"@tags":[null,{"yang:operation":"delete"}],"flag":[null],"other:item":[{"k":"1"}]}}` + "\n"
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeXMLShrink(t *testing.T) {
	got, err := EncodeString(sample(), EncodeFormat(format.XMLFormat), EncodeShrink(true))
	if err != nil {
		t.Fatal(err)
	}
	want := `<top xmlns="urn:ex"><name>a&lt;b</name><count>3</count><tags>x</tags>` +
		`<tags xmlns:yang="urn:ietf:params:xml:ns:yang:1" yang:operation="delete">y</tags><flag/>` +
		`<item xmlns="urn:other"><k>1</k></item></top>` + "\n"
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, f := range format.AllFormats() {
		out, err := EncodeString(sample(), EncodeFormat(f))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "\n  ") {
			t.Errorf("%s: expected indentation in\n%s", f, out)
		}
		nodes, err := parse.Parse([]byte(out), parse.ParseFormat(f))
		if err != nil {
			t.Fatalf("%s: %v\n%s", f, err, out)
		}
		again, err := EncodeString(nodes, EncodeFormat(f))
		if err != nil {
			t.Fatal(err)
		}
		if f.IsXML() {
			// XML carries no module names or scalar kinds.
			reparsed, err := parse.Parse([]byte(again), parse.ParseFormat(f))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(nodes, reparsed, cmpopts.IgnoreFields(ir.Node{}, "Parent")); diff != "" {
				t.Errorf("%s (-first +second):\n%s", f, diff)
			}
			continue
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(ir.Node{}, "Parent", "Module", "Namespace"),
			cmpopts.IgnoreFields(ir.Attr{}, "Namespace"),
		}
		if diff := cmp.Diff(sample(), nodes, opts...); diff != "" {
			t.Errorf("%s (-want +got):\n%s", f, diff)
		}
	}
}

func TestEncodeColors(t *testing.T) {
	out, err := EncodeString(sample(), EncodeFormat(format.JSONFormat), EncodeColors(&Colors{
		Default: func(s string, _ ...any) string { return "<" + s + ">" },
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<"name">`) || !strings.Contains(out, `<3>`) {
		t.Errorf("tokens not colored:\n%s", out)
	}
}
