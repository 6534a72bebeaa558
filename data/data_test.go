package data

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/signadot/ydata/format"
	"github.com/signadot/ydata/schema"
)

const exModule = `
module: ex
namespace: urn:ex
features: [extra]
nodes:
  - name: top
    kind: container
    children:
      - {name: name, kind: leaf, type: string}
      - {name: mtu, kind: leaf, type: uint16, default: "1500"}
      - name: item
        kind: list
        key: id
        children:
          - {name: id, kind: leaf, type: uint8}
          - {name: label, kind: leaf, type: string}
          - {name: tags, kind: leaf-list, type: string, ordered-by: user}
      - name: seq
        kind: list
        key: k
        ordered-by: user
        max-elements: 4
        children:
          - {name: k, kind: leaf, type: string}
          - {name: v, kind: leaf, type: int32}
      - {name: ref, kind: leaf, type: leafref, path: ../item/id}
      - name: mode
        kind: choice
        default: dynamic
        children:
          - name: dynamic
            kind: case
            children:
              - {name: interval, kind: leaf, type: uint32, default: "30"}
          - name: fixed
            kind: case
            children:
              - {name: rate, kind: leaf, type: uint32}
      - {name: extra, kind: leaf, type: string, if-feature: extra}
      - {name: debug, kind: leaf, type: boolean, when: "value('../name') == 'dbg'"}
      - {name: blob, kind: anydata}
  - name: state
    kind: container
    config: false
    children:
      - {name: up, kind: leaf, type: boolean}
`

const modModule = `
module: mod
namespace: urn:mod
nodes:
  - {name: leaf, kind: leaf, type: int32}
  - name: list
    kind: list
    key: k
    children:
      - {name: k, kind: leaf, type: string}
      - {name: v, kind: leaf, type: int32}
`

const reqModule = `
module: req
namespace: urn:req
nodes:
  - {name: must, kind: leaf, type: string, mandatory: true}
`

func newContext(t *testing.T, srcs ...string) *schema.Context {
	t.Helper()
	ctx, err := schema.NewContext()
	if err != nil {
		t.Fatal(err)
	}
	for _, src := range srcs {
		if _, err := ctx.Load([]byte(src)); err != nil {
			t.Fatal(err)
		}
	}
	return ctx
}

func exContext(t *testing.T) *schema.Context {
	return newContext(t, exModule)
}

func parseJSON(t *testing.T, ctx *schema.Context, doc string) *Tree {
	t.Helper()
	tree, err := Parse(ctx, []byte(doc), format.JSONFormat, 0, 0)
	if err != nil {
		t.Fatalf("parse %s: %v", doc, err)
	}
	return tree
}

// dump renders every node of tree with its value, default flag and
// annotations, one per line.
func dump(tree *Tree) []string {
	var res []string
	for r := range tree.Traverse() {
		res = append(res, dumpLine(r))
	}
	return res
}

func dumpLine(r NodeRef) string {
	buf := &strings.Builder{}
	buf.WriteString(r.String())
	if v, ok := r.Value(); ok {
		fmt.Fprintf(buf, "=%q", v)
	}
	if r.IsDefault() {
		buf.WriteString(" (default)")
	}
	for m := range r.Meta() {
		fmt.Fprintf(buf, " @%s:%s=%q", m.Module, m.Name, m.Value)
	}
	return buf.String()
}

// canonicalDump is dump with the entries of system ordered lists and
// leaf-lists sorted, so trees differing only in that order compare equal.
func canonicalDump(tree *Tree) []string {
	var top []NodeRef
	for r := range tree.TopLevel() {
		top = append(top, r)
	}
	return canonicalLines(top, nil)
}

func canonicalLines(sibs []NodeRef, res []string) []string {
	for i := 0; i < len(sibs); {
		j := i + 1
		for j < len(sibs) && sibs[j].Schema() == sibs[i].Schema() {
			j++
		}
		run := sibs[i:j]
		if sn := run[0].Schema(); sn.IsMulti() && !sn.OrderedByUser {
			run = slices.Clone(run)
			slices.SortFunc(run, func(a, b NodeRef) int {
				return strings.Compare(a.String(), b.String())
			})
		}
		for _, r := range run {
			res = append(res, dumpLine(r))
			var kids []NodeRef
			for c := r.FirstChild(); !c.IsZero(); c = c.NextSibling() {
				kids = append(kids, c)
			}
			res = canonicalLines(kids, res)
		}
		i = j
	}
	return res
}

const exDoc = `{
  "ex:top": {
    "name": "a",
    "item": [
      {"id": 1, "label": "one", "tags": ["x", "y"]},
      {"id": 2, "label": "two"}
    ],
    "seq": [
      {"k": "b", "v": 1},
      {"k": "a", "v": 2}
    ],
    "ref": 2
  }
}`
