package data

import (
	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/ydata/debug"
	"github.com/signadot/ydata/format"
)

// ApplyJSONPatch applies an RFC 6902 JSON Patch to the RFC 7951 JSON
// rendering of t and parses the result into a new tree.
func (t *Tree) ApplyJSONPatch(patch []byte, p ParserFlags, v ValidationFlags) (*Tree, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, wrapErr(ErrPatch, "", err)
	}
	doc, err := t.jsonDoc()
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(doc)
	if err != nil {
		return nil, wrapErr(ErrPatch, "", err)
	}
	if debug.Apply() {
		debug.Logf("json patch result: %s\n", out)
	}
	return Parse(t.ctx, out, format.JSONFormat, p, v)
}

// ApplyMergePatch is ApplyJSONPatch for an RFC 7386 JSON Merge Patch.
func (t *Tree) ApplyMergePatch(patch []byte, p ParserFlags, v ValidationFlags) (*Tree, error) {
	doc, err := t.jsonDoc()
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, wrapErr(ErrPatch, "", err)
	}
	return Parse(t.ctx, out, format.JSONFormat, p, v)
}

func (t *Tree) jsonDoc() ([]byte, error) {
	s, err := t.PrintString(format.JSONFormat, PrintShrink)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
