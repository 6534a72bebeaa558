package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/signadot/ydata/ir"
)

func parseJSON(d []byte) ([]*ir.Node, error) {
	if len(bytes.TrimSpace(d)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(d) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrParse)
	}
	doc := gjson.ParseBytes(d)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top level JSON value must be an object", ErrParse)
	}
	// a holder collects the members; its children become the roots.
	holder := &ir.Node{Type: ir.ObjectType}
	if err := jsonMembers(holder, doc); err != nil {
		return nil, err
	}
	if len(holder.Attrs) != 0 {
		return nil, fmt.Errorf("%w: \"@\" at top level", ErrMetadata)
	}
	res := holder.Children
	for _, c := range res {
		c.Parent = nil
	}
	return res, nil
}

func splitQName(qn string) (string, string) {
	mod, name, ok := strings.Cut(qn, ":")
	if !ok {
		return "", qn
	}
	return mod, name
}

func jsonMembers(parent *ir.Node, obj gjson.Result) error {
	type pending struct {
		name string
		val  gjson.Result
	}
	var metas []pending
	var err error
	obj.ForEach(func(k, v gjson.Result) bool {
		name := k.String()
		if strings.HasPrefix(name, "@") {
			metas = append(metas, pending{name: name[1:], val: v})
			return true
		}
		mod, local := splitQName(name)
		if local == "" {
			err = fmt.Errorf("%w: empty member name under %s", ErrParse, parent.Path())
			return false
		}
		if v.IsArray() && !isEmptyValue(v) {
			for _, e := range v.Array() {
				var c *ir.Node
				if c, err = jsonValue(mod, local, e); err != nil {
					return false
				}
				parent.Append(c.WithArray(true))
			}
			return true
		}
		var c *ir.Node
		if c, err = jsonValue(mod, local, v); err != nil {
			return false
		}
		parent.Append(c)
		return true
	})
	if err != nil {
		return err
	}
	for _, m := range metas {
		if err := jsonMeta(parent, m.name, m.val); err != nil {
			return err
		}
	}
	return nil
}

func isEmptyValue(v gjson.Result) bool {
	es := v.Array()
	return len(es) == 1 && es[0].Type == gjson.Null
}

func jsonValue(mod, name string, v gjson.Result) (*ir.Node, error) {
	switch v.Type {
	case gjson.Null:
		return ir.NewScalar(ir.NullType, mod, name, ""), nil
	case gjson.True, gjson.False:
		return ir.NewScalar(ir.BoolType, mod, name, v.Raw), nil
	case gjson.Number:
		return ir.NewScalar(ir.NumberType, mod, name, v.Raw), nil
	case gjson.String:
		return ir.NewScalar(ir.StringType, mod, name, v.Str), nil
	}
	if v.IsArray() {
		// [null] is the encoding of an empty leaf
		if isEmptyValue(v) {
			return ir.NewScalar(ir.NullType, mod, name, ""), nil
		}
		return nil, fmt.Errorf("%w: nested array in %s", ErrParse, name)
	}
	res := ir.NewObject(mod, name)
	if err := jsonMembers(res, v); err != nil {
		return nil, err
	}
	return res, nil
}

// jsonMeta attaches the annotations of "@name" to the siblings named name,
// or to parent itself for "@".
func jsonMeta(parent *ir.Node, qname string, v gjson.Result) error {
	if qname == "" {
		attrs, err := jsonAttrs(v)
		if err != nil {
			return err
		}
		parent.Attrs = append(parent.Attrs, attrs...)
		return nil
	}
	mod, name := splitQName(qname)
	var targets []*ir.Node
	for _, c := range parent.Children {
		if c.Name == name && (mod == "" || c.Module == mod) {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("%w: @%s annotates no member of %s", ErrMetadata, qname, parent.Path())
	}
	if !v.IsArray() {
		attrs, err := jsonAttrs(v)
		if err != nil {
			return err
		}
		targets[0].Attrs = append(targets[0].Attrs, attrs...)
		return nil
	}
	es := v.Array()
	if len(es) > len(targets) {
		return fmt.Errorf("%w: @%s has %d entries for %d values", ErrMetadata, qname, len(es), len(targets))
	}
	for i, e := range es {
		if e.Type == gjson.Null {
			continue
		}
		attrs, err := jsonAttrs(e)
		if err != nil {
			return err
		}
		targets[i].Attrs = append(targets[i].Attrs, attrs...)
	}
	return nil
}

func jsonAttrs(v gjson.Result) ([]ir.Attr, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrMetadata, v.Raw)
	}
	var res []ir.Attr
	var err error
	v.ForEach(func(k, av gjson.Result) bool {
		mod, name := splitQName(k.String())
		if mod == "" {
			err = fmt.Errorf("%w: annotation %q is not module qualified", ErrMetadata, k.String())
			return false
		}
		if av.IsObject() || av.IsArray() {
			err = fmt.Errorf("%w: annotation %q has a structured value", ErrMetadata, k.String())
			return false
		}
		val := av.String()
		if av.Type == gjson.Number {
			val = av.Raw
		}
		res = append(res, ir.Attr{Module: mod, Name: name, Value: val})
		return true
	})
	return res, err
}
