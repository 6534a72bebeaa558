package data

import (
	"strings"

	"github.com/signadot/ydata/debug"
	"github.com/signadot/ydata/encode"
	"github.com/signadot/ydata/format"
	"github.com/signadot/ydata/ir"
	"github.com/signadot/ydata/parse"
	"github.com/signadot/ydata/schema"
)

const (
	// yangModule qualifies the annotations of the diff engine.
	yangModule    = "yang"
	yangNamespace = "urn:ietf:params:xml:ns:yang:1"
)

// binder turns parsed IR into tree nodes.
type binder struct {
	tree   *Tree
	flags  ParserFlags
	format format.Format
}

func (b *binder) bindTop(n *ir.Node) error {
	ctx := b.tree.ctx
	var mod *schema.Module
	if b.format.IsJSON() {
		if n.Module == "" {
			return errorf(ErrParse, "/"+n.Name, "top-level member is not module qualified")
		}
		mod = ctx.Module(n.Module)
	} else {
		mod = ctx.ModuleByNamespace(n.Namespace)
	}
	if mod == nil {
		return b.unknown(n)
	}
	sn := mod.Child(n.Name)
	if sn == nil {
		return b.unknown(n)
	}
	return b.bind(none, sn, n)
}

func (b *binder) unknown(n *ir.Node) error {
	if b.flags.has(ParseStrict) {
		return errorf(ErrValidation, n.Path(), "no schema node for %s", n.QName())
	}
	if debug.Parse() {
		debug.Logf("dropping unknown data %s\n", n.Path())
	}
	return nil
}

func (b *binder) childSchema(parent *schema.Node, n *ir.Node) *schema.Node {
	if b.format.IsJSON() {
		return parent.DataChild(n.EffectiveModule(), n.Name)
	}
	mod := b.tree.ctx.ModuleByNamespace(n.EffectiveNamespace())
	if mod == nil {
		return nil
	}
	return parent.DataChild(mod.Name, n.Name)
}

func (b *binder) bind(parent int32, sn *schema.Node, n *ir.Node) error {
	t := b.tree
	if b.flags.has(ParseNoState) && !sn.Config() {
		return errorf(ErrValidation, n.Path(), "state data %s not allowed", sn.Name)
	}
	if b.format.IsJSON() && sn.IsMulti() != n.Array {
		if sn.IsMulti() {
			return errorf(ErrValidation, n.Path(), "%s %s must be encoded as an array", sn.Kind, sn.Name)
		}
		return errorf(ErrValidation, n.Path(), "%s %s must not be encoded as an array", sn.Kind, sn.Name)
	}
	switch sn.Kind {
	case schema.ContainerKind, schema.ListKind:
		if n.Type != ir.ObjectType && (b.format.IsJSON() || n.Type != ir.NullType) {
			return errorf(ErrValidation, n.Path(), "%s %s needs an object", sn.Kind, sn.Name)
		}
		id := t.newChild(parent, sn, "")
		if err := b.bindMeta(id, n); err != nil {
			return err
		}
		for _, c := range n.Children {
			csn := b.childSchema(sn, c)
			if csn == nil {
				if err := b.unknown(c); err != nil {
					return err
				}
				continue
			}
			if err := b.bind(id, csn, c); err != nil {
				return err
			}
		}
		for i, kn := range sn.KeyNodes {
			if t.childOf(id, kn) == none {
				return errorf(ErrValidation, n.Path(), "list entry has no key %s", sn.Keys[i])
			}
		}
		return nil
	case schema.LeafKind, schema.LeafListKind:
		if n.Type == ir.ObjectType {
			return errorf(ErrValidation, n.Path(), "%s %s needs a value", sn.Kind, sn.Name)
		}
		base := sn.Type.Resolved().Base
		if b.format.IsJSON() && (n.Type == ir.NullType) != (base == schema.EmptyBase) {
			return errorf(ErrValidation, n.Path(), "invalid JSON value for %s", sn.Type)
		}
		v := n.String
		if !b.format.IsJSON() && base != schema.StringBase {
			v = strings.TrimSpace(v)
		}
		cv, err := sn.Type.Canonical(v)
		if err != nil {
			return wrapErr(ErrValidation, n.Path(), err)
		}
		return b.bindMeta(t.newChild(parent, sn, cv), n)
	case schema.AnydataKind:
		v, isJSON, err := anydataValue(n)
		if err != nil {
			return wrapErr(ErrParse, n.Path(), err)
		}
		id := t.newChild(parent, sn, v)
		if isJSON {
			t.nodes[id].flags |= flagAnyJSON
		}
		return b.bindMeta(id, n)
	}
	return errorf(ErrValidation, n.Path(), "unexpected schema node kind %s", sn.Kind)
}

// anydataValue stores structured anydata content as a JSON document.
func anydataValue(n *ir.Node) (string, bool, error) {
	if n.Type != ir.ObjectType {
		return n.String, false, nil
	}
	// detached members carry their module explicitly
	members := make([]*ir.Node, len(n.Children))
	for i, c := range n.Children {
		x := c.Clone()
		x.Parent = nil
		x.Module = c.EffectiveModule()
		members[i] = x
	}
	s, err := encode.EncodeString(members, encode.EncodeFormat(format.JSONFormat), encode.EncodeShrink(true))
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(s), true, nil
}

func (b *binder) bindMeta(id int32, n *ir.Node) error {
	for _, a := range n.Attrs {
		mod := a.Module
		if !b.format.IsJSON() {
			mod = b.tree.moduleOfNamespace(a.Namespace)
		}
		if mod == "" || (mod != yangModule && b.tree.ctx.Module(mod) == nil) {
			if b.flags.has(ParseStrict) {
				return errorf(ErrValidation, n.Path(), "unknown annotation %s", a.Name)
			}
			if debug.Parse() {
				debug.Logf("dropping annotation %s at %s\n", a.Name, n.Path())
			}
			continue
		}
		b.tree.addMeta(id, mod, a.Name, a.Value)
	}
	return nil
}

func (t *Tree) moduleOfNamespace(ns string) string {
	if ns == yangNamespace {
		return yangModule
	}
	if m := t.ctx.ModuleByNamespace(ns); m != nil {
		return m.Name
	}
	return ""
}

func (t *Tree) namespaceOf(module string) string {
	if module == yangModule {
		return yangNamespace
	}
	if m := t.ctx.Module(module); m != nil {
		return m.Namespace
	}
	return ""
}

// printer turns tree nodes into IR for encoding.
type printer struct {
	tree  *Tree
	flags PrinterFlags
}

func (p *printer) skip(id int32) bool {
	n := &p.tree.nodes[id]
	switch {
	case p.flags.has(PrintWDAll):
		return false
	case p.flags.has(PrintWDTrim) && n.flags&flagDefault == 0:
		return n.schema.Kind == schema.LeafKind && n.schema.Default != nil && n.value == *n.schema.Default
	}
	return n.flags&flagDefault != 0
}

func (p *printer) toIR(id int32) (*ir.Node, error) {
	t := p.tree
	if p.skip(id) {
		return nil, nil
	}
	n := &t.nodes[id]
	sn := n.schema
	res := &ir.Node{
		Module:    sn.Module.Name,
		Namespace: sn.Module.Namespace,
		Name:      sn.Name,
		Array:     sn.IsMulti(),
	}
	for m := range t.metaSeq(id) {
		res.WithAttr(ir.Attr{
			Module:    m.Module,
			Namespace: t.namespaceOf(m.Module),
			Name:      m.Name,
			Value:     m.Value,
		})
	}
	switch sn.Kind {
	case schema.ContainerKind, schema.ListKind:
		res.Type = ir.ObjectType
		for c := n.child; c != none; c = t.nodes[c].next {
			x, err := p.toIR(c)
			if err != nil {
				return nil, err
			}
			if x != nil {
				res.Append(x)
			}
		}
		if sn.IsNonPresenceContainer() && len(res.Children) == 0 && len(res.Attrs) == 0 && !p.flags.has(PrintKeepEmptyCont) {
			return nil, nil
		}
	case schema.AnydataKind:
		if n.flags&flagAnyJSON == 0 {
			res.Type = ir.StringType
			res.String = n.value
			break
		}
		children, err := parse.Parse([]byte(n.value), parse.ParseJSON())
		if err != nil {
			return nil, wrapErr(ErrPrint, t.path(id), err)
		}
		res.Type = ir.ObjectType
		for _, c := range children {
			res.Append(c)
		}
	default:
		res.Type = sn.Type.IRType()
		res.String = n.value
	}
	return res, nil
}
