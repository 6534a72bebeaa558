package data

import (
	"github.com/signadot/ydata/debug"
	"github.com/signadot/ydata/schema"
	"github.com/signadot/ydata/ypath"
)

// Validate checks t against its schema context and materializes defaults.
// Defaults added by a previous validation are removed first. A failed
// validation leaves the tree as far as it got.
func (t *Tree) Validate(v ValidationFlags) error {
	if t.freed {
		return errorf(ErrStaleReference, "", "tree was freed")
	}
	t.mutated()
	t.dropDefaults(none)
	vs := &validator{tree: t, flags: v}
	mods := vs.modules()
	for _, m := range mods {
		if err := vs.defaults(none, m.Nodes); err != nil {
			return err
		}
	}
	if err := vs.childDefaults(none); err != nil {
		return err
	}
	t.index = nil
	if err := vs.check(none); err != nil {
		return err
	}
	for _, m := range mods {
		if err := vs.mandatory(none, m.Nodes); err != nil {
			return err
		}
	}
	t.validated = true
	return nil
}

// dropDefaults removes the default nodes under parent. A default node left
// with explicit descendants becomes explicit.
func (t *Tree) dropDefaults(parent int32) {
	for c := t.first(parent); c != none; {
		next := t.nodes[c].next
		t.dropDefaults(c)
		if t.isDefault(c) {
			if t.nodes[c].child == none {
				t.freeSubtree(c)
			} else {
				t.nodes[c].flags &^= flagDefault
			}
		}
		c = next
	}
}

type validator struct {
	tree  *Tree
	flags ValidationFlags
}

// modules returns the modules whose top-level constraints apply.
func (vs *validator) modules() []*schema.Module {
	t := vs.tree
	all := t.ctx.Modules()
	if !vs.flags.has(ValidatePresent) {
		return all
	}
	var res []*schema.Module
	for _, m := range all {
		for c := t.top; c != none; c = t.nodes[c].next {
			if t.nodes[c].schema.TopModule() == m {
				res = append(res, m)
				break
			}
		}
	}
	return res
}

func (vs *validator) skipped(sn *schema.Node) bool {
	if vs.flags.has(ValidateNoState) && !sn.Config() {
		return true
	}
	return sn.IfFeature != "" && !vs.tree.ctx.Enabled(sn)
}

// whenHolds evaluates the when condition of sn. Data nodes are evaluated on
// id, or on a node of sn to be created under parent when id is none. Choices
// and cases are evaluated on parent.
func (vs *validator) whenHolds(sn *schema.Node, id, parent int32) (bool, error) {
	if sn.When == nil {
		return true, nil
	}
	t := vs.tree
	r := &resolver{tree: t, id: id}
	switch {
	case sn.IsSchemaOnly():
		r.id = parent
	case id == none:
		r.parent, r.virtual = parent, true
		if sn.Default != nil {
			r.current = *sn.Default
		}
	}
	ok, err := sn.When.Eval(r)
	if err != nil {
		path := t.path(parent)
		if id != none {
			path = t.path(id)
		}
		return false, wrapErr(ErrValidation, path, err)
	}
	if debug.Validate() {
		debug.Logf("when %q on %s: %t\n", sn.When, sn.Name, ok)
	}
	return ok, nil
}

// dataCase returns the case of choice ch holding data under parent.
func (vs *validator) dataCase(parent int32, ch *schema.Node) *schema.Node {
	t := vs.tree
	for c := t.first(parent); c != none; c = t.nodes[c].next {
		for x := t.nodes[c].schema; x.Parent != nil && x.Parent.IsSchemaOnly(); x = x.Parent {
			if x.Parent == ch {
				return x
			}
		}
	}
	return nil
}

func (vs *validator) activeCase(parent int32, ch *schema.Node) *schema.Node {
	if c := vs.dataCase(parent, ch); c != nil {
		return c
	}
	return ch.DefaultCaseNode()
}

func (vs *validator) addDefault(parent int32, sn *schema.Node, value string) int32 {
	t := vs.tree
	id := t.newChild(parent, sn, value)
	t.nodes[id].flags |= flagDefault
	t.index = nil
	if debug.Validate() {
		debug.Logf("default %s\n", t.path(id))
	}
	return id
}

// defaults materializes the defaults of nodes under parent.
func (vs *validator) defaults(parent int32, nodes []*schema.Node) error {
	t := vs.tree
	for _, sn := range nodes {
		if vs.skipped(sn) {
			continue
		}
		switch sn.Kind {
		case schema.ChoiceKind:
			cs := vs.activeCase(parent, sn)
			if cs == nil {
				continue
			}
			if err := vs.schemaOnlyDefaults(parent, sn, cs); err != nil {
				return err
			}
		case schema.LeafKind:
			if sn.Default == nil || t.childOf(parent, sn) != none {
				continue
			}
			ok, err := vs.whenHolds(sn, none, parent)
			if err != nil {
				return err
			}
			if ok {
				vs.addDefault(parent, sn, *sn.Default)
			}
		case schema.LeafListKind:
			if len(sn.Defaults) == 0 || t.childOf(parent, sn) != none {
				continue
			}
			ok, err := vs.whenHolds(sn, none, parent)
			if err != nil {
				return err
			}
			if ok {
				for _, d := range sn.Defaults {
					vs.addDefault(parent, sn, d)
				}
			}
		case schema.ContainerKind:
			if sn.Presence || t.childOf(parent, sn) != none {
				continue
			}
			ok, err := vs.whenHolds(sn, none, parent)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			id := vs.addDefault(parent, sn, "")
			if err := vs.defaults(id, sn.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

func (vs *validator) schemaOnlyDefaults(parent int32, ch, cs *schema.Node) error {
	for _, x := range []*schema.Node{ch, cs} {
		if vs.skipped(x) {
			return nil
		}
		ok, err := vs.whenHolds(x, none, parent)
		if err != nil || !ok {
			return err
		}
	}
	return vs.defaults(parent, cs.Children)
}

// childDefaults materializes defaults inside the explicit containers and
// list entries below parent.
func (vs *validator) childDefaults(parent int32) error {
	t := vs.tree
	for c := t.first(parent); c != none; c = t.nodes[c].next {
		sn := t.nodes[c].schema
		if sn.Kind != schema.ContainerKind && sn.Kind != schema.ListKind {
			continue
		}
		if !t.isDefault(c) {
			if err := vs.defaults(c, sn.Children); err != nil {
				return err
			}
		}
		if err := vs.childDefaults(c); err != nil {
			return err
		}
	}
	return nil
}

// check validates the children of parent and the subtrees below them.
func (vs *validator) check(parent int32) error {
	t := vs.tree
	seen := map[*schema.Node]bool{}
	entries := map[instanceKey]bool{}
	cases := map[*schema.Node]*schema.Node{}
	schemaOnly := map[*schema.Node]bool{}
	for c := t.first(parent); c != none; c = t.nodes[c].next {
		n := &t.nodes[c]
		sn := n.schema
		path := t.path(c)

		switch {
		case !sn.IsMulti():
			if seen[sn] {
				return errorf(ErrValidation, path, "duplicate instance of %s %s", sn.Kind, sn.Name)
			}
			seen[sn] = true
		case sn.Kind == schema.ListKind || sn.Config():
			k, _ := t.instanceKeyOf(c)
			ik := instanceKey{parent: parent, schema: sn, key: k}
			if entries[ik] {
				return errorf(ErrValidation, path, "duplicate %s entry", sn.Kind)
			}
			entries[ik] = true
		}

		for x := sn; x.Parent != nil && x.Parent.IsSchemaOnly(); x = x.Parent {
			if x.Parent.Kind != schema.ChoiceKind {
				continue
			}
			if other, ok := cases[x.Parent]; ok && other != x {
				return errorf(ErrValidation, path, "data from cases %s and %s of choice %s", other.Name, x.Name, x.Parent.Name)
			}
			cases[x.Parent] = x
		}

		if !t.ctx.Enabled(sn) {
			return errorf(ErrValidation, path, "%s %s depends on a disabled feature", sn.Kind, sn.Name)
		}
		if vs.flags.has(ValidateNoState) && !sn.Config() {
			return errorf(ErrValidation, path, "state data %s not allowed", sn.Name)
		}

		ok, err := vs.whenHolds(sn, c, parent)
		if err != nil {
			return err
		}
		if !ok {
			return errorf(ErrValidation, path, "when condition %q of %s is false", sn.When, sn.Name)
		}
		for x := sn.Parent; x != nil && x.IsSchemaOnly(); x = x.Parent {
			if x.When == nil || schemaOnly[x] {
				continue
			}
			ok, err := vs.whenHolds(x, none, parent)
			if err != nil {
				return err
			}
			if !ok {
				return errorf(ErrValidation, path, "when condition %q of %s %s is false", x.When, x.Kind, x.Name)
			}
			schemaOnly[x] = true
		}

		if err := vs.checkLeafref(c); err != nil {
			return err
		}

		if sn.Kind == schema.ContainerKind || sn.Kind == schema.ListKind {
			if err := vs.check(c); err != nil {
				return err
			}
			if err := vs.mandatory(c, sn.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

func (vs *validator) checkLeafref(id int32) error {
	t := vs.tree
	n := &t.nodes[id]
	ty := n.schema.Type
	if ty == nil || ty.Base != schema.LeafrefBase || ty.Ref == nil {
		return nil
	}
	targets, err := t.eval(id, ty.Ref, false)
	if err != nil {
		return wrapErr(ErrValidation, t.path(id), err)
	}
	for _, x := range targets {
		if t.nodes[x].value == n.value {
			return nil
		}
	}
	return errorf(ErrValidation, t.path(id), "no leafref target %s with value %q", ty.Path, n.value)
}

// mandatory checks mandatory nodes and element counts of nodes under
// parent.
func (vs *validator) mandatory(parent int32, nodes []*schema.Node) error {
	t := vs.tree
	for _, sn := range nodes {
		if vs.skipped(sn) {
			continue
		}
		switch sn.Kind {
		case schema.ChoiceKind:
			cs := vs.dataCase(parent, sn)
			if cs == nil {
				if sn.Mandatory {
					ok, err := vs.whenHolds(sn, none, parent)
					if err != nil {
						return err
					}
					if ok {
						return errorf(ErrValidation, vs.childPath(parent, sn), "mandatory choice %s has no data", sn.Name)
					}
				}
				continue
			}
			if vs.skipped(cs) {
				continue
			}
			if err := vs.mandatory(parent, cs.Children); err != nil {
				return err
			}
		case schema.LeafKind, schema.AnydataKind:
			if !sn.Mandatory || t.childOf(parent, sn) != none {
				continue
			}
			ok, err := vs.whenHolds(sn, none, parent)
			if err != nil {
				return err
			}
			if ok {
				return errorf(ErrValidation, vs.childPath(parent, sn), "missing mandatory %s %s", sn.Kind, sn.Name)
			}
		case schema.ListKind, schema.LeafListKind:
			n := len(t.instances(parent, sn))
			if sn.MaxElements > 0 && n > sn.MaxElements {
				return errorf(ErrValidation, vs.childPath(parent, sn), "%s %s has %d entries, at most %d allowed", sn.Kind, sn.Name, n, sn.MaxElements)
			}
			if n >= sn.MinElements {
				continue
			}
			if n == 0 {
				ok, err := vs.whenHolds(sn, none, parent)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
			}
			return errorf(ErrValidation, vs.childPath(parent, sn), "%s %s has %d entries, at least %d required", sn.Kind, sn.Name, n, sn.MinElements)
		}
	}
	return nil
}

// childPath renders the path a node of sn under parent would have.
func (vs *validator) childPath(parent int32, sn *schema.Node) string {
	t := vs.tree
	if parent == none {
		return "/" + sn.Module.Name + ":" + sn.Name
	}
	name := sn.Name
	if t.nodes[parent].schema.Module != sn.Module {
		name = sn.Module.Name + ":" + name
	}
	return t.path(parent) + "/" + name
}

// resolver resolves condition paths from a context node. A virtual context
// stands for a node not yet created under parent.
type resolver struct {
	tree    *Tree
	id      int32
	parent  int32
	virtual bool
	current string
}

func (r *resolver) Values(path string) ([]string, error) {
	t := r.tree
	p, err := ypath.Parse(path)
	if err != nil {
		return nil, wrapErr(ErrPath, path, err)
	}
	start := r.id
	if r.virtual && !p.Absolute {
		if len(p.Steps) == 0 {
			return nil, nil
		}
		st := p.Steps[0]
		if st.Axis != ypath.ChildAxis || !st.IsParent() || len(st.Predicates) != 0 {
			return nil, nil
		}
		start = r.parent
		p = &ypath.Path{Steps: p.Steps[1:]}
		if start == none && len(p.Steps) == 0 {
			return nil, nil
		}
	}
	ids, err := t.eval(start, p, false)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(ids))
	for i, id := range ids {
		sn := t.nodes[id].schema
		if sn.IsTerminal() || sn.Kind == schema.AnydataKind {
			res[i] = t.nodes[id].value
		}
	}
	return res, nil
}

func (r *resolver) Current() string {
	if r.virtual || r.id == none {
		return r.current
	}
	return r.tree.nodes[r.id].value
}
