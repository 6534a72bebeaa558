package data

import (
	"github.com/signadot/ydata/schema"
	"github.com/signadot/ydata/ypath"
)

// NewPath creates the nodes along the absolute path, or updates the value
// of the node it ends at. It returns the first node it created, zero when
// nothing was created.
//
// List steps need every key predicate and leaf-list steps take their value
// from a [.='v'] predicate before value. A key leaf keeps the value of its
// list predicate. Containers, lists and anydata ignore value.
func (t *Tree) NewPath(path string, value *string) (NodeRef, error) {
	if t.freed {
		return NodeRef{}, errorf(ErrStaleReference, "", "tree was freed")
	}
	p, err := ypath.Parse(path)
	if err != nil {
		return NodeRef{}, wrapErr(ErrPath, path, err)
	}
	if !p.Absolute || len(p.Steps) == 0 {
		return NodeRef{}, errorf(ErrPath, path, "path must be absolute")
	}
	np := &newPath{tree: t, path: path, created: none}
	parent := none
	for i, st := range p.Steps {
		if st.Axis != ypath.ChildAxis || st.IsWildcard() || st.IsSelf() || st.IsParent() {
			return NodeRef{}, errorf(ErrPath, path, "step %s cannot create a node", st)
		}
		sn, err := np.schemaOf(parent, st)
		if err != nil {
			return NodeRef{}, err
		}
		last := i == len(p.Steps)-1
		if !last && !(sn.Kind == schema.ContainerKind || sn.Kind == schema.ListKind) {
			return NodeRef{}, errorf(ErrPath, path, "%s %s has no children", sn.Kind, sn.Name)
		}
		var v *string
		if last {
			v = value
		}
		parent, err = np.step(parent, sn, st, v)
		if err != nil {
			if np.changed {
				t.mutated()
			}
			return NodeRef{}, err
		}
	}
	if np.changed {
		t.clearDefault(parent)
		t.mutated()
	}
	return t.ref(np.created), nil
}

type newPath struct {
	tree    *Tree
	path    string
	created int32
	changed bool
}

func (np *newPath) schemaOf(parent int32, st *ypath.Step) (*schema.Node, error) {
	t := np.tree
	var sn *schema.Node
	if parent == none {
		if st.Module == "" {
			return nil, errorf(ErrPath, np.path, "first step %s is not module qualified", st.Name)
		}
		mod := t.ctx.Module(st.Module)
		if mod == nil {
			return nil, errorf(ErrPath, np.path, "unknown module %s", st.Module)
		}
		sn = mod.Child(st.Name)
	} else {
		sn = t.nodes[parent].schema.DataChild(st.Module, st.Name)
	}
	if sn == nil {
		return nil, errorf(ErrPath, np.path, "no schema node for %s", st.QName())
	}
	return sn, nil
}

func (np *newPath) add(parent int32, sn *schema.Node, value string) int32 {
	id := np.tree.newChild(parent, sn, value)
	if np.created == none {
		np.created = id
	}
	np.changed = true
	return id
}

func (np *newPath) canonical(sn *schema.Node, v string) (string, error) {
	cv, err := sn.Type.Canonical(v)
	if err != nil {
		return "", wrapErr(ErrValidation, np.path, err)
	}
	return cv, nil
}

// step finds or creates the instance of sn under parent named by st.
func (np *newPath) step(parent int32, sn *schema.Node, st *ypath.Step, value *string) (int32, error) {
	t := np.tree
	switch sn.Kind {
	case schema.ContainerKind:
		if len(st.Predicates) != 0 {
			return none, errorf(ErrPath, np.path, "container %s takes no predicates", sn.Name)
		}
		if id := t.childOf(parent, sn); id != none {
			return id, nil
		}
		return np.add(parent, sn, ""), nil

	case schema.ListKind:
		kps, n := st.KeyPredicates()
		if n != len(st.Predicates) || len(kps) != len(sn.Keys) {
			return none, errorf(ErrPath, np.path, "list %s needs exactly its key predicates", sn.Name)
		}
		vs := make([]string, len(sn.Keys))
		for i, k := range sn.Keys {
			pv, ok := kps[k]
			if !ok {
				return none, errorf(ErrPath, np.path, "list %s has no key predicate %s", sn.Name, k)
			}
			v, err := np.canonical(sn.KeyNodes[i], pv)
			if err != nil {
				return none, err
			}
			vs[i] = v
		}
	entries:
		for _, id := range t.instances(parent, sn) {
			for i, kn := range sn.KeyNodes {
				c := t.childOf(id, kn)
				if c == none || t.nodes[c].value != vs[i] {
					continue entries
				}
			}
			return id, nil
		}
		id := np.add(parent, sn, "")
		for i, kn := range sn.KeyNodes {
			t.newChild(id, kn, vs[i])
		}
		return id, nil

	case schema.LeafKind:
		if len(st.Predicates) != 0 {
			return none, errorf(ErrPath, np.path, "leaf %s takes no predicates", sn.Name)
		}
		if sn.IsKey() {
			// the list step created the key leaf from its predicate
			if id := t.childOf(parent, sn); id != none {
				return id, nil
			}
		}
		raw := ""
		if value != nil {
			raw = *value
		}
		v, err := np.canonical(sn, raw)
		if err != nil {
			return none, err
		}
		id := t.childOf(parent, sn)
		if id == none {
			return np.add(parent, sn, v), nil
		}
		if t.nodes[id].value != v || t.isDefault(id) {
			t.nodes[id].value = v
			np.changed = true
		}
		return id, nil

	case schema.LeafListKind:
		var raw *string
		if len(st.Predicates) != 0 {
			p := st.Predicates[0]
			if len(st.Predicates) != 1 || p.Kind != ypath.ValuePredicate {
				return none, errorf(ErrPath, np.path, "leaf-list %s takes only a value predicate", sn.Name)
			}
			raw = &p.Value
		} else {
			raw = value
		}
		if raw == nil {
			return none, errorf(ErrPath, np.path, "leaf-list %s needs a value", sn.Name)
		}
		v, err := np.canonical(sn, *raw)
		if err != nil {
			return none, err
		}
		for _, id := range t.instances(parent, sn) {
			if t.nodes[id].value == v {
				if t.isDefault(id) {
					np.changed = true
				}
				return id, nil
			}
		}
		return np.add(parent, sn, v), nil

	case schema.AnydataKind:
		if len(st.Predicates) != 0 {
			return none, errorf(ErrPath, np.path, "anydata %s takes no predicates", sn.Name)
		}
		if id := t.childOf(parent, sn); id != none {
			return id, nil
		}
		return np.add(parent, sn, ""), nil
	}
	return none, errorf(ErrPath, np.path, "unexpected schema node kind %s", sn.Kind)
}
