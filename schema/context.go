package schema

import (
	"fmt"
	"strings"

	"github.com/signadot/ydata/ypath"
)

// Context is a set of modules and the features enabled in them.
type Context struct {
	modules  []*Module
	byName   map[string]*Module
	byNS     map[string]*Module
	features map[string]bool
}

func NewContext(mods ...*Module) (*Context, error) {
	c := &Context{
		byName:   map[string]*Module{},
		byNS:     map[string]*Module{},
		features: map[string]bool{},
	}
	for _, m := range mods {
		if err := c.Add(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add adds m to c, applies its augments and resolves its leafrefs. Modules
// augmenting or referring to other modules must be added after them.
func (c *Context) Add(m *Module) error {
	if m.ctx != nil {
		return fmt.Errorf("%w: module %s already in a context", ErrSchema, m.Name)
	}
	if c.byName[m.Name] != nil {
		return fmt.Errorf("%w: duplicate module %s", ErrSchema, m.Name)
	}
	if c.byNS[m.Namespace] != nil {
		return fmt.Errorf("%w: duplicate namespace %s", ErrSchema, m.Namespace)
	}
	m.ctx = c
	c.modules = append(c.modules, m)
	c.byName[m.Name] = m
	c.byNS[m.Namespace] = m
	for _, a := range m.augments {
		if err := c.augment(m, a); err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
	}
	m.augments = nil
	return c.resolveLeafrefs(m)
}

// Load loads a module description and adds it to c.
func (c *Context) Load(d []byte) (*Module, error) {
	m, err := Load(d)
	if err != nil {
		return nil, err
	}
	return m, c.Add(m)
}

func (c *Context) LoadFile(path string) (*Module, error) {
	m, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := c.Add(m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (c *Context) Module(name string) *Module {
	return c.byName[name]
}

func (c *Context) ModuleByNamespace(ns string) *Module {
	return c.byNS[ns]
}

// Modules returns the modules of c in the order they were added.
func (c *Context) Modules() []*Module {
	return c.modules
}

func (c *Context) EnableFeature(module, feature string) error {
	m := c.byName[module]
	if m == nil {
		return fmt.Errorf("%w: unknown module %s", ErrSchema, module)
	}
	if !m.HasFeature(feature) {
		return fmt.Errorf("%w: module %s has no feature %s", ErrSchema, module, feature)
	}
	c.features[module+":"+feature] = true
	return nil
}

func (c *Context) FeatureEnabled(module, feature string) bool {
	return c.features[module+":"+feature]
}

// Enabled reports whether the if-feature statements of n and of the choices
// and cases between n and its data parent are satisfied.
func (c *Context) Enabled(n *Node) bool {
	for x := n; x != nil; x = x.Parent {
		if x != n && !x.IsSchemaOnly() {
			break
		}
		if x.IfFeature != "" {
			mod, f, ok := strings.Cut(x.IfFeature, ":")
			if !ok {
				mod, f = x.Module.Name, x.IfFeature
			}
			if !c.FeatureEnabled(mod, f) {
				return false
			}
		}
	}
	return true
}

// Find resolves an absolute schema path; predicates are ignored.
func (c *Context) Find(path string) (*Node, error) {
	p, err := ypath.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if !p.Absolute {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrSchema, path)
	}
	return c.walk(nil, p)
}

func (c *Context) walk(from *Node, p *ypath.Path) (*Node, error) {
	cur := from
	for i := range p.Steps {
		st := p.Steps[i]
		switch {
		case st.Axis != ypath.ChildAxis || st.IsWildcard():
			return nil, fmt.Errorf("%w: unsupported step %s in %s", ErrSchema, st, p)
		case st.IsSelf():
			continue
		case st.IsParent():
			if cur == nil {
				return nil, fmt.Errorf("%w: %s goes above top level", ErrSchema, p)
			}
			cur = cur.DataParent()
			continue
		}
		var next *Node
		if cur == nil {
			m := c.byName[st.Module]
			if m == nil {
				return nil, fmt.Errorf("%w: unknown module %q in %s", ErrSchema, st.Module, p)
			}
			next = m.Child(st.Name)
		} else {
			next = cur.DataChild(st.Module, st.Name)
		}
		if next == nil {
			return nil, fmt.Errorf("%w: no node %s in %s", ErrSchema, st.QName(), p)
		}
		cur = next
	}
	if cur == nil {
		return nil, fmt.Errorf("%w: empty path %s", ErrSchema, p)
	}
	return cur, nil
}

func (c *Context) augment(m *Module, a *augmentDef) error {
	target, err := c.Find(a.Target)
	if err != nil {
		return fmt.Errorf("augment %s: %w", a.Target, err)
	}
	switch target.Kind {
	case ContainerKind, ListKind, ChoiceKind, CaseKind:
	default:
		return fmt.Errorf("%w: augment target %s is a %s", ErrSchema, a.Target, target.Kind)
	}
	def := &nodeDef{Name: target.Name, Kind: target.Kind.String(), Children: a.Nodes}
	holder := &Node{Kind: target.Kind, Module: m, Parent: target.Parent}
	nodes, err := buildChoiceOrData(def, m, holder)
	if err != nil {
		return fmt.Errorf("augment %s: %w", a.Target, err)
	}
	for _, n := range nodes {
		if !n.IsSchemaOnly() && target.DataChild(n.Module.Name, n.Name) != nil {
			return fmt.Errorf("%w: augment %s: %s already exists", ErrSchema, a.Target, n.Name)
		}
		n.Parent = target
		target.Children = append(target.Children, n)
	}
	return nil
}

func (c *Context) resolveLeafrefs(m *Module) error {
	var err error
	visit := func(n *Node) bool {
		if n.Module != m || n.Type == nil || n.Type.Base != LeafrefBase || n.Type.Target != nil {
			return true
		}
		if err = c.resolveLeafref(n, m); err != nil {
			return false
		}
		return true
	}
	for _, mod := range c.modules {
		for _, n := range mod.Nodes {
			if !n.Walk(visit) {
				return err
			}
		}
	}
	return nil
}

func (c *Context) resolveLeafref(n *Node, m *Module) error {
	p, err := ypath.Parse(n.Type.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: leafref: %w", ErrSchema, n, err)
	}
	if p.Absolute && len(p.Steps) != 0 && p.Steps[0].Module == "" {
		p.Steps[0].Module = n.Module.Name
	}
	from := n
	if p.Absolute {
		from = nil
	}
	t, err := c.walk(from, p)
	if err != nil {
		return fmt.Errorf("%s: leafref: %w", n, err)
	}
	if !t.IsTerminal() {
		return fmt.Errorf("%w: %s: leafref target %s is a %s", ErrSchema, n, t, t.Kind)
	}
	n.Type.Target = t
	n.Type.Ref = p
	if t.Type.Base == LeafrefBase && t.Type.Target == nil && t.Module == m {
		if err := c.resolveLeafref(t, m); err != nil {
			return err
		}
	}
	if n.Type.Resolved().Base == LeafrefBase {
		return fmt.Errorf("%w: %s: leafref cycle", ErrSchema, n)
	}
	return n.canonicalDefaults()
}
