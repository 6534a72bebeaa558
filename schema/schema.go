package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/ydata/eval"
)

type Kind int

const (
	ContainerKind Kind = iota
	ListKind
	LeafKind
	LeafListKind
	AnydataKind
	ChoiceKind
	CaseKind
)

var kindNames = map[Kind]string{
	ContainerKind: "container",
	ListKind:      "list",
	LeafKind:      "leaf",
	LeafListKind:  "leaf-list",
	AnydataKind:   "anydata",
	ChoiceKind:    "choice",
	CaseKind:      "case",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "<unknown kind>"
}

func ParseKind(v string) (Kind, error) {
	for k, s := range kindNames {
		if s == v {
			return k, nil
		}
	}
	if v == "anyxml" {
		return AnydataKind, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrSchema, v)
}

type Module struct {
	Name      string
	Namespace string
	Prefix    string
	Features  []string
	// Nodes are the top-level schema nodes, including choices.
	Nodes []*Node

	augments []*augmentDef
	ctx      *Context
}

// Context returns the context m was added to, if any.
func (m *Module) Context() *Context {
	return m.ctx
}

// Child returns the top-level data node name of m, looking through
// choices and cases.
func (m *Module) Child(name string) *Node {
	return findData(m.Nodes, "", name)
}

func (m *Module) HasFeature(f string) bool {
	return slices.Contains(m.Features, f)
}

func (m *Module) String() string {
	return m.Name
}

// Node is a schema node. Choice and case nodes are schema-only: they never
// have instances, their data descendants are placed under the closest data
// ancestor.
type Node struct {
	Name     string
	Kind     Kind
	Module   *Module
	Parent   *Node
	Children []*Node

	// Keys names the list keys in order; KeyNodes holds the key leaves.
	Keys     []string
	KeyNodes []*Node

	Type      *Type
	Mandatory bool
	// Default is the leaf default, or the default case name of a choice.
	Default  *string
	Defaults []string

	Presence      bool
	When          *eval.Condition
	IfFeature     string
	OrderedByUser bool
	MinElements   int
	// MaxElements of 0 is unbounded.
	MaxElements int

	config *bool
}

func (n *Node) String() string {
	return n.Path()
}

// Config reports whether n is configuration data; the setting is inherited.
func (n *Node) Config() bool {
	for x := n; x != nil; x = x.Parent {
		if x.config != nil {
			return *x.config
		}
	}
	return true
}

func (n *Node) IsSchemaOnly() bool {
	return n.Kind == ChoiceKind || n.Kind == CaseKind
}

// IsTerminal reports whether instances of n carry a typed value.
func (n *Node) IsTerminal() bool {
	return n.Kind == LeafKind || n.Kind == LeafListKind
}

// IsMulti reports whether n may have many instances under one parent.
func (n *Node) IsMulti() bool {
	return n.Kind == ListKind || n.Kind == LeafListKind
}

func (n *Node) IsNonPresenceContainer() bool {
	return n.Kind == ContainerKind && !n.Presence
}

// IsKey reports whether n is a key leaf of its list.
func (n *Node) IsKey() bool {
	p := n.Parent
	return n.Kind == LeafKind && p != nil && p.Kind == ListKind && slices.Contains(p.KeyNodes, n)
}

// DataParent returns the closest data ancestor of n, nil at top level.
func (n *Node) DataParent() *Node {
	for x := n.Parent; x != nil; x = x.Parent {
		if !x.IsSchemaOnly() {
			return x
		}
	}
	return nil
}

// Case returns the closest case above n and below its data parent.
func (n *Node) Case() *Node {
	for x := n.Parent; x != nil && x.IsSchemaOnly(); x = x.Parent {
		if x.Kind == CaseKind {
			return x
		}
	}
	return nil
}

// Choice returns the closest choice above n and below its data parent.
func (n *Node) Choice() *Node {
	for x := n.Parent; x != nil && x.IsSchemaOnly(); x = x.Parent {
		if x.Kind == ChoiceKind {
			return x
		}
	}
	return nil
}

// DefaultCaseNode returns the default case of choice n.
func (n *Node) DefaultCaseNode() *Node {
	if n.Kind != ChoiceKind || n.Default == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == *n.Default {
			return c
		}
	}
	return nil
}

// DataChildren returns the data children of n in schema order, looking
// through choices and cases.
func (n *Node) DataChildren() []*Node {
	return appendData(nil, n.Children)
}

func appendData(dst, nodes []*Node) []*Node {
	for _, c := range nodes {
		if c.IsSchemaOnly() {
			dst = appendData(dst, c.Children)
			continue
		}
		dst = append(dst, c)
	}
	return dst
}

// DataChild returns the data child of n named name. An empty module matches
// any module.
func (n *Node) DataChild(module, name string) *Node {
	return findData(n.Children, module, name)
}

func findData(nodes []*Node, module, name string) *Node {
	for _, c := range nodes {
		if c.IsSchemaOnly() {
			if x := findData(c.Children, module, name); x != nil {
				return x
			}
			continue
		}
		if c.Name == name && (module == "" || c.Module.Name == module) {
			return c
		}
	}
	return nil
}

// TopModule returns the module of the top-level ancestor of n, which
// differs from n.Module for augmented nodes.
func (n *Node) TopModule() *Module {
	x := n
	for x.Parent != nil {
		x = x.Parent
	}
	return x.Module
}

// Path returns the schema path of n, with a module prefix on the first step
// and wherever the module changes.
func (n *Node) Path() string {
	var steps []string
	var prev *Node
	for x := n; x != nil; x = x.DataParent() {
		if x.IsSchemaOnly() {
			continue
		}
		steps = append(steps, x.Name)
		if prev != nil && prev.Module != x.Module {
			steps[len(steps)-2] = prev.Module.Name + ":" + steps[len(steps)-2]
		}
		prev = x
	}
	if prev == nil {
		return "/"
	}
	steps[len(steps)-1] = prev.Module.Name + ":" + steps[len(steps)-1]
	slices.Reverse(steps)
	return "/" + strings.Join(steps, "/")
}

// Walk calls f on n and every schema node below it in pre-order.
func (n *Node) Walk(f func(*Node) bool) bool {
	if !f(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(f) {
			return false
		}
	}
	return true
}
