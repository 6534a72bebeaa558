package ir

// Attr is a metadata annotation carried by a node on the wire: a JSON
// "@" member entry or an XML attribute.
type Attr struct {
	Module    string
	Namespace string
	Name      string
	Value     string
}

type Node struct {
	Type      Type
	Module    string
	Namespace string
	Name      string
	Parent    *Node
	Children  []*Node

	// String holds the text of scalar nodes.
	String string
	// Array marks members of a JSON array (list entries, leaf-list entries).
	Array bool
	Attrs []Attr
}

func NewObject(module, name string, children ...*Node) *Node {
	res := &Node{Type: ObjectType, Module: module, Name: name}
	for _, c := range children {
		res.Append(c)
	}
	return res
}

func NewScalar(t Type, module, name, v string) *Node {
	return &Node{Type: t, Module: module, Name: name, String: v}
}

func FromString(module, name, v string) *Node {
	return NewScalar(StringType, module, name, v)
}

func (y *Node) WithArray(v bool) *Node {
	y.Array = v
	return y
}

func (y *Node) WithAttr(a Attr) *Node {
	y.Attrs = append(y.Attrs, a)
	return y
}

func (y *Node) Append(c *Node) {
	c.Parent = y
	if y.Type != ObjectType {
		y.Type = ObjectType
	}
	y.Children = append(y.Children, c)
}

// QName returns the name of y, prefixed with its module when the module
// differs from the parent's.
func (y *Node) QName() string {
	if y.Module == "" {
		return y.Name
	}
	if y.Parent != nil && y.Parent.EffectiveModule() == y.Module {
		return y.Name
	}
	return y.Module + ":" + y.Name
}

// EffectiveModule returns the module of y, inherited from the closest
// ancestor when y does not name one.
func (y *Node) EffectiveModule() string {
	for x := y; x != nil; x = x.Parent {
		if x.Module != "" {
			return x.Module
		}
	}
	return ""
}

// EffectiveNamespace is EffectiveModule for XML namespaces.
func (y *Node) EffectiveNamespace() string {
	for x := y; x != nil; x = x.Parent {
		if x.Namespace != "" {
			return x.Namespace
		}
	}
	return ""
}

// Clone deep-copies y. The copy keeps the parent of y; its descendants
// point into the copy.
func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.Module = y.Module
	dst.Namespace = y.Namespace
	dst.Name = y.Name
	dst.Parent = y.Parent
	dst.String = y.String
	dst.Array = y.Array
	if y.Attrs != nil {
		dst.Attrs = append([]Attr(nil), y.Attrs...)
	}
	if y.Children == nil {
		return dst
	}
	dst.Children = make([]*Node, len(y.Children))
	for i, yc := range y.Children {
		dstI := &Node{}
		yc.CloneTo(dstI)
		dstI.Parent = dst
		dst.Children[i] = dstI
	}
	return dst
}

// Path returns a slash separated path of qualified names from the root
// element down to y, suitable for error messages.
func (y *Node) Path() string {
	if y.Parent == nil {
		return "/" + y.QName()
	}
	return y.Parent.Path() + "/" + y.QName()
}
