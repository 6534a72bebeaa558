package schema

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/signadot/ydata/eval"
)

type moduleDef struct {
	Module    string        `yaml:"module"`
	Namespace string        `yaml:"namespace"`
	Prefix    string        `yaml:"prefix"`
	Features  []string      `yaml:"features"`
	Nodes     []*nodeDef    `yaml:"nodes"`
	Augments  []*augmentDef `yaml:"augments"`
}

type augmentDef struct {
	Target string     `yaml:"target"`
	Nodes  []*nodeDef `yaml:"nodes"`
}

type nodeDef struct {
	Name           string     `yaml:"name"`
	Kind           string     `yaml:"kind"`
	Type           string     `yaml:"type"`
	Range          string     `yaml:"range"`
	Length         string     `yaml:"length"`
	Pattern        []string   `yaml:"pattern"`
	Enum           []string   `yaml:"enum"`
	FractionDigits int        `yaml:"fraction-digits"`
	Path           string     `yaml:"path"`
	Key            string     `yaml:"key"`
	Mandatory      bool       `yaml:"mandatory"`
	Default        *string    `yaml:"default"`
	Defaults       []string   `yaml:"defaults"`
	Config         *bool      `yaml:"config"`
	Presence       bool       `yaml:"presence"`
	When           string     `yaml:"when"`
	IfFeature      string     `yaml:"if-feature"`
	OrderedBy      string     `yaml:"ordered-by"`
	MinElements    int        `yaml:"min-elements"`
	MaxElements    int        `yaml:"max-elements"`
	Children       []*nodeDef `yaml:"children"`
}

// Load builds a module from its YAML description. Augments are applied when
// the module is added to a Context.
func Load(d []byte) (*Module, error) {
	def := &moduleDef{}
	if err := yaml.UnmarshalWithOptions(d, def, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if def.Module == "" {
		return nil, fmt.Errorf("%w: missing module name", ErrSchema)
	}
	m := &Module{
		Name:      def.Module,
		Namespace: def.Namespace,
		Prefix:    def.Prefix,
		Features:  def.Features,
		augments:  def.Augments,
	}
	if m.Namespace == "" {
		m.Namespace = "urn:ydata:" + m.Name
	}
	if m.Prefix == "" {
		m.Prefix = m.Name
	}
	nodes, err := buildNodes(def.Nodes, m, nil)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", m.Name, err)
	}
	m.Nodes = nodes
	return m, nil
}

func LoadFile(path string) (*Module, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Load(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func buildNodes(defs []*nodeDef, m *Module, parent *Node) ([]*Node, error) {
	res := make([]*Node, 0, len(defs))
	for _, def := range defs {
		n, err := build(def, m, parent)
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, nil
}

func build(def *nodeDef, m *Module, parent *Node) (*Node, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: node without name under %v", ErrSchema, parent)
	}
	kind, err := ParseKind(def.Kind)
	if err != nil {
		return nil, err
	}
	n := &Node{
		Name:          def.Name,
		Kind:          kind,
		Module:        m,
		Parent:        parent,
		Mandatory:     def.Mandatory,
		Default:       def.Default,
		Defaults:      def.Defaults,
		Presence:      def.Presence,
		IfFeature:     def.IfFeature,
		OrderedByUser: def.OrderedBy == "user",
		MinElements:   def.MinElements,
		MaxElements:   def.MaxElements,
		config:        def.Config,
	}
	switch def.OrderedBy {
	case "", "user", "system":
	default:
		return nil, fmt.Errorf("%w: %s: bad ordered-by %q", ErrSchema, n, def.OrderedBy)
	}
	if def.When != "" {
		if n.When, err = eval.Compile(def.When); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSchema, n, err)
		}
	}
	switch kind {
	case LeafKind, LeafListKind:
		if len(def.Children) != 0 {
			return nil, fmt.Errorf("%w: %s %s has children", ErrSchema, kind, n)
		}
		if n.Type, err = newType(def); err != nil {
			return nil, fmt.Errorf("%s: %w", n, err)
		}
		if err := n.checkDefaults(); err != nil {
			return nil, err
		}
		return n, nil
	case AnydataKind:
		return n, nil
	}
	if def.Type != "" {
		return nil, fmt.Errorf("%w: %s %s has a type", ErrSchema, kind, n)
	}
	if n.Children, err = buildChoiceOrData(def, m, n); err != nil {
		return nil, err
	}
	if kind == ChoiceKind {
		if err := n.checkDefaultCase(); err != nil {
			return nil, err
		}
	}
	if kind == ListKind {
		if err := n.bindKeys(def.Key); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// buildChoiceOrData builds the children of n, wrapping the shorthand data
// children of a choice in implicit cases.
func buildChoiceOrData(def *nodeDef, m *Module, n *Node) ([]*Node, error) {
	if n.Kind != ChoiceKind {
		return buildNodes(def.Children, m, n)
	}
	res := make([]*Node, 0, len(def.Children))
	for _, cd := range def.Children {
		if cd.Kind != "case" {
			cd = &nodeDef{Name: cd.Name, Kind: "case", Children: []*nodeDef{cd}}
		}
		c, err := build(cd, m, n)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

func (n *Node) bindKeys(key string) error {
	n.Keys = strings.Fields(key)
	if len(n.Keys) == 0 {
		return fmt.Errorf("%w: list %s has no key", ErrSchema, n)
	}
	for _, k := range n.Keys {
		var kn *Node
		for _, c := range n.Children {
			if c.Name == k && c.Kind == LeafKind {
				kn = c
				break
			}
		}
		if kn == nil {
			return fmt.Errorf("%w: list %s: key %q is not a child leaf", ErrSchema, n, k)
		}
		if kn.Type.Base == EmptyBase {
			return fmt.Errorf("%w: list %s: key %q has type empty", ErrSchema, n, k)
		}
		if kn.When != nil || kn.IfFeature != "" || kn.Default != nil {
			return fmt.Errorf("%w: list %s: key %q cannot have when, if-feature or default", ErrSchema, n, k)
		}
		n.KeyNodes = append(n.KeyNodes, kn)
	}
	return nil
}

func (n *Node) checkDefaults() error {
	if n.Kind == LeafKind && len(n.Defaults) != 0 {
		return fmt.Errorf("%w: leaf %s uses defaults, not default", ErrSchema, n)
	}
	if n.Kind == LeafListKind && n.Default != nil {
		return fmt.Errorf("%w: leaf-list %s uses defaults, not default", ErrSchema, n)
	}
	if n.Type.Base == LeafrefBase {
		// checked once the target is resolved
		return nil
	}
	return n.canonicalDefaults()
}

func (n *Node) canonicalDefaults() error {
	vs := n.DefaultValues()
	for i, v := range vs {
		c, err := n.Type.Canonical(v)
		if err != nil {
			return fmt.Errorf("%w: %s: bad default: %w", ErrSchema, n, err)
		}
		vs[i] = c
	}
	if n.Default != nil {
		n.Default = &vs[0]
	}
	if hasDup(vs) {
		return fmt.Errorf("%w: %s: duplicate defaults", ErrSchema, n)
	}
	return nil
}

func (n *Node) checkDefaultCase() error {
	if n.Default == nil {
		return nil
	}
	if n.DefaultCaseNode() == nil {
		return fmt.Errorf("%w: choice %s: no default case %q", ErrSchema, n, *n.Default)
	}
	if n.Mandatory {
		return fmt.Errorf("%w: choice %s is mandatory and has a default", ErrSchema, n)
	}
	return nil
}

// DefaultValues returns the canonical default values of leaf or leaf-list n.
func (n *Node) DefaultValues() []string {
	if n.Kind == LeafKind && n.Default != nil {
		return []string{*n.Default}
	}
	return n.Defaults
}

func hasDup(vs []string) bool {
	c := slices.Clone(vs)
	slices.Sort(c)
	return len(slices.Compact(c)) != len(vs)
}
