package ypath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var ErrSyntax = errors.New("path syntax error")

type Axis int

const (
	ChildAxis Axis = iota
	// DescendantAxis marks a step introduced by "//".
	DescendantAxis
)

type PredicateKind int

const (
	// KeyPredicate is [name='value'].
	KeyPredicate PredicateKind = iota
	// ValuePredicate is [.='value'].
	ValuePredicate
	// PosPredicate is [n].
	PosPredicate
)

type Predicate struct {
	Kind   PredicateKind
	Module string
	Name   string
	Value  string
	Pos    int
}

type Step struct {
	Axis       Axis
	Module     string
	Name       string
	Predicates []Predicate
}

// Path is a parsed path expression.
type Path struct {
	Absolute bool
	Steps    []*Step
}

const (
	Wildcard = "*"
	Self     = "."
	Up       = ".."
)

func (s *Step) IsWildcard() bool { return s.Name == Wildcard }
func (s *Step) IsSelf() bool     { return s.Name == Self }
func (s *Step) IsParent() bool   { return s.Name == Up }

// QName returns the step's node identifier as written.
func (s *Step) QName() string {
	if s.Module == "" {
		return s.Name
	}
	return s.Module + ":" + s.Name
}

// KeyPredicates returns the leading key predicates of s mapped by name,
// and the number of predicates consumed.  A repeated name ends the run.
func (s *Step) KeyPredicates() (map[string]string, int) {
	var res map[string]string
	n := 0
	for _, p := range s.Predicates {
		if p.Kind != KeyPredicate {
			break
		}
		if _, dup := res[p.Name]; dup {
			break
		}
		if res == nil {
			res = map[string]string{}
		}
		res[p.Name] = p.Value
		n++
	}
	return res, n
}

func (p Predicate) String() string {
	switch p.Kind {
	case PosPredicate:
		return "[" + strconv.Itoa(p.Pos) + "]"
	case ValuePredicate:
		return "[.=" + Quote(p.Value) + "]"
	default:
		name := p.Name
		if p.Module != "" {
			name = p.Module + ":" + name
		}
		return "[" + name + "=" + Quote(p.Value) + "]"
	}
}

func (s *Step) String() string {
	buf := strings.Builder{}
	buf.WriteString(s.QName())
	for _, p := range s.Predicates {
		buf.WriteString(p.String())
	}
	return buf.String()
}

func (p *Path) String() string {
	if p == nil {
		return ""
	}
	buf := strings.Builder{}
	for i, s := range p.Steps {
		switch {
		case s.Axis == DescendantAxis:
			buf.WriteString("//")
		case i > 0 || p.Absolute:
			buf.WriteByte('/')
		}
		buf.WriteString(s.String())
	}
	return buf.String()
}

// Quote quotes v with single quotes, or double quotes when v contains a
// single quote.
func Quote(v string) string {
	if strings.IndexByte(v, '\'') == -1 {
		return "'" + v + "'"
	}
	return "\"" + v + "\""
}

func MustParse(s string) *Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses a path expression.
func Parse(s string) (*Path, error) {
	ps := &parser{src: s}
	p, err := ps.path()
	if err != nil {
		return nil, err
	}
	return p, nil
}

type parser struct {
	src string
	pos int
}

func (ps *parser) errf(msg string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrSyntax, fmt.Sprintf(msg, args...), ps.pos, ps.src)
}

func (ps *parser) peek() byte {
	if ps.pos >= len(ps.src) {
		return 0
	}
	return ps.src[ps.pos]
}

func (ps *parser) path() (*Path, error) {
	if strings.TrimSpace(ps.src) == "" {
		return nil, ps.errf("empty path")
	}
	res := &Path{}
	axis := ChildAxis
	if ps.peek() == '/' {
		res.Absolute = true
		ps.pos++
		if ps.peek() == '/' {
			axis = DescendantAxis
			ps.pos++
		}
	}
	for {
		step, err := ps.step(axis)
		if err != nil {
			return nil, err
		}
		res.Steps = append(res.Steps, step)
		if ps.pos == len(ps.src) {
			return res, nil
		}
		if ps.peek() != '/' {
			return nil, ps.errf("expected '/', got %q", ps.peek())
		}
		ps.pos++
		axis = ChildAxis
		if ps.peek() == '/' {
			axis = DescendantAxis
			ps.pos++
		}
		if ps.pos == len(ps.src) {
			return nil, ps.errf("trailing '/'")
		}
	}
}

func (ps *parser) step(axis Axis) (*Step, error) {
	start := ps.pos
	for ps.pos < len(ps.src) && ps.src[ps.pos] != '/' && ps.src[ps.pos] != '[' {
		ps.pos++
	}
	ident := ps.src[start:ps.pos]
	step := &Step{Axis: axis}
	switch ident {
	case "":
		return nil, ps.errf("expected node identifier")
	case Self, Up:
		step.Name = ident
	default:
		mod, name, err := ps.nodeID(ident, true)
		if err != nil {
			return nil, err
		}
		step.Module, step.Name = mod, name
	}
	for ps.peek() == '[' {
		pred, err := ps.predicate()
		if err != nil {
			return nil, err
		}
		step.Predicates = append(step.Predicates, pred)
	}
	if (step.IsSelf() || step.IsParent()) && len(step.Predicates) != 0 {
		return nil, ps.errf("predicates not allowed on %q", step.Name)
	}
	return step, nil
}

func (ps *parser) nodeID(ident string, allowWildcard bool) (string, string, error) {
	mod, name, qualified := strings.Cut(ident, ":")
	if !qualified {
		mod, name = "", ident
	} else if err := ps.checkIdentifier(mod); err != nil {
		return "", "", err
	}
	if name == Wildcard && allowWildcard {
		return mod, name, nil
	}
	if err := ps.checkIdentifier(name); err != nil {
		return "", "", err
	}
	return mod, name, nil
}

// identifier = (ALPHA / "_") *(ALPHA / DIGIT / "_" / "-" / ".")
func (ps *parser) checkIdentifier(s string) error {
	if s == "" {
		return ps.errf("empty identifier")
	}
	for i, r := range s {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return ps.errf("invalid identifier %q", s)
			}
			continue
		}
		if r != '_' && r != '-' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return ps.errf("invalid identifier %q", s)
		}
	}
	return nil
}

// predicate = "[" *WSP (predicate-expr / pos) *WSP "]"
func (ps *parser) predicate() (Predicate, error) {
	ps.pos++
	start := ps.pos
	var quote byte
	for ; ps.pos < len(ps.src); ps.pos++ {
		c := ps.src[ps.pos]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			continue
		case c == '\'' || c == '"':
			quote = c
			continue
		case c == '[':
			return Predicate{}, ps.errf("nested predicates are not allowed")
		}
		if c == ']' {
			break
		}
	}
	if quote != 0 {
		return Predicate{}, ps.errf("unterminated quote")
	}
	if ps.pos >= len(ps.src) {
		return Predicate{}, ps.errf("unterminated predicate")
	}
	body := strings.TrimSpace(ps.src[start:ps.pos])
	ps.pos++
	if body == "" {
		return Predicate{}, ps.errf("empty predicate")
	}
	if n, err := strconv.Atoi(body); err == nil {
		if n < 1 {
			return Predicate{}, ps.errf("position must be positive, got %d", n)
		}
		return Predicate{Kind: PosPredicate, Pos: n}, nil
	}
	lhs, rhs, ok := strings.Cut(body, "=")
	if !ok {
		return Predicate{}, ps.errf("invalid predicate expression %q", body)
	}
	lhs, rhs = strings.TrimSpace(lhs), strings.TrimSpace(rhs)
	if len(rhs) < 2 || (rhs[0] != '\'' && rhs[0] != '"') || rhs[len(rhs)-1] != rhs[0] {
		return Predicate{}, ps.errf("expected quoted value, got %q", rhs)
	}
	val := rhs[1 : len(rhs)-1]
	if strings.IndexByte(val, rhs[0]) != -1 {
		return Predicate{}, ps.errf("unterminated expression value %q", rhs)
	}
	if lhs == Self {
		return Predicate{Kind: ValuePredicate, Value: val}, nil
	}
	mod, name, err := ps.nodeID(lhs, false)
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{Kind: KeyPredicate, Module: mod, Name: name, Value: val}, nil
}
