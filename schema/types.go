package schema

import (
	"fmt"
	"math/big"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/signadot/ydata/ir"
	"github.com/signadot/ydata/ypath"
)

type Base int

const (
	StringBase Base = iota
	Int8Base
	Int16Base
	Int32Base
	Int64Base
	Uint8Base
	Uint16Base
	Uint32Base
	Uint64Base
	BoolBase
	Decimal64Base
	EnumBase
	EmptyBase
	LeafrefBase
)

var baseNames = map[Base]string{
	StringBase:    "string",
	Int8Base:      "int8",
	Int16Base:     "int16",
	Int32Base:     "int32",
	Int64Base:     "int64",
	Uint8Base:     "uint8",
	Uint16Base:    "uint16",
	Uint32Base:    "uint32",
	Uint64Base:    "uint64",
	BoolBase:      "boolean",
	Decimal64Base: "decimal64",
	EnumBase:      "enumeration",
	EmptyBase:     "empty",
	LeafrefBase:   "leafref",
}

func (b Base) String() string {
	if s, ok := baseNames[b]; ok {
		return s
	}
	return "<unknown base>"
}

func ParseBase(v string) (Base, error) {
	for b, s := range baseNames {
		if s == v {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown type %q", ErrSchema, v)
}

func (b Base) isSigned() bool {
	return b >= Int8Base && b <= Int64Base
}

func (b Base) isUnsigned() bool {
	return b >= Uint8Base && b <= Uint64Base
}

func (b Base) bits() int {
	switch b {
	case Int8Base, Uint8Base:
		return 8
	case Int16Base, Uint16Base:
		return 16
	case Int32Base, Uint32Base:
		return 32
	}
	return 64
}

// Range is an inclusive interval; a nil bound is unbounded.
type Range struct {
	Min, Max *big.Rat
}

func (r Range) contains(v *big.Rat) bool {
	if r.Min != nil && v.Cmp(r.Min) < 0 {
		return false
	}
	if r.Max != nil && v.Cmp(r.Max) > 0 {
		return false
	}
	return true
}

// Type describes the value space of a leaf or leaf-list.
type Type struct {
	Base           Base
	Ranges         []Range
	Lengths        []Range
	Patterns       []*regexp.Regexp
	Enums          []string
	FractionDigits int
	// Path is the leafref path, Ref its parsed form and Target the node it
	// resolves to.
	Path   string
	Ref    *ypath.Path
	Target *Node

	rangeSrc, lengthSrc string
}

func (t *Type) String() string {
	switch {
	case t.Base == LeafrefBase:
		return "leafref(" + t.Path + ")"
	case t.rangeSrc != "":
		return t.Base.String() + "{" + t.rangeSrc + "}"
	case t.lengthSrc != "":
		return t.Base.String() + "{length " + t.lengthSrc + "}"
	}
	return t.Base.String()
}

// Resolved returns the type values are checked against: the target type
// for leafrefs.
func (t *Type) Resolved() *Type {
	x := t
	for i := 0; x.Base == LeafrefBase && x.Target != nil && i < 16; i++ {
		x = x.Target.Type
	}
	return x
}

// IRType returns the RFC 7951 JSON representation kind of values of t.
func (t *Type) IRType() ir.Type {
	switch x := t.Resolved(); x.Base {
	case Int8Base, Int16Base, Int32Base, Uint8Base, Uint16Base, Uint32Base:
		return ir.NumberType
	case BoolBase:
		return ir.BoolType
	case EmptyBase:
		return ir.NullType
	}
	return ir.StringType
}

// Canonical checks v against t and returns its canonical form.
func (t *Type) Canonical(v string) (string, error) {
	x := t.Resolved()
	switch {
	case x.Base == StringBase:
		return v, x.checkString(v)
	case x.Base.isSigned():
		i, err := strconv.ParseInt(v, 10, x.Base.bits())
		if err != nil {
			return "", x.errf(v, "not a valid %s", x.Base)
		}
		return strconv.FormatInt(i, 10), x.checkRange(v, new(big.Rat).SetInt64(i))
	case x.Base.isUnsigned():
		u, err := strconv.ParseUint(strings.TrimPrefix(v, "+"), 10, x.Base.bits())
		if err != nil {
			return "", x.errf(v, "not a valid %s", x.Base)
		}
		r := new(big.Rat).SetFrac(new(big.Int).SetUint64(u), big.NewInt(1))
		return strconv.FormatUint(u, 10), x.checkRange(v, r)
	case x.Base == BoolBase:
		if v != "true" && v != "false" {
			return "", x.errf(v, "not a valid boolean")
		}
		return v, nil
	case x.Base == Decimal64Base:
		c, err := x.canonicalDecimal(v)
		if err != nil {
			return "", err
		}
		r, _ := new(big.Rat).SetString(c)
		return c, x.checkRange(v, r)
	case x.Base == EnumBase:
		if !slices.Contains(x.Enums, v) {
			return "", x.errf(v, "not one of %v", x.Enums)
		}
		return v, nil
	case x.Base == EmptyBase:
		if v != "" {
			return "", x.errf(v, "empty type takes no value")
		}
		return "", nil
	}
	// unresolved leafref
	return v, nil
}

func (t *Type) errf(v, msg string, args ...any) error {
	return fmt.Errorf("%w: invalid value %q: %s", ErrType, v, fmt.Sprintf(msg, args...))
}

func (t *Type) checkString(v string) error {
	if len(t.Lengths) != 0 {
		n := new(big.Rat).SetInt64(int64(utf8.RuneCountInString(v)))
		ok := false
		for _, r := range t.Lengths {
			if r.contains(n) {
				ok = true
				break
			}
		}
		if !ok {
			return t.errf(v, "length not in %s", t.lengthSrc)
		}
	}
	for _, p := range t.Patterns {
		if !p.MatchString(v) {
			return t.errf(v, "does not match pattern %q", p.String())
		}
	}
	return nil
}

func (t *Type) checkRange(v string, r *big.Rat) error {
	if len(t.Ranges) == 0 {
		return nil
	}
	for _, rg := range t.Ranges {
		if rg.contains(r) {
			return nil
		}
	}
	return t.errf(v, "not in range %s", t.rangeSrc)
}

func (t *Type) canonicalDecimal(v string) (string, error) {
	s := v
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	ip, fp, _ := strings.Cut(s, ".")
	if ip == "" && fp == "" {
		return "", t.errf(v, "not a valid decimal64")
	}
	for _, part := range []string{ip, fp} {
		for _, c := range part {
			if c < '0' || c > '9' {
				return "", t.errf(v, "not a valid decimal64")
			}
		}
	}
	if len(fp) > t.FractionDigits {
		return "", t.errf(v, "more than %d fraction digits", t.FractionDigits)
	}
	ip = strings.TrimLeft(ip, "0")
	fp = strings.TrimRight(fp, "0")
	if ip == "" {
		ip = "0"
	}
	if fp == "" {
		fp = "0"
	}
	if len(ip)+t.FractionDigits > 19 {
		return "", t.errf(v, "out of decimal64 range")
	}
	if ip == "0" && fp == "0" {
		neg = false
	}
	res := ip + "." + fp
	if neg {
		res = "-" + res
	}
	return res, nil
}

// parseRanges parses "1..10 | 20 | 100..max".
func parseRanges(src string) ([]Range, error) {
	var res []Range
	for _, part := range strings.Split(src, "|") {
		part = strings.TrimSpace(part)
		lo, hi, isInterval := strings.Cut(part, "..")
		if !isInterval {
			hi = lo
		}
		min, err := parseBound(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%w: bad range %q: %w", ErrSchema, src, err)
		}
		max, err := parseBound(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("%w: bad range %q: %w", ErrSchema, src, err)
		}
		if min != nil && max != nil && min.Cmp(max) > 0 {
			return nil, fmt.Errorf("%w: empty range %q", ErrSchema, part)
		}
		res = append(res, Range{Min: min, Max: max})
	}
	return res, nil
}

func parseBound(s string) (*big.Rat, error) {
	switch s {
	case "min", "max":
		return nil, nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("bad bound %q", s)
	}
	return r, nil
}

func newType(def *nodeDef) (*Type, error) {
	base, err := ParseBase(def.Type)
	if err != nil {
		return nil, err
	}
	t := &Type{
		Base:           base,
		Enums:          def.Enum,
		FractionDigits: def.FractionDigits,
		Path:           def.Path,
		rangeSrc:       def.Range,
		lengthSrc:      def.Length,
	}
	switch base {
	case Decimal64Base:
		if t.FractionDigits < 1 || t.FractionDigits > 18 {
			return nil, fmt.Errorf("%w: decimal64 %q needs fraction-digits in 1..18", ErrSchema, def.Name)
		}
	case EnumBase:
		if len(t.Enums) == 0 {
			return nil, fmt.Errorf("%w: enumeration %q has no enum values", ErrSchema, def.Name)
		}
	case LeafrefBase:
		if t.Path == "" {
			return nil, fmt.Errorf("%w: leafref %q has no path", ErrSchema, def.Name)
		}
	}
	if def.Range != "" {
		if !base.isSigned() && !base.isUnsigned() && base != Decimal64Base {
			return nil, fmt.Errorf("%w: range on %s", ErrSchema, base)
		}
		if t.Ranges, err = parseRanges(def.Range); err != nil {
			return nil, err
		}
	}
	if def.Length != "" {
		if base != StringBase {
			return nil, fmt.Errorf("%w: length on %s", ErrSchema, base)
		}
		if t.Lengths, err = parseRanges(def.Length); err != nil {
			return nil, err
		}
	}
	for _, p := range def.Pattern {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q: %w", ErrSchema, p, err)
		}
		t.Patterns = append(t.Patterns, re)
	}
	return t, nil
}
