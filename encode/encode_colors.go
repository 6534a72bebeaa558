package encode

import (
	"strings"

	"github.com/fatih/color"

	"github.com/signadot/ydata/ir"
)

// Colorable selects a color: the value type of the node and the part of
// its rendering being colored.
type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	// FieldColor colors member and element names.
	FieldColor ColorAttr = iota
	// ValueColor colors scalar values.
	ValueColor
	// SepColor colors punctuation.
	SepColor
	// MetaColor colors annotations: "@" members and XML attributes.
	MetaColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

var palette = []struct {
	able Colorable
	c    *color.Color
}{
	{Colorable{ir.ObjectType, FieldColor}, color.RGB(128, 168, 196)},
	{Colorable{ir.ObjectType, SepColor}, color.RGB(196, 128, 128)},
	{Colorable{ir.ObjectType, MetaColor}, color.RGB(74, 92, 138)},
	{Colorable{ir.StringType, ValueColor}, color.RGB(8, 196, 16)},
	{Colorable{ir.NumberType, ValueColor}, color.RGB(128, 216, 236)},
	{Colorable{ir.BoolType, ValueColor}, color.New(color.FgCyan)},
	{Colorable{ir.NullType, ValueColor}, color.RGB(168, 0, 196)},
}

// NewColors returns the default terminal palette.
func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, p := range palette {
		colors.Map[p.able] = literal(p.c.SprintfFunc())
	}
	sep := literal(color.RGB(255, 0, 196).SprintfFunc())
	for _, t := range ir.Types() {
		able := Colorable{Type: t, Attr: SepColor}
		if _, ok := colors.Map[able]; !ok {
			colors.Map[able] = sep
		}
	}
	return colors
}

// literal makes f print its argument verbatim rather than as a format.
func literal(f func(string, ...any) string) func(string, ...any) string {
	return func(v string, _ ...any) string {
		return f(strings.ReplaceAll(v, "%", "%%"))
	}
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
