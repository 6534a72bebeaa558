package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/signadot/ydata/ir"
)

func encodeJSON(nodes []*ir.Node, buf *bytes.Buffer, es *EncState) error {
	compact := &bytes.Buffer{}
	compact.WriteByte('{')
	if err := jsonMembers(compact, nodes); err != nil {
		return err
	}
	compact.WriteByte('}')
	out := compact.Bytes()
	if !es.shrink {
		out = pretty.PrettyOptions(out, &pretty.Options{
			Width:  80,
			Indent: strings.Repeat(" ", es.indent),
		})
	} else {
		out = append(out, '\n')
	}
	if es.Color != nil {
		out = colorizeJSON(out, es)
	}
	buf.Write(out)
	return nil
}

func jsonQuote(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// strings always encode
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1)
}

// jsonMembers writes siblings as object members, grouping array members by
// qualified name at the position of the first one.
func jsonMembers(buf *bytes.Buffer, nodes []*ir.Node) error {
	done := map[*ir.Node]bool{}
	first := true
	for i, n := range nodes {
		if done[n] {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		qn := n.QName()
		if !n.Array {
			jsonQuote(buf, qn)
			buf.WriteByte(':')
			if err := jsonValue(buf, n, false); err != nil {
				return err
			}
			if n.Type != ir.ObjectType && len(n.Attrs) != 0 {
				buf.WriteByte(',')
				jsonQuote(buf, "@"+qn)
				buf.WriteByte(':')
				jsonAttrs(buf, n.Attrs)
			}
			continue
		}
		group := []*ir.Node{n}
		for _, m := range nodes[i+1:] {
			if m.Array && m.QName() == qn {
				group = append(group, m)
				done[m] = true
			}
		}
		jsonQuote(buf, qn)
		buf.WriteString(":[")
		hasAttrs := false
		for j, m := range group {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := jsonValue(buf, m, true); err != nil {
				return err
			}
			hasAttrs = hasAttrs || (m.Type != ir.ObjectType && len(m.Attrs) != 0)
		}
		buf.WriteByte(']')
		if !hasAttrs {
			continue
		}
		buf.WriteByte(',')
		jsonQuote(buf, "@"+qn)
		buf.WriteString(":[")
		for j, m := range group {
			if j > 0 {
				buf.WriteByte(',')
			}
			if len(m.Attrs) == 0 {
				buf.WriteString("null")
				continue
			}
			jsonAttrs(buf, m.Attrs)
		}
		buf.WriteByte(']')
	}
	return nil
}

func jsonValue(buf *bytes.Buffer, n *ir.Node, inArray bool) error {
	switch n.Type {
	case ir.ObjectType:
		buf.WriteByte('{')
		if len(n.Attrs) != 0 {
			buf.WriteString(`"@":`)
			jsonAttrs(buf, n.Attrs)
			if len(n.Children) != 0 {
				buf.WriteByte(',')
			}
		}
		if err := jsonMembers(buf, n.Children); err != nil {
			return err
		}
		buf.WriteByte('}')
	case ir.StringType:
		jsonQuote(buf, n.String)
	case ir.NumberType, ir.BoolType:
		if n.String == "" {
			return fmt.Errorf("%w: %s has no value", ir.ErrEncode, n.Path())
		}
		buf.WriteString(n.String)
	case ir.NullType:
		if inArray {
			buf.WriteString("null")
		} else {
			buf.WriteString("[null]")
		}
	default:
		return fmt.Errorf("%w: %s has type %s", ir.ErrEncode, n.Path(), n.Type)
	}
	return nil
}

func jsonAttrs(buf *bytes.Buffer, attrs []ir.Attr) {
	buf.WriteByte('{')
	for i, a := range attrs {
		if i > 0 {
			buf.WriteByte(',')
		}
		name := a.Name
		if a.Module != "" {
			name = a.Module + ":" + name
		}
		jsonQuote(buf, name)
		buf.WriteByte(':')
		jsonQuote(buf, a.Value)
	}
	buf.WriteByte('}')
}

// colorizeJSON colors the tokens of well formed JSON text.
func colorizeJSON(src []byte, es *EncState) []byte {
	res := &bytes.Buffer{}
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			j++
			tok := string(src[i:j])
			k := j
			for k < len(src) && (src[k] == ' ' || src[k] == '\n' || src[k] == '\t') {
				k++
			}
			switch {
			case k < len(src) && src[k] == ':' && strings.HasPrefix(tok, `"@`):
				res.WriteString(es.color(ir.ObjectType, MetaColor, tok))
			case k < len(src) && src[k] == ':':
				res.WriteString(es.color(ir.ObjectType, FieldColor, tok))
			default:
				res.WriteString(es.color(ir.StringType, ValueColor, tok))
			}
			i = j
		case c == '{' || c == '}' || c == '[' || c == ']' || c == ':' || c == ',':
			res.WriteString(es.color(ir.ObjectType, SepColor, string(c)))
			i++
		case c == '-' || (c >= '0' && c <= '9'):
			j := i
			for j < len(src) && strings.IndexByte("+-.eE0123456789", src[j]) != -1 {
				j++
			}
			res.WriteString(es.color(ir.NumberType, ValueColor, string(src[i:j])))
			i = j
		case bytes.HasPrefix(src[i:], []byte("true")):
			res.WriteString(es.color(ir.BoolType, ValueColor, "true"))
			i += 4
		case bytes.HasPrefix(src[i:], []byte("false")):
			res.WriteString(es.color(ir.BoolType, ValueColor, "false"))
			i += 5
		case bytes.HasPrefix(src[i:], []byte("null")):
			res.WriteString(es.color(ir.NullType, ValueColor, "null"))
			i += 4
		default:
			res.WriteByte(c)
			i++
		}
	}
	return res.Bytes()
}
