package encode

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/signadot/ydata/ir"
)

func encodeXML(nodes []*ir.Node, buf *bytes.Buffer, es *EncState) error {
	for _, n := range nodes {
		if err := xmlElement(buf, n, 0, es); err != nil {
			return err
		}
	}
	if es.shrink && len(nodes) != 0 {
		buf.WriteByte('\n')
	}
	return nil
}

func xmlEscape(s string) string {
	b := &strings.Builder{}
	_ = xml.EscapeText(b, []byte(s))
	return b.String()
}

func (es *EncState) nl(buf *bytes.Buffer, depth int) {
	if es.shrink {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", depth*es.indent))
}

func xmlElement(buf *bytes.Buffer, n *ir.Node, depth int, es *EncState) error {
	if depth > 0 {
		es.nl(buf, depth)
	}
	name := es.color(ir.ObjectType, FieldColor, n.Name)
	buf.WriteString(es.color(ir.ObjectType, SepColor, "<"))
	buf.WriteString(name)
	if n.Namespace != "" && (n.Parent == nil || n.Parent.EffectiveNamespace() != n.Namespace) {
		buf.WriteString(` xmlns="` + xmlEscape(n.Namespace) + `"`)
	}
	declared := map[string]string{}
	for i, a := range n.Attrs {
		qn := a.Name
		if a.Namespace != "" {
			prefix := a.Module
			if prefix == "" {
				prefix = "a" + strconv.Itoa(i)
			}
			if ns, ok := declared[prefix]; !ok || ns != a.Namespace {
				if ok {
					prefix += strconv.Itoa(i)
				}
				declared[prefix] = a.Namespace
				buf.WriteString(` xmlns:` + prefix + `="` + xmlEscape(a.Namespace) + `"`)
			}
			qn = prefix + ":" + a.Name
		}
		buf.WriteString(" " + es.color(ir.ObjectType, MetaColor, qn) + `="` + xmlEscape(a.Value) + `"`)
	}
	switch {
	case n.Type == ir.ObjectType && len(n.Children) != 0:
		buf.WriteString(es.color(ir.ObjectType, SepColor, ">"))
		for _, c := range n.Children {
			if err := xmlElement(buf, c, depth+1, es); err != nil {
				return err
			}
		}
		es.nl(buf, depth)
		buf.WriteString(es.color(ir.ObjectType, SepColor, "</") + name + es.color(ir.ObjectType, SepColor, ">"))
	case n.String == "":
		buf.WriteString(es.color(ir.ObjectType, SepColor, "/>"))
	default:
		buf.WriteString(es.color(ir.ObjectType, SepColor, ">"))
		buf.WriteString(es.color(n.Type, ValueColor, xmlEscape(n.String)))
		buf.WriteString(es.color(ir.ObjectType, SepColor, "</") + name + es.color(ir.ObjectType, SepColor, ">"))
	}
	if depth == 0 && !es.shrink {
		buf.WriteByte('\n')
	}
	return nil
}
