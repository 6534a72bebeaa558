package encode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/signadot/ydata/format"
	"github.com/signadot/ydata/ir"
)

type EncState struct {
	format format.Format
	shrink bool
	indent int

	Color func(ir.Type, ColorAttr, string) string
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

// Encode writes the top-level nodes to w.
func Encode(nodes []*ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	buf := &bytes.Buffer{}
	var err error
	switch es.format {
	case format.JSONFormat:
		err = encodeJSON(nodes, buf, es)
	case format.XMLFormat:
		err = encodeXML(nodes, buf, es)
	default:
		err = fmt.Errorf("%w: %d", ir.ErrBadFormat, es.format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// EncodeString is Encode into a string.
func EncodeString(nodes []*ir.Node, opts ...EncodeOption) (string, error) {
	buf := &bytes.Buffer{}
	if err := Encode(nodes, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func MustString(nodes []*ir.Node, opts ...EncodeOption) string {
	s, err := EncodeString(nodes, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
