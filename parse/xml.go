package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/ydata/ir"
)

func parseXML(d []byte) ([]*ir.Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(d))
	var (
		res  []*ir.Node
		cur  *ir.Node
		text strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if cur != nil && cur.Type != ir.ObjectType && strings.TrimSpace(text.String()) != "" {
				return nil, fmt.Errorf("%w: mixed content in %s", ErrParse, cur.Path())
			}
			text.Reset()
			n := &ir.Node{Type: ir.NullType, Namespace: t.Name.Space, Name: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				n.WithAttr(ir.Attr{Namespace: a.Name.Space, Name: a.Name.Local, Value: a.Value})
			}
			if cur == nil {
				res = append(res, n)
			} else {
				cur.Append(n)
			}
			cur = n
		case xml.CharData:
			if cur == nil {
				if len(bytes.TrimSpace(t)) != 0 {
					return nil, fmt.Errorf("%w: text outside of elements", ErrParse)
				}
				continue
			}
			text.Write(t)
		case xml.EndElement:
			if cur.Type != ir.ObjectType {
				if s := text.String(); s != "" {
					cur.Type = ir.StringType
					cur.String = s
				}
			} else if strings.TrimSpace(text.String()) != "" {
				return nil, fmt.Errorf("%w: mixed content in %s", ErrParse, cur.Path())
			}
			text.Reset()
			cur = cur.Parent
		}
	}
	if cur != nil {
		return nil, fmt.Errorf("%w: unclosed element %s", ErrParse, cur.Path())
	}
	return res, nil
}
