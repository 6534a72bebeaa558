package parse

import (
	"fmt"
	"io"

	"github.com/signadot/ydata/format"
	"github.com/signadot/ydata/ir"
)

// Parse decodes d into its top-level nodes.
func Parse(d []byte, opts ...ParseOption) ([]*ir.Node, error) {
	pOpts := &parseOpts{format: format.XMLFormat}
	for _, f := range opts {
		f(pOpts)
	}
	switch pOpts.format {
	case format.JSONFormat:
		return parseJSON(d)
	case format.XMLFormat:
		return parseXML(d)
	}
	return nil, fmt.Errorf("%w: %d", ir.ErrBadFormat, pOpts.format)
}

func ParseReader(r io.Reader, opts ...ParseOption) ([]*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(d, opts...)
}
