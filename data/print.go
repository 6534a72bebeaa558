package data

import (
	"bytes"
	"io"

	"github.com/signadot/ydata/encode"
	"github.com/signadot/ydata/format"
	"github.com/signadot/ydata/ir"
)

// Data is implemented by Tree, NodeRef and Diff.
type Data interface {
	Find(path string) ([]NodeRef, error)
	FindSingle(path string) (NodeRef, error)
	Print(w io.Writer, f format.Format, flags PrinterFlags) error
}

var (
	_ Data = (*Tree)(nil)
	_ Data = NodeRef{}
	_ Data = (*Diff)(nil)
)

// Print writes every top-level node of t.
func (t *Tree) Print(w io.Writer, f format.Format, flags PrinterFlags) error {
	if t.freed {
		return errorf(ErrStaleReference, "", "tree was freed")
	}
	return t.print(w, t.top, true, f, flags)
}

func (t *Tree) PrintString(f format.Format, flags PrinterFlags) (string, error) {
	buf := &bytes.Buffer{}
	if err := t.Print(buf, f, flags); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Print writes r, and its following siblings with PrintWithSiblings.
func (r NodeRef) Print(w io.Writer, f format.Format, flags PrinterFlags) error {
	if err := r.Err(); err != nil {
		return err
	}
	return r.tree.print(w, r.id, flags.has(PrintWithSiblings), f, flags)
}

func (r NodeRef) PrintString(f format.Format, flags PrinterFlags) (string, error) {
	buf := &bytes.Buffer{}
	if err := r.Print(buf, f, flags); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (t *Tree) print(w io.Writer, id int32, siblings bool, f format.Format, flags PrinterFlags) error {
	p := &printer{tree: t, flags: flags}
	var nodes []*ir.Node
	for x := id; x != none; x = t.nodes[x].next {
		n, err := p.toIR(x)
		if err != nil {
			return err
		}
		if n != nil {
			nodes = append(nodes, n)
		}
		if !siblings {
			break
		}
	}
	opts := []encode.EncodeOption{
		encode.EncodeFormat(f),
		encode.EncodeShrink(flags.has(PrintShrink)),
	}
	if t.colors != nil {
		opts = append(opts, encode.EncodeColors(t.colors))
	}
	if err := encode.Encode(nodes, w, opts...); err != nil {
		return wrapErr(ErrPrint, "", err)
	}
	return nil
}

// SetColors makes Print color its output; nil turns colors off.
func (t *Tree) SetColors(c *encode.Colors) {
	t.colors = c
}
