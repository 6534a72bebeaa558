package main

import (
	"fmt"
	"io"

	"github.com/signadot/ydata/data"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, f, err := cfg.readTree(cc, args[0], 0, 0)
	if err != nil {
		return err
	}
	b, _, err := cfg.readTree(cc, args[1], 0, 0)
	if err != nil {
		return err
	}
	d, err := a.Diff(b)
	if err != nil {
		return err
	}
	if d.Empty() {
		return nil
	}
	if cfg.Reverse {
		rev, err := d.Reverse()
		if err != nil {
			return fmt.Errorf("error reversing: %w", err)
		}
		d = rev
	}
	if cfg.List {
		cfg.list(cc.Out, d)
		return cli.ExitCodeErr(1)
	}
	flags, err := cfg.printFlags()
	if err != nil {
		return err
	}
	d.Tree().SetColors(cfg.colors(cc.Out))
	if err := d.Print(cc.Out, cfg.outFormat(f), flags); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

var opColors = map[data.DiffOp]*color.Color{
	data.DiffCreate:  color.New(color.FgGreen),
	data.DiffDelete:  color.New(color.FgRed),
	data.DiffReplace: color.New(color.FgYellow),
	data.DiffNone:    color.New(color.Faint),
}

func (cfg *DiffConfig) list(w io.Writer, d *data.Diff) {
	colored := cfg.colors(w) != nil
	for op, r := range d.Iter() {
		c := opColors[op]
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		fmt.Fprintf(w, "%s %s\n", c.Sprintf("%-7s", op), r)
	}
}
