package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/signadot/ydata/data"
	"github.com/signadot/ydata/format"

	"github.com/scott-cotton/cli"
)

func ydMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func readFile(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

// readTree parses the data file at path, "-" meaning stdin.
func (cfg *MainConfig) readTree(cc *cli.Context, path string, p data.ParserFlags, v data.ValidationFlags) (*data.Tree, format.Format, error) {
	f := cfg.inFormat(path)
	ctx, err := cfg.context()
	if err != nil {
		return nil, f, err
	}
	d, err := readFile(cc, path)
	if err != nil {
		return nil, f, err
	}
	t, err := data.Parse(ctx, d, f, p, v)
	if err != nil {
		return nil, f, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return t, f, nil
}

func fileArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
