package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		cfg.Validate.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	p, v := cfg.flags()
	for _, file := range fileArgs(args) {
		t, _, err := cfg.readTree(cc, file, p, v)
		if err != nil {
			return err
		}
		t.Free()
		fmt.Fprintf(cc.Out, "%s: ok\n", file)
	}
	return nil
}

func fmtFiles(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		cfg.Fmt.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	for _, file := range fileArgs(args) {
		t, f, err := cfg.readTree(cc, file, 0, 0)
		if err != nil {
			return err
		}
		if err := cfg.print(cc.Out, t, f); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
	}
	return nil
}
