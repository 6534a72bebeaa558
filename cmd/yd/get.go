package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a data path", cli.ErrUsage)
	}
	path := args[0]
	flags, err := cfg.printFlags()
	if err != nil {
		return err
	}
	for _, file := range fileArgs(args[1:]) {
		t, f, err := cfg.readTree(cc, file, 0, 0)
		if err != nil {
			return err
		}
		refs, err := t.Find(path)
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", file, path, err)
		}
		t.SetColors(cfg.colors(cc.Out))
		for _, r := range refs {
			if err := r.Print(cc.Out, cfg.outFormat(f), flags); err != nil {
				return err
			}
		}
	}
	return nil
}

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	var value *string
	switch len(args) {
	case 2:
	case 3:
		value = &args[1]
	default:
		return fmt.Errorf("%w: set requires a path, an optional value and a file", cli.ErrUsage)
	}
	file := args[len(args)-1]
	t, f, err := cfg.readTree(cc, file, 0, 0)
	if err != nil {
		return err
	}
	if _, err := t.NewPath(args[0], value); err != nil {
		return fmt.Errorf("error setting %s: %w", args[0], err)
	}
	if err := t.Validate(0); err != nil {
		return err
	}
	return cfg.print(cc.Out, t, f)
}

func rm(cfg *RmConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Rm.Parse(cc, args)
	if err != nil {
		cfg.Rm.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: rm requires a path and a file", cli.ErrUsage)
	}
	t, f, err := cfg.readTree(cc, args[1], 0, 0)
	if err != nil {
		return err
	}
	if err := t.Remove(args[0]); err != nil {
		return fmt.Errorf("error removing %s: %w", args[0], err)
	}
	if err := t.Validate(0); err != nil {
		return err
	}
	return cfg.print(cc.Out, t, f)
}

func merge(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		cfg.Merge.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: merge requires at least 2 files", cli.ErrUsage)
	}
	dst, f, err := cfg.readTree(cc, args[0], 0, 0)
	if err != nil {
		return err
	}
	for _, file := range args[1:] {
		src, _, err := cfg.readTree(cc, file, 0, 0)
		if err != nil {
			return err
		}
		if err := dst.Merge(src); err != nil {
			return fmt.Errorf("error merging %s: %w", file, err)
		}
		src.Free()
	}
	if err := dst.Validate(0); err != nil {
		return err
	}
	return cfg.print(cc.Out, dst, f)
}
