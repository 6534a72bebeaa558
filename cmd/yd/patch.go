package main

import (
	"fmt"

	"github.com/signadot/ydata/data"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 arguments, a patch and a file to which to apply it", cli.ErrUsage)
	}
	if cfg.JSON && cfg.Merge {
		return fmt.Errorf("%w: at most one of -json -merge", cli.ErrUsage)
	}
	target, f, err := cfg.readTree(cc, args[1], 0, 0)
	if err != nil {
		return err
	}
	pd, err := readFile(cc, args[0])
	if err != nil {
		return err
	}
	var res *data.Tree
	switch {
	case cfg.JSON:
		res, err = target.ApplyJSONPatch(pd, 0, 0)
	case cfg.Merge:
		res, err = target.ApplyMergePatch(pd, 0, 0)
	default:
		res, err = cfg.applyDiff(target, pd, args[0])
	}
	if err != nil {
		return fmt.Errorf("error patching %s: %w", args[1], err)
	}
	return cfg.print(cc.Out, res, f)
}

func (cfg *PatchConfig) applyDiff(target *data.Tree, pd []byte, path string) (*data.Tree, error) {
	d, err := data.ParseDiff(target.Context(), pd, cfg.inFormat(path))
	if err != nil {
		return nil, err
	}
	if cfg.Reverse {
		if d, err = d.Reverse(); err != nil {
			return nil, fmt.Errorf("error reversing patch: %w", err)
		}
	}
	if err := target.DiffApply(d); err != nil {
		return nil, err
	}
	if err := target.Validate(0); err != nil {
		return nil, err
	}
	return target, nil
}
