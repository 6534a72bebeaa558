package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/signadot/ydata/data"
	"github.com/signadot/ydata/encode"
	"github.com/signadot/ydata/format"
	"github.com/signadot/ydata/schema"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color     bool   `cli:"name=color desc='print with color'"`
	Shrink    bool   `cli:"name=shrink desc='print without indentation'"`
	KeepEmpty bool   `cli:"name=keep-empty desc='print empty non-presence containers'"`
	WD        string `cli:"name=wd desc='with-defaults mode: explicit, trim or all' default=explicit"`

	Schemas  []string
	Features []string

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	ctx  *schema.Context
	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func appendFunc(vs *[]string) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		*vs = append(*vs, v)
		return v, nil
	})
}

// context loads the schema files once, enabling the requested features.
func (cfg *MainConfig) context() (*schema.Context, error) {
	if cfg.ctx != nil {
		return cfg.ctx, nil
	}
	if len(cfg.Schemas) == 0 {
		return nil, fmt.Errorf("%w: at least one schema (-s) is required", cli.ErrUsage)
	}
	ctx, err := schema.NewContext()
	if err != nil {
		return nil, err
	}
	for _, s := range cfg.Schemas {
		if _, err := ctx.LoadFile(s); err != nil {
			return nil, fmt.Errorf("error loading schema %s: %w", s, err)
		}
	}
	for _, f := range cfg.Features {
		mod, feat, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("%w: feature %q is not module:feature", cli.ErrUsage, f)
		}
		if err := ctx.EnableFeature(mod, feat); err != nil {
			return nil, err
		}
	}
	cfg.ctx = ctx
	return ctx, nil
}

// inFormat is the -I format, else the one named by the file suffix, else
// JSON.
func (cfg *MainConfig) inFormat(path string) format.Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		if f, ok := format.FromSuffix(path[i:]); ok {
			return f
		}
	}
	return format.JSONFormat
}

func (cfg *MainConfig) outFormat(in format.Format) format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return in
}

func (cfg *MainConfig) printFlags() (data.PrinterFlags, error) {
	var res data.PrinterFlags
	switch cfg.WD {
	case "", "explicit":
		res |= data.PrintWDExplicit
	case "trim":
		res |= data.PrintWDTrim
	case "all":
		res |= data.PrintWDAll
	default:
		return 0, fmt.Errorf("%w: unknown with-defaults mode %q", cli.ErrUsage, cfg.WD)
	}
	if cfg.Shrink {
		res |= data.PrintShrink
	}
	if cfg.KeepEmpty {
		res |= data.PrintKeepEmptyCont
	}
	return res, nil
}

func (cfg *MainConfig) colors(w io.Writer) *encode.Colors {
	if cfg.Color {
		return encode.NewColors()
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == "color" && opt.Value != nil {
			return nil
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return encode.NewColors()
	}
	return nil
}

// print writes t to w in the output format, with colors when w is a
// terminal.
func (cfg *MainConfig) print(w io.Writer, t *data.Tree, in format.Format) error {
	flags, err := cfg.printFlags()
	if err != nil {
		return err
	}
	t.SetColors(cfg.colors(w))
	return t.Print(w, cfg.outFormat(in), flags)
}

type ValidateConfig struct {
	*MainConfig
	ParseOnly bool `cli:"name=parse-only desc='only parse, do not validate'"`
	Strict    bool `cli:"name=strict desc='reject data without a schema node'"`
	NoState   bool `cli:"name=no-state desc='reject state data'"`
	Present   bool `cli:"name=present desc='check only modules with data present'"`

	Validate *cli.Command
}

func (cfg *ValidateConfig) flags() (data.ParserFlags, data.ValidationFlags) {
	var (
		p data.ParserFlags
		v data.ValidationFlags
	)
	if cfg.ParseOnly {
		p |= data.ParseOnly
	}
	if cfg.Strict {
		p |= data.ParseStrict
	}
	if cfg.NoState {
		p |= data.ParseNoState
		v |= data.ValidateNoState
	}
	if cfg.Present {
		v |= data.ValidatePresent
	}
	return p, v
}

type FmtConfig struct {
	*MainConfig
	Fmt *cli.Command
}

type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

type SetConfig struct {
	*MainConfig
	Set *cli.Command
}

type RmConfig struct {
	*MainConfig
	Rm *cli.Command
}

type MergeConfig struct {
	*MainConfig
	Merge *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	List    bool `cli:"name=list desc='list changed paths instead of printing the diff'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='apply diff reversed'"`
	JSON    bool `cli:"name=json desc='patch is an RFC 6902 JSON patch'"`
	Merge   bool `cli:"name=merge desc='patch is an RFC 7386 JSON merge patch'"`

	Patch *cli.Command
}
