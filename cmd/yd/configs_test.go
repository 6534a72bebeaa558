package main

import (
	"errors"
	"testing"

	"github.com/signadot/ydata/data"
	"github.com/signadot/ydata/format"

	"github.com/scott-cotton/cli"
)

func TestInFormat(t *testing.T) {
	cfg := &MainConfig{}
	for _, test := range []struct {
		path string
		want format.Format
	}{
		{"a.xml", format.XMLFormat},
		{"dir.d/a.json", format.JSONFormat},
		{"a", format.JSONFormat},
		{"-", format.JSONFormat},
	} {
		if got := cfg.inFormat(test.path); got != test.want {
			t.Errorf("%s: got %s want %s", test.path, got, test.want)
		}
	}
	x := format.XMLFormat
	cfg.InFormat = &x
	if got := cfg.inFormat("a.json"); got != format.XMLFormat {
		t.Errorf("-I ignored: %s", got)
	}
	if got := cfg.outFormat(format.JSONFormat); got != format.JSONFormat {
		t.Errorf("out format %s", got)
	}
}

func TestPrintFlags(t *testing.T) {
	for _, test := range []struct {
		cfg  MainConfig
		want data.PrinterFlags
	}{
		{MainConfig{}, data.PrintWDExplicit},
		{MainConfig{WD: "trim", Shrink: true}, data.PrintWDTrim | data.PrintShrink},
		{MainConfig{WD: "all", KeepEmpty: true}, data.PrintWDAll | data.PrintKeepEmptyCont},
	} {
		got, err := test.cfg.printFlags()
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("%+v: got %b want %b", test.cfg, got, test.want)
		}
	}
	cfg := &MainConfig{WD: "some"}
	if _, err := cfg.printFlags(); !errors.Is(err, cli.ErrUsage) {
		t.Errorf("bad mode: %v", err)
	}
}

func TestContextRequiresSchema(t *testing.T) {
	cfg := &MainConfig{}
	if _, err := cfg.context(); !errors.Is(err, cli.ErrUsage) {
		t.Errorf("got %v", err)
	}
	cfg = &MainConfig{Schemas: []string{"testdata/none.yaml"}}
	if _, err := cfg.context(); err == nil {
		t.Error("missing schema file loaded")
	}
}
