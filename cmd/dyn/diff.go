package main

import (
	"fmt"

	"github.com/signadot/go-dyn"
	"github.com/signadot/go-dyn/libdiff"

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
	a, err := readDoc(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	b, err := readDoc(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	cs, err := dyn.Diff(a, b)
	if err != nil {
		return err
	}
	if cfg.Reverse {
		cs = libdiff.Reverse(cs)
	}
	colored := cfg.colored(cc.Out)
	for _, c := range cs {
		line := c.String()
		if colored {
			line = opColor(c.Op).Sprint(line)
		}
		fmt.Fprintln(cc.Out, line)
	}
	if len(cs) != 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func opColor(op libdiff.Op) *color.Color {
	switch op {
	case libdiff.Add:
		return color.New(color.FgGreen)
	case libdiff.Remove:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}
