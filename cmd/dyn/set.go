package main

import (
	"fmt"

	"github.com/signadot/go-dyn"

	"github.com/scott-cotton/cli"
)

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: set requires a path and a value", cli.ErrUsage)
	}
	path := args[0]
	v := dyn.String(args[1])
	if !cfg.String {
		v, err = dyn.ParseJSON([]byte(args[1]))
		if err != nil {
			return fmt.Errorf("%w: invalid value %q (use -s for strings): %w", cli.ErrUsage, args[1], err)
		}
	}
	return rewrite(cfg.MainConfig, cc, args[2:], func(doc dyn.Accessor) dyn.Accessor {
		return doc.SetAt(path, v)
	})
}

func del(cfg *DelConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Del.Parse(cc, args)
	if err != nil {
		cfg.Del.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: del requires one argument, an object path", cli.ErrUsage)
	}
	path := args[0]
	if path == "" {
		return fmt.Errorf("%w: cannot delete the root", cli.ErrUsage)
	}
	return rewrite(cfg.MainConfig, cc, args[1:], func(doc dyn.Accessor) dyn.Accessor {
		return doc.DeleteAt(path)
	})
}
