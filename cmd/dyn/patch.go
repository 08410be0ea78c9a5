package main

import (
	"fmt"
	"os"

	"github.com/signadot/go-dyn"
	"github.com/signadot/go-dyn/debug"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a json patch argument", cli.ErrUsage)
	}
	ops := []byte(args[0])
	if cfg.File {
		ops, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading patch %s: %w", args[0], err)
		}
	}
	if debug.Patch() {
		debug.Logf("cli patch %s\n", ops)
	}
	return rewrite(cfg.MainConfig, cc, args[1:], func(doc dyn.Accessor) dyn.Accessor {
		return doc.ApplyJSONPatch(ops)
	})
}
