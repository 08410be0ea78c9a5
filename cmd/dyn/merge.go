package main

import (
	"fmt"

	"github.com/signadot/go-dyn"

	"github.com/scott-cotton/cli"
)

func merge(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		cfg.Merge.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: merge requires at least one file", cli.ErrUsage)
	}
	var res dyn.Accessor
	for _, arg := range args {
		doc, err := readDoc(cfg.MainConfig, cc, arg)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		res = res.Union(doc)
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("error merging: %w", err)
	}
	return writeDoc(cfg.MainConfig, cc.Out, res, 0)
}
