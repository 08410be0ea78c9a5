package main

import (
	"fmt"

	"github.com/signadot/go-dyn"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, an object path", cli.ErrUsage)
	}
	path := args[0]
	var extract extractFunc
	if cfg.Type != "" {
		extract, err = extractorFor(cfg.Type)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	for i, arg := range files(args[1:]) {
		doc, err := readDoc(cfg.MainConfig, cc, arg)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		res := doc.At(path)
		if extract != nil {
			v, err := extract(res)
			if err != nil {
				return fmt.Errorf("error getting %s from %s: %w", path, arg, err)
			}
			res = dyn.From(v)
		}
		if err := res.Err(); err != nil {
			return fmt.Errorf("error getting %s from %s: %w", path, arg, err)
		}
		if res.IsAbsent() {
			return fmt.Errorf("error getting %s from %s: no value", path, arg)
		}
		if err := writeDoc(cfg.MainConfig, cc.Out, res, i); err != nil {
			return err
		}
	}
	return nil
}
