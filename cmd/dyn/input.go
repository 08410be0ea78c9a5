package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/go-dyn"

	"github.com/scott-cotton/cli"
)

// files gives the document arguments, stdin when there are none.
func files(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

func readDoc(cfg *MainConfig, cc *cli.Context, path string) (dyn.Accessor, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return dyn.Accessor{}, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return dyn.Accessor{}, fmt.Errorf("error reading %q: %w", path, err)
	}
	return dyn.Parse(d, cfg.inFormat(path))
}

func writeDoc(cfg *MainConfig, w io.Writer, a dyn.Accessor, i int) error {
	if i > 0 && cfg.outFormat().IsYAML() {
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
	}
	if err := a.Encode(w, cfg.encOpts(w)...); err != nil {
		return err
	}
	if cfg.WireOut && !cfg.outFormat().IsYAML() {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// rewrite applies f to each document argument and writes the results.
func rewrite(cfg *MainConfig, cc *cli.Context, args []string, f func(dyn.Accessor) dyn.Accessor) error {
	for i, arg := range files(args) {
		doc, err := readDoc(cfg, cc, arg)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		if err := writeDoc(cfg, cc.Out, f(doc), i); err != nil {
			return fmt.Errorf("error processing %s: %w", arg, err)
		}
	}
	return nil
}
