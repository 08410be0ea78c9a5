package parse

import "github.com/signadot/go-dyn/format"

type ParseOption func(*parseOpts)

type parseOpts struct {
	format format.Format
}

func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) { o.format = f }
}
