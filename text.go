package dyn

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/go-dyn/encode"
	"github.com/signadot/go-dyn/format"
	"github.com/signadot/go-dyn/ir"
	"github.com/signadot/go-dyn/parse"
)

// Parse decodes data in format f into an accessor.
func Parse(data []byte, f format.Format, ctx ...Context) (Accessor, error) {
	n, err := parse.Parse(data, parse.ParseFormat(f))
	if err != nil {
		return Accessor{}, &Error{Kind: ErrConversionFailed, Message: err.Error(), Err: err}
	}
	return FromNode(n, ctx...), nil
}

func ParseJSON(data []byte, ctx ...Context) (Accessor, error) {
	return Parse(data, format.JSONFormat, ctx...)
}

func ParseYAML(data []byte, ctx ...Context) (Accessor, error) {
	return Parse(data, format.YAMLFormat, ctx...)
}

// Encode materializes a and writes it to w.
func (a Accessor) Encode(w io.Writer, opts ...encode.EncodeOption) error {
	n, err := a.raw()
	if err != nil {
		return err
	}
	if err := encode.Encode(n, w, opts...); err != nil {
		return a.fail(ErrConversionFailed, "%v", err)
	}
	return nil
}

// JSON returns a as JSON text.
func (a Accessor) JSON(pretty bool) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := a.Encode(buf, encode.EncodeWire(!pretty)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns a as indented JSON, or the error text when a cannot be
// materialized.
func (a Accessor) String() string {
	d, err := a.JSON(true)
	if err != nil {
		return err.Error()
	}
	return strings.TrimSuffix(string(d), "\n")
}

func (a Accessor) MarshalJSON() ([]byte, error) {
	return a.JSON(false)
}

func (a *Accessor) UnmarshalJSON(d []byte) error {
	res, err := ParseJSON(d, a.ctx)
	if err != nil {
		return err
	}
	*a = res
	return nil
}

// compact renders n on one line for error reports.
func compact(n *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(n, buf, encode.EncodeWire(true)); err != nil {
		return fmt.Sprintf("<%s>", n.Type)
	}
	return buf.String()
}
