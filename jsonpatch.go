package dyn

import (
	"bytes"

	"github.com/signadot/go-dyn/debug"
	"github.com/signadot/go-dyn/encode"
	"github.com/signadot/go-dyn/parse"

	jsonpatch "github.com/evanphx/json-patch"
)

// ApplyJSONPatch returns a with the RFC 6902 patch applied.  The patch is
// decoded immediately; it is applied when the result is materialized.
func (a Accessor) ApplyJSONPatch(patch []byte) Accessor {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		e := newError(ErrConversionFailed, "invalid json patch: %v", err)
		e.Err = err
		return a.child(failedTree(e), a.path)
	}
	src := a
	t := customTree(func(ctx Context) Accessor {
		if debug.Patch() {
			debug.Logf("json patch of %d ops at %q\n", len(ops), src.Path())
		}
		n, err := src.tree.materialize(src.ctx.Union(ctx))
		if err != nil {
			return Fail(err)
		}
		buf := bytes.NewBuffer(nil)
		if err := encode.Encode(n, buf, encode.EncodeWire(true)); err != nil {
			return Fail(newError(ErrConversionFailed, "%v", err))
		}
		out, err := ops.Apply(buf.Bytes())
		if err != nil {
			e := newError(ErrConversionFailed, "json patch: %v", err)
			e.Err = err
			return Fail(e)
		}
		res, err := parse.Parse(out)
		if err != nil {
			return Fail(newError(ErrConversionFailed, "%v", err))
		}
		return Accessor{tree: nodeTree(res)}
	})
	return a.child(t, a.path)
}
