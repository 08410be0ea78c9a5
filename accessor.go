package dyn

import (
	"fmt"

	"github.com/signadot/go-dyn/debug"
	"github.com/signadot/go-dyn/ir"
	"github.com/signadot/go-dyn/ir/kpath"
)

// Accessor is a handle on a position in a dynamic tree.  It combines the
// Tree at that position, the Context used for conversions and the path
// from the root, which is only computed when an error is reported.
//
// The zero Accessor holds no value.  Accessors are values: every
// mutating method returns a new Accessor and leaves the receiver
// unchanged.
type Accessor struct {
	tree Tree
	ctx  Context
	path func() string
}

// FromNode returns an accessor rooted at a copy of n.
func FromNode(n *ir.Node, ctx ...Context) Accessor {
	return Accessor{tree: nodeTree(n.Clone()), ctx: NewContext(toAnys(ctx)...)}
}

// Fail returns an accessor which reports err when read.
func Fail(err error) Accessor {
	return Accessor{tree: failedTree(asError(err, ErrKnownFailure))}
}

// FromFunc returns an accessor which renders itself with render each time
// it is materialized.
func FromFunc(render func(Context) Accessor) Accessor {
	return Accessor{tree: customTree(render)}
}

func toAnys[T any](vs []T) []any {
	res := make([]any, len(vs))
	for i, v := range vs {
		res[i] = v
	}
	return res
}

func (a Accessor) Tree() Tree {
	return a.tree
}

func (a Accessor) Kind() Kind {
	return a.tree.kind
}

func (a Accessor) IsAbsent() bool {
	return a.tree.kind == KindAbsent
}

// IsNull reports whether a holds an explicit null.
func (a Accessor) IsNull() bool {
	if a.tree.kind == KindCustom {
		return a.render().IsNull()
	}
	return a.tree.kind == KindNull
}

func (a Accessor) Context() Context {
	return a.ctx
}

// Path returns the location of a relative to its root.
func (a Accessor) Path() string {
	if a.path == nil {
		return ""
	}
	return a.path()
}

// Err returns the error which materializing a would produce, or nil.
func (a Accessor) Err() error {
	_, _, err := a.tree.materializeOptional(a.ctx)
	if err != nil {
		return a.root(err)
	}
	return nil
}

// Raw materializes a.  Absent values are an error of kind
// ErrMissingValue.  The result belongs to the caller: changing it does not
// affect a.
func (a Accessor) Raw() (*ir.Node, error) {
	n, err := a.raw()
	if err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

// RawOptional is like Raw but returns nil with no error for absent
// values.
func (a Accessor) RawOptional() (*ir.Node, error) {
	n, err := a.rawOptional()
	if err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

// raw is Raw without the copy.  The result may share nodes with a and
// must not be modified.
func (a Accessor) raw() (*ir.Node, error) {
	n, err := a.tree.materialize(a.ctx)
	if err != nil {
		return nil, a.root(err)
	}
	if debug.Materialize() {
		debug.Logf("materialized %q: %v\n", a.Path(), n)
	}
	return n, nil
}

func (a Accessor) rawOptional() (*ir.Node, error) {
	n, ok, err := a.tree.materializeOptional(a.ctx)
	if err != nil {
		return nil, a.root(err)
	}
	if !ok {
		return nil, nil
	}
	return n, nil
}

// Any materializes a into plain Go values.
func (a Accessor) Any() (any, error) {
	n, err := a.raw()
	if err != nil {
		return nil, err
	}
	return ir.ToAny(n), nil
}

func (a Accessor) root(err error) error {
	return rootError(err, a.Path(), a.snapshot)
}

// fail creates an error located at a.
func (a Accessor) fail(kind error, msg string, args ...any) *Error {
	e := newError(kind, msg, args...)
	e.Path = a.Path()
	e.snapshot = a.snapshot
	return e
}

// snapshot renders a compactly for error reports.
func (a Accessor) snapshot() string {
	switch a.tree.kind {
	case KindAbsent:
		if a.tree.absent != nil {
			return a.tree.absent()
		}
		return ""
	case KindFailed:
		return ""
	}
	n, err := a.tree.materialize(a.ctx)
	if err != nil {
		return err.Error()
	}
	return compact(n)
}

func (a Accessor) child(t Tree, path func() string) Accessor {
	return Accessor{tree: t, ctx: a.ctx, path: path}
}

func (a Accessor) keyPath(key string) func() string {
	return func() string {
		p := a.Path()
		if p == "" {
			return key
		}
		return p + "." + key
	}
}

func (a Accessor) indexPath(i int) func() string {
	return func() string {
		return a.Path() + indexSegment(i)
	}
}

// render resolves a custom tree, keeping the path of a.  Values in the
// context of a replace those supplied by the rendering.
func (a Accessor) render() Accessor {
	r := a.tree.custom(a.ctx)
	return Accessor{tree: r.tree, ctx: r.ctx.Union(a.ctx), path: a.path}
}

// Key returns the value at key.  Reading from an absent, null or failed
// value yields the same value, so errors surface when a value is
// finally extracted.
func (a Accessor) Key(key string) Accessor {
	switch a.tree.kind {
	case KindAbsent, KindNull, KindFailed:
		return a
	case KindCustom:
		return a.render().Key(key)
	case KindMapping:
		n, err := a.tree.materialize(a.ctx)
		if err != nil {
			return a.child(failedTree(err), a.path)
		}
		v := ir.Get(n, key)
		if v == nil {
			return a.child(absentTree(a.snapshot), a.keyPath(key))
		}
		return a.child(nodeTree(v), a.keyPath(key))
	default:
		return a.child(failedTree(newError(ErrNotADictionary, "not a dictionary")), a.keyPath(key))
	}
}

// Index returns the element at i.
func (a Accessor) Index(i int) Accessor {
	switch a.tree.kind {
	case KindAbsent, KindNull, KindFailed:
		return a
	case KindCustom:
		return a.render().Index(i)
	case KindSequence:
		n, err := a.tree.materialize(a.ctx)
		if err != nil {
			return a.child(failedTree(err), a.path)
		}
		if i < 0 || i >= len(n.Values) {
			e := newError(ErrIndexOutOfBounds, "index %d out of bounds for array of length %d", i, len(n.Values))
			return a.child(failedTree(e), a.indexPath(i))
		}
		return a.child(nodeTree(n.Values[i]), a.indexPath(i))
	default:
		return a.child(failedTree(newError(ErrNotAnArray, "not an array")), a.path)
	}
}

// At follows a path such as "a.b[2].c".  A malformed path yields a failed
// accessor.
func (a Accessor) At(path string) Accessor {
	kp, err := kpath.Parse(path)
	if err != nil {
		return a.child(failedTree(newError(ErrConversionFailed, "%v", err)), a.path)
	}
	return a.AtPath(kp)
}

func (a Accessor) AtPath(kp *kpath.KPath) Accessor {
	res := a
	for x := kp; x != nil; x = x.Next {
		switch {
		case x.Field != nil:
			res = res.Key(*x.Field)
		case x.Index != nil:
			res = res.Index(*x.Index)
		}
	}
	return res
}

// Len returns the number of elements or fields of a.
func (a Accessor) Len() (int, error) {
	n, err := a.raw()
	if err != nil {
		return 0, err
	}
	switch n.Type {
	case ir.ArrayType:
		return len(n.Values), nil
	case ir.ObjectType:
		return len(n.Fields), nil
	}
	return 0, a.fail(ErrConversionFailed, "value of type %s has no length", n.Type)
}

// Keys returns the fields of a, which must be a dictionary.
func (a Accessor) Keys() ([]string, error) {
	n, err := a.raw()
	if err != nil {
		return nil, err
	}
	if n.Type != ir.ObjectType {
		return nil, a.shapeError(n, ErrNotADictionary)
	}
	return append([]string(nil), n.Fields...), nil
}

func (a Accessor) shapeError(n *ir.Node, kind error) *Error {
	if n.Type == ir.NullType {
		return a.fail(ErrNullEncountered, "unexpected null, %v", kind)
	}
	return a.fail(kind, "%v: %s", kind, n.Type)
}

func (a Accessor) GoString() string {
	return fmt.Sprintf("dyn.Accessor{kind: %s, path: %q}", a.tree.kind, a.Path())
}
