package dyn

import (
	"github.com/signadot/go-dyn/debug"
	"github.com/signadot/go-dyn/ir"
)

// Kind identifies the case of a Tree.
type Kind int

const (
	KindAbsent Kind = iota
	KindNull
	KindPrimitive
	KindSequence
	KindMapping
	KindCustom
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindPrimitive:
		return "primitive"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindCustom:
		return "custom"
	case KindFailed:
		return "failed"
	default:
		return "<unknown kind>"
	}
}

// Thunk computes a primitive value.  It may return an *ir.Node, a Tree,
// an Accessor, or a plain Go value, which is converted on return.  Thunks
// must be deterministic given their Context.
type Thunk func(Context) (any, error)

// Tree is the deferred representation of a value.  Mutations are
// recorded as patches which are folded when the tree is materialized.
//
// Trees are immutable: patch lists are shared between trees and never
// appended in place.
type Tree struct {
	kind    Kind
	prim    Thunk
	seq     []seqPatch
	mapping []mapPatch
	custom  func(Context) Accessor
	err     error
	absent  func() string
}

func (t Tree) Kind() Kind {
	return t.kind
}

func absentTree(desc func() string) Tree {
	return Tree{kind: KindAbsent, absent: desc}
}

func nullTree() Tree {
	return Tree{kind: KindNull}
}

func primitiveTree(th Thunk) Tree {
	return Tree{kind: KindPrimitive, prim: th}
}

func constTree(n *ir.Node) Tree {
	return primitiveTree(func(Context) (any, error) { return n, nil })
}

func customTree(render func(Context) Accessor) Tree {
	return Tree{kind: KindCustom, custom: render}
}

func failedTree(err error) Tree {
	return Tree{kind: KindFailed, err: err}
}

// nodeTree classifies a raw node.
func nodeTree(n *ir.Node) Tree {
	if n == nil {
		return absentTree(nil)
	}
	switch n.Type {
	case ir.NullType:
		return nullTree()
	case ir.ArrayType:
		return Tree{kind: KindSequence, seq: []seqPatch{nodesPatch(n.Values)}}
	case ir.ObjectType:
		return Tree{kind: KindMapping, mapping: []mapPatch{entriesPatch(n)}}
	default:
		return constTree(n)
	}
}

// materialize resolves t.  Errors are located relative to t.
func (t Tree) materialize(ctx Context) (*ir.Node, error) {
	n, ok, err := t.materializeOptional(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		e := newError(ErrMissingValue, "value missing")
		e.snapshot = t.absent
		return nil, e
	}
	return n, nil
}

// materializeOptional is like materialize but reports absence with a
// false second result rather than an error.
func (t Tree) materializeOptional(ctx Context) (*ir.Node, bool, error) {
	switch t.kind {
	case KindAbsent:
		return nil, false, nil
	case KindNull:
		return ir.Null(), true, nil
	case KindPrimitive:
		v, err := t.prim(ctx)
		if err != nil {
			return nil, false, err
		}
		return unwrap(v, ctx)
	case KindSequence:
		n, err := foldSequence(t.seq, ctx)
		if err != nil {
			return nil, false, err
		}
		return n, true, nil
	case KindMapping:
		n, err := foldMapping(t.mapping, ctx)
		if err != nil {
			return nil, false, err
		}
		return n, true, nil
	case KindCustom:
		r := t.custom(ctx)
		return r.tree.materializeOptional(r.ctx.Union(ctx))
	case KindFailed:
		return nil, false, t.err
	}
	return nil, false, newError(ErrConversionFailed, "invalid tree kind %d", t.kind)
}

// unwrap converts the result of a primitive thunk to a node, resolving
// nested trees once.
func unwrap(v any, ctx Context) (*ir.Node, bool, error) {
	switch x := v.(type) {
	case *ir.Node:
		if x == nil {
			return nil, false, nil
		}
		return x, true, nil
	case Tree:
		return x.materializeOptional(ctx)
	case Accessor:
		return x.tree.materializeOptional(x.ctx.Union(ctx))
	}
	n, err := represent(v, true).materialize(ctx)
	if err != nil {
		return nil, false, err
	}
	if debug.Materialize() {
		debug.Logf("unwrapped %T to %v\n", v, n)
	}
	return n, true, nil
}
