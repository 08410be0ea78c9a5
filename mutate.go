package dyn

import (
	"github.com/signadot/go-dyn/debug"
	"github.com/signadot/go-dyn/ir"
	"github.com/signadot/go-dyn/ir/kpath"
)

// Set returns a with key set to the representation of v.  Setting an
// absent value (such as nil) removes key.
//
// Writing a key into an absent or primitive value turns it into a
// dictionary; writing into an array or null yields a failed accessor with
// kind ErrNotADictionary.
func (a Accessor) Set(key string, v any) Accessor {
	return a.mapWrite(setPatch(key, represent(v, false)))
}

// Delete returns a without key.
func (a Accessor) Delete(key string) Accessor {
	return a.mapWrite(deletePatch(key))
}

// Union returns a with all the fields of other, which must be a
// dictionary.  Fields of other replace those of a.
func (a Accessor) Union(other any) Accessor {
	return a.mapWrite(objectPatch(represent(other, false)))
}

// SetIndex returns a with the element at i replaced by the representation
// of v.  Setting an absent value removes the element.  The index is
// checked when a is materialized.
func (a Accessor) SetIndex(i int, v any) Accessor {
	return a.seqWrite(elementPatch(&i, represent(v, false)))
}

// RemoveIndex returns a without the element at i.
func (a Accessor) RemoveIndex(i int) Accessor {
	return a.seqWrite(seqPatch{index: &i, elems: func(Context, int) ([]*ir.Node, error) {
		return nil, nil
	}})
}

// Append returns a with vs appended.  Absent values are skipped.
//
// Appending to an absent value creates an array, and appending to a
// primitive creates an array holding the primitive followed by vs.
func (a Accessor) Append(vs ...any) Accessor {
	ts := make([]Tree, len(vs))
	for i, v := range vs {
		ts[i] = represent(v, false)
	}
	return a.seqWrite(elementsPatch(ts))
}

// SetAt returns a with the value at path set to v, creating
// intermediate dictionaries as needed.  The empty path replaces a.
func (a Accessor) SetAt(path string, v any) Accessor {
	t := represent(v, false)
	return a.UpdateAt(path, func(Accessor) Accessor {
		return Accessor{tree: t}
	})
}

// DeleteAt returns a with the value at path removed: a field from its
// dictionary or an element from its array.  Deleting under a missing
// parent leaves a unchanged.
func (a Accessor) DeleteAt(path string) Accessor {
	kp, err := kpath.Parse(path)
	if err != nil {
		return a.child(failedTree(newError(ErrConversionFailed, "%v", err)), a.path)
	}
	if kp == nil {
		return a.child(failedTree(newError(ErrConversionFailed, "cannot delete the root")), a.path)
	}
	parent, last := kp.Parent(), kp.Last()
	if a.AtPath(parent).IsAbsent() {
		return a
	}
	return a.updateAt(parent, func(p Accessor) Accessor {
		if last.Field != nil {
			return p.Delete(*last.Field)
		}
		return p.RemoveIndex(*last.Index)
	})
}

// UpdateAt returns a with the value at path replaced by f applied to it.
func (a Accessor) UpdateAt(path string, f func(Accessor) Accessor) Accessor {
	kp, err := kpath.Parse(path)
	if err != nil {
		return a.child(failedTree(newError(ErrConversionFailed, "%v", err)), a.path)
	}
	return a.updateAt(kp, f)
}

func (a Accessor) updateAt(kp *kpath.KPath, f func(Accessor) Accessor) Accessor {
	if kp == nil {
		r := f(a)
		return Accessor{tree: r.tree, ctx: a.ctx.Union(r.ctx), path: a.path}
	}
	switch {
	case kp.Field != nil:
		key := *kp.Field
		c := a.Key(key).updateAt(kp.Next, f)
		return a.mapWrite(setPatch(key, represent(c, false)))
	case kp.Index != nil:
		i := *kp.Index
		c := a.Index(i).updateAt(kp.Next, f)
		return a.seqWrite(elementPatch(&i, represent(c, false)))
	}
	return a
}

// WithContext returns a with vals added to its context.
func (a Accessor) WithContext(vals ...any) Accessor {
	a.ctx = a.ctx.With(vals...)
	return a
}

// UnionContext returns a with its context unioned with ctx, preferring
// the values in ctx.
func (a Accessor) UnionContext(ctx Context) Accessor {
	a.ctx = a.ctx.Union(ctx)
	return a
}

func (a Accessor) mapWrite(p mapPatch) Accessor {
	t := a.tree
	switch t.kind {
	case KindMapping:
		t.mapping = append(t.mapping[:len(t.mapping):len(t.mapping)], p)
	case KindAbsent:
		t = Tree{kind: KindMapping, mapping: []mapPatch{p}}
	case KindPrimitive:
		t = Tree{kind: KindMapping, mapping: []mapPatch{objectPatch(t), p}}
	case KindCustom:
		r := a.render()
		return Accessor{tree: r.mapWrite(p).tree, ctx: r.ctx, path: a.path}
	default:
		t = failedTree(newError(ErrNotADictionary, "not a dictionary"))
	}
	if debug.Patch() {
		debug.Logf("mapping patch at %q: %s -> %s\n", a.Path(), a.tree.kind, t.kind)
	}
	return Accessor{tree: t, ctx: a.ctx, path: a.path}
}

func (a Accessor) seqWrite(p seqPatch) Accessor {
	t := a.tree
	switch t.kind {
	case KindSequence:
		t.seq = append(t.seq[:len(t.seq):len(t.seq)], p)
	case KindAbsent:
		t = Tree{kind: KindSequence, seq: []seqPatch{p}}
	case KindPrimitive:
		t = Tree{kind: KindSequence, seq: []seqPatch{seedSequencePatch(t), p}}
	case KindCustom:
		r := a.render()
		return Accessor{tree: r.seqWrite(p).tree, ctx: r.ctx, path: a.path}
	default:
		t = failedTree(newError(ErrNotAnArray, "not an array"))
	}
	if debug.Patch() {
		debug.Logf("sequence patch at %q: %s -> %s\n", a.Path(), a.tree.kind, t.kind)
	}
	return Accessor{tree: t, ctx: a.ctx, path: a.path}
}
