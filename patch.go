package dyn

import (
	"slices"

	"github.com/signadot/go-dyn/ir"
)

// seqPatch appends to a sequence, or replaces the element at index when
// index is set.  elems is passed the position at which its elements land.
type seqPatch struct {
	index *int
	elems func(ctx Context, at int) ([]*ir.Node, error)
}

// mapEntry sets key to val, or removes key when remove is set.
type mapEntry struct {
	key    string
	val    *ir.Node
	remove bool
}

type mapPatch func(Context) ([]mapEntry, error)

func nodesPatch(vals []*ir.Node) seqPatch {
	return seqPatch{elems: func(Context, int) ([]*ir.Node, error) {
		return vals, nil
	}}
}

func elementPatch(index *int, t Tree) seqPatch {
	return seqPatch{index: index, elems: func(ctx Context, at int) ([]*ir.Node, error) {
		n, ok, err := t.materializeOptional(ctx)
		if err != nil {
			return nil, rootError(err, indexSegment(at), nil)
		}
		if !ok {
			return nil, nil
		}
		return []*ir.Node{n}, nil
	}}
}

// elementsPatch appends ts, dropping absent elements.
func elementsPatch(ts []Tree) seqPatch {
	return seqPatch{elems: func(ctx Context, at int) ([]*ir.Node, error) {
		res := make([]*ir.Node, 0, len(ts))
		for _, t := range ts {
			n, ok, err := t.materializeOptional(ctx)
			if err != nil {
				return nil, rootError(err, indexSegment(at+len(res)), nil)
			}
			if ok {
				res = append(res, n)
			}
		}
		return res, nil
	}}
}

// seedSequencePatch starts a sequence from an existing value: arrays are
// spliced, other values become the first element.
func seedSequencePatch(t Tree) seqPatch {
	return seqPatch{elems: func(ctx Context, _ int) ([]*ir.Node, error) {
		n, ok, err := t.materializeOptional(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if n.Type == ir.ArrayType {
			return n.Values, nil
		}
		return []*ir.Node{n}, nil
	}}
}

// arrayPatch appends the elements of t, which must be an array.
func arrayPatch(t Tree) seqPatch {
	return seqPatch{elems: func(ctx Context, _ int) ([]*ir.Node, error) {
		n, err := t.materialize(ctx)
		if err != nil {
			return nil, err
		}
		if n.Type != ir.ArrayType {
			return nil, newError(ErrNotAnArray, "not an array: %s", n.Type)
		}
		return n.Values, nil
	}}
}

func foldSequence(ps []seqPatch, ctx Context) (*ir.Node, error) {
	res := []*ir.Node{}
	for _, p := range ps {
		if p.index == nil {
			elems, err := p.elems(ctx, len(res))
			if err != nil {
				return nil, err
			}
			res = append(res, elems...)
			continue
		}
		i := *p.index
		if i < 0 || i >= len(res) {
			e := newError(ErrIndexOutOfBounds, "index %d out of bounds for array of length %d", i, len(res))
			e.Path = indexSegment(i)
			return nil, e
		}
		elems, err := p.elems(ctx, i)
		if err != nil {
			return nil, err
		}
		res = slices.Concat(res[:i], elems, res[i+1:])
	}
	return &ir.Node{Type: ir.ArrayType, Values: res}, nil
}

func entriesOf(n *ir.Node) []mapEntry {
	res := make([]mapEntry, len(n.Fields))
	for i, f := range n.Fields {
		res[i] = mapEntry{key: f, val: n.Values[i]}
	}
	return res
}

func entriesPatch(n *ir.Node) mapPatch {
	return func(Context) ([]mapEntry, error) {
		return entriesOf(n), nil
	}
}

// setPatch sets key to the value of t, removing key if t is absent.
func setPatch(key string, t Tree) mapPatch {
	return func(ctx Context) ([]mapEntry, error) {
		n, ok, err := t.materializeOptional(ctx)
		if err != nil {
			return nil, rootError(err, key, nil)
		}
		if !ok {
			return []mapEntry{{key: key, remove: true}}, nil
		}
		return []mapEntry{{key: key, val: n}}, nil
	}
}

func deletePatch(key string) mapPatch {
	return func(Context) ([]mapEntry, error) {
		return []mapEntry{{key: key, remove: true}}, nil
	}
}

// fieldsPatch sets each key in order, skipping absent values.
func fieldsPatch(keys []string, ts []Tree) mapPatch {
	return func(ctx Context) ([]mapEntry, error) {
		res := make([]mapEntry, 0, len(keys))
		for i, key := range keys {
			n, ok, err := ts[i].materializeOptional(ctx)
			if err != nil {
				return nil, rootError(err, key, nil)
			}
			if ok {
				res = append(res, mapEntry{key: key, val: n})
			}
		}
		return res, nil
	}
}

// objectPatch merges in the entries of t, which must be an object.
// Absent values merge nothing.
func objectPatch(t Tree) mapPatch {
	return func(ctx Context) ([]mapEntry, error) {
		n, ok, err := t.materializeOptional(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if n.Type != ir.ObjectType {
			return nil, newError(ErrNotADictionary, "not a dictionary: %s", n.Type)
		}
		return entriesOf(n), nil
	}
}

func foldMapping(ps []mapPatch, ctx Context) (*ir.Node, error) {
	var (
		entries []mapEntry
		pos     = map[string]int{}
	)
	for _, p := range ps {
		es, err := p(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range es {
			i, ok := pos[e.key]
			if !ok {
				if e.remove {
					continue
				}
				pos[e.key] = len(entries)
				entries = append(entries, e)
				continue
			}
			entries[i] = e
		}
	}
	res := &ir.Node{
		Type:   ir.ObjectType,
		Fields: make([]string, 0, len(entries)),
		Values: make([]*ir.Node, 0, len(entries)),
	}
	for _, e := range entries {
		if e.remove {
			continue
		}
		res.Fields = append(res.Fields, e.key)
		res.Values = append(res.Values, e.val)
	}
	return res, nil
}
