// Package libdiff computes structural differences between IR nodes.
//
// A diff is a flat list of changes, each located by a path in the syntax
// of package kpath.  Objects are compared field by field, arrays are
// aligned by a sequence diff of their elements so that insertions do not
// show up as a cascade of replacements, and strings which are mostly
// unchanged carry a character level patch.
package libdiff

import (
	"fmt"

	"github.com/signadot/go-dyn/encode"
	"github.com/signadot/go-dyn/ir"
	"github.com/signadot/go-dyn/ir/kpath"
)

type Op int

const (
	Add Op = iota
	Remove
	Replace
)

func (o Op) String() string {
	switch o {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	default:
		return "<unknown op>"
	}
}

func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Change is a single difference.  From is nil for Add and To is nil for
// Remove.  Edits, when set on a string Replace, holds the character level
// patch from From to To in the diff-match-patch text format.
type Change struct {
	Path  string
	Op    Op
	From  *ir.Node
	To    *ir.Node
	Edits string
}

func (c Change) String() string {
	path := c.Path
	if path == "" {
		path = "."
	}
	switch c.Op {
	case Add:
		return fmt.Sprintf("+ %s: %s", path, wire(c.To))
	case Remove:
		return fmt.Sprintf("- %s: %s", path, wire(c.From))
	default:
		return fmt.Sprintf("~ %s: %s -> %s", path, wire(c.From), wire(c.To))
	}
}

func wire(n *ir.Node) string {
	if n == nil {
		return "<nil>"
	}
	return encode.MustString(n, encode.EncodeWire(true))
}

// Diff returns the changes which turn from into to, in document order.
// Equal nodes yield no changes.
func Diff(from, to *ir.Node) []Change {
	d := &differ{}
	d.diff("", from, to)
	return d.res
}

type differ struct {
	res []Change
}

func (d *differ) add(c Change) {
	d.res = append(d.res, c)
}

func (d *differ) diff(path string, from, to *ir.Node) {
	switch {
	case from == nil && to == nil:
		return
	case from == nil:
		d.add(Change{Path: path, Op: Add, To: to})
		return
	case to == nil:
		d.add(Change{Path: path, Op: Remove, From: from})
		return
	}
	if from.Type != to.Type {
		d.add(Change{Path: path, Op: Replace, From: from, To: to})
		return
	}
	switch from.Type {
	case ir.ObjectType:
		d.diffObject(path, from, to)
	case ir.ArrayType:
		d.diffArrayByIndex(path, from, to)
	case ir.StringType:
		if from.String != to.String {
			d.add(Change{Path: path, Op: Replace, From: from, To: to, Edits: stringEdits(from.String, to.String)})
		}
	default:
		if ir.Compare(from, to) != 0 {
			d.add(Change{Path: path, Op: Replace, From: from, To: to})
		}
	}
}

func (d *differ) diffObject(path string, from, to *ir.Node) {
	for i, f := range from.Fields {
		d.diff(fieldPath(path, f), from.Values[i], ir.Get(to, f))
	}
	for i, f := range to.Fields {
		if ir.Get(from, f) == nil {
			d.add(Change{Path: fieldPath(path, f), Op: Add, To: to.Values[i]})
		}
	}
}

func fieldPath(path, field string) string {
	return kpath.Join(path, kpath.Field(field).SegmentString())
}

func indexPath(path string, i int) string {
	return kpath.Join(path, kpath.Index(i).SegmentString())
}

// Reverse returns the changes which undo cs.
func Reverse(cs []Change) []Change {
	res := make([]Change, len(cs))
	for i, c := range cs {
		r := Change{Path: c.Path, From: c.To, To: c.From}
		switch c.Op {
		case Add:
			r.Op = Remove
		case Remove:
			r.Op = Add
		default:
			r.Op = Replace
			if c.Edits != "" {
				r.Edits = stringEdits(c.To.String, c.From.String)
			}
		}
		res[len(cs)-1-i] = r
	}
	return res
}
