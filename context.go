package dyn

import (
	"maps"
	"reflect"
)

// Context carries auxiliary values used by conversions, keyed by their
// dynamic type.  A DateFormat in the context, for example, controls how
// time.Time values are converted.
//
// The zero Context is empty and ready to use.  Contexts are immutable.
type Context struct {
	vals map[reflect.Type]any
}

// NewContext creates a context holding vals.  A Context among vals
// contributes all its entries; nil values are skipped.  Later values
// replace earlier ones of the same type.
func NewContext(vals ...any) Context {
	return Context{}.With(vals...)
}

// With returns a copy of c with vals added, replacing values of the same
// type.
func (c Context) With(vals ...any) Context {
	if len(vals) == 0 {
		return c
	}
	res := Context{vals: maps.Clone(c.vals)}
	if res.vals == nil {
		res.vals = make(map[reflect.Type]any, len(vals))
	}
	for _, v := range vals {
		switch x := v.(type) {
		case nil:
		case Context:
			maps.Copy(res.vals, x.vals)
		case *Context:
			if x != nil {
				maps.Copy(res.vals, x.vals)
			}
		default:
			res.vals[reflect.TypeOf(v)] = v
		}
	}
	return res
}

// Union returns the entries of c and o, preferring o on conflicts.
func (c Context) Union(o Context) Context {
	if len(o.vals) == 0 {
		return c
	}
	if len(c.vals) == 0 {
		return o
	}
	res := Context{vals: maps.Clone(c.vals)}
	maps.Copy(res.vals, o.vals)
	return res
}

func (c Context) Len() int {
	return len(c.vals)
}

// ContextValue returns the value of type T held in c.  When T is an
// interface type and no value was stored under T itself, any value
// implementing T matches; if several do, the one whose type name sorts
// first is returned.
func ContextValue[T any](c Context) (T, bool) {
	ty := reflect.TypeFor[T]()
	if v, ok := c.vals[ty]; ok {
		return v.(T), true
	}
	var (
		res   T
		resTy reflect.Type
	)
	if ty.Kind() != reflect.Interface {
		return res, false
	}
	for vt, v := range c.vals {
		x, ok := v.(T)
		if !ok {
			continue
		}
		if resTy == nil || vt.String() < resTy.String() {
			res, resTy = x, vt
		}
	}
	return res, resTy != nil
}

// RequireContextValue returns the value of type T in the context of a, or
// an error of kind ErrKeyAbsentContext located at a.
func RequireContextValue[T any](a Accessor) (T, error) {
	v, ok := ContextValue[T](a.ctx)
	if !ok {
		return v, a.fail(ErrKeyAbsentContext, "context does not contain any value of type %s", reflect.TypeFor[T]())
	}
	return v, nil
}
