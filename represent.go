package dyn

import (
	"encoding"
	"encoding/json"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/signadot/go-dyn/gomap"
	"github.com/signadot/go-dyn/ir"
)

// Representable is implemented by types which provide their own
// representation.
type Representable interface {
	ToDyn() Accessor
}

// ContextRepresentable is implemented by types whose representation
// depends on the Context, such as a format held there.  It takes
// precedence over Representable.
type ContextRepresentable interface {
	ToDynWith(ctx Context) Accessor
}

// From returns an accessor holding the representation of v.
//
// nil, nil pointers and nil interfaces are absent.  NullMarker is null.
// Booleans, numbers and strings are primitives, slices and arrays are
// sequences, and maps with string, integer or text marshaling keys are
// mappings.  Structs are mappings of their exported fields, named by
// their `dyn:"name,omitempty"` tags.  Types implementing Representable
// or ContextRepresentable, accessors, time.Time, uuid.UUID, url.URL and
// decimal.Decimal have dedicated representations.
//
// Values with no representation yield a failed accessor of kind
// ErrConversionFailed.
func From(v any) Accessor {
	return Accessor{tree: represent(v, false)}
}

// FromRaw returns an accessor holding v, the output of a generic decoder
// such as encoding/json or a tree of Go values.  The whole of v is
// converted up front, so an error is returned immediately if any part of
// v has no representation.  A nil v is absent, while nested nils are
// nulls.
func FromRaw(v any, ctx ...Context) (Accessor, error) {
	c := NewContext(toAnys(ctx)...)
	if isNil(v) {
		return Accessor{ctx: c}, nil
	}
	n, err := represent(v, true).materialize(c)
	if err != nil {
		return Accessor{}, rootError(err, "", nil)
	}
	return Accessor{tree: nodeTree(n), ctx: c}, nil
}

// FromRawUnchecked is like FromRaw but defers the conversion of v to the
// first time it is read.  Only the top level shape of v is inspected, so
// reads behave as they would on FromRaw(v).
func FromRawUnchecked(v any, ctx ...Context) Accessor {
	return Accessor{tree: uncheckedTree(v), ctx: NewContext(toAnys(ctx)...)}
}

func uncheckedTree(v any) Tree {
	if isNil(v) {
		return absentTree(nil)
	}
	if t, ok := representSpecial(v); ok {
		return t
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nullTree()
		}
		if t, ok := representSpecial(rv.Interface()); ok {
			return t
		}
	}
	lazy := primitiveTree(func(Context) (any, error) {
		return represent(v, true), nil
	})
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return Tree{kind: KindMapping, mapping: []mapPatch{objectPatch(lazy)}}
	case reflect.Slice, reflect.Array:
		return Tree{kind: KindSequence, seq: []seqPatch{arrayPatch(lazy)}}
	}
	return lazy
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func Bool(b bool) Accessor {
	return Accessor{tree: constTree(ir.FromBool(b))}
}

func Int(i int64) Accessor {
	return Accessor{tree: constTree(ir.FromInt(i))}
}

func Uint(u uint64) Accessor {
	return Accessor{tree: constTree(ir.FromUint(u))}
}

func Float(f float64) Accessor {
	return Accessor{tree: constTree(ir.FromFloat(f))}
}

func String(s string) Accessor {
	return Accessor{tree: constTree(ir.FromString(s))}
}

// Array returns a sequence of the representations of elems.  Absent
// elements are skipped.
func Array(elems ...any) Accessor {
	ts := make([]Tree, len(elems))
	for i, e := range elems {
		ts[i] = represent(e, false)
	}
	return Accessor{tree: Tree{kind: KindSequence, seq: []seqPatch{elementsPatch(ts)}}}
}

// Map returns a mapping from alternating keys and values, keeping their
// order.  Keys must be strings.
func Map(kvs ...any) Accessor {
	if len(kvs)%2 != 0 {
		return Fail(newError(ErrConversionFailed, "odd number of arguments to Map"))
	}
	keys := make([]string, 0, len(kvs)/2)
	ts := make([]Tree, 0, len(kvs)/2)
	for i := 0; i < len(kvs); i += 2 {
		k, ok := kvs[i].(string)
		if !ok {
			return Fail(newError(ErrConversionFailed, "Map key %v is not a string", kvs[i]))
		}
		keys = append(keys, k)
		ts = append(ts, represent(kvs[i+1], false))
	}
	return Accessor{tree: Tree{kind: KindMapping, mapping: []mapPatch{fieldsPatch(keys, ts)}}}
}

// represent builds the tree of v.  In raw mode nil values are null rather
// than absent.  Nil slices and maps are empty, not nil.
func represent(v any, raw bool) Tree {
	if isNil(v) {
		return nilTree(raw)
	}
	if t, ok := representSpecial(v); ok {
		return t
	}
	return representValue(reflect.ValueOf(v), raw)
}

// representSpecial handles the values whose representation does not
// follow from their reflected kind.
func representSpecial(v any) (Tree, bool) {
	switch x := v.(type) {
	case Tree:
		return x, true
	case Accessor:
		return customTree(func(Context) Accessor { return x }), true
	case *Accessor:
		a := *x
		return customTree(func(Context) Accessor { return a }), true
	case *ir.Node:
		return nodeTree(x.Clone()), true
	case NullMarker:
		return nullTree(), true
	case ContextRepresentable:
		return customTree(x.ToDynWith), true
	case Representable:
		return customTree(func(Context) Accessor { return x.ToDyn() }), true
	case time.Time:
		return customTree(func(ctx Context) Accessor {
			return String(dateFormat(ctx).Format(x))
		}), true
	case uuid.UUID:
		return constTree(ir.FromString(x.String())), true
	case url.URL:
		return constTree(ir.FromString(x.String())), true
	case *url.URL:
		return constTree(ir.FromString(x.String())), true
	case decimal.Decimal:
		return constTree(ir.FromString(x.String())), true
	case json.Number:
		return primitiveTree(func(Context) (any, error) {
			n, err := ir.FromNumber(string(x))
			if err != nil {
				return nil, newError(ErrConversionFailed, "%v", err)
			}
			return n, nil
		}), true
	case encoding.TextMarshaler:
		return primitiveTree(func(Context) (any, error) {
			d, err := x.MarshalText()
			if err != nil {
				return nil, &Error{Kind: ErrConversionFailed, Message: err.Error(), Err: err}
			}
			return ir.FromString(string(d)), nil
		}), true
	}
	return Tree{}, false
}

func nilTree(raw bool) Tree {
	if raw {
		return nullTree()
	}
	return absentTree(nil)
}

func representValue(rv reflect.Value, raw bool) Tree {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return represent(rv.Elem().Interface(), raw)
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		n, err := ir.FromAny(rv.Interface())
		if err != nil {
			return failedTree(newError(ErrConversionFailed, "%v", err))
		}
		return constTree(n)
	case reflect.Slice, reflect.Array:
		ts := make([]Tree, rv.Len())
		for i := range ts {
			ts[i] = represent(rv.Index(i).Interface(), raw)
		}
		return Tree{kind: KindSequence, seq: []seqPatch{elementsPatch(ts)}}
	case reflect.Map:
		return representMap(rv, raw)
	case reflect.Struct:
		fields := gomap.Fields(rv.Type())
		keys := make([]string, 0, len(fields))
		ts := make([]Tree, 0, len(fields))
		for _, f := range fields {
			fv := rv.FieldByIndex(f.Index)
			if f.OmitEmpty && fv.IsZero() {
				continue
			}
			keys = append(keys, f.Name)
			ts = append(ts, represent(fv.Interface(), raw))
		}
		return Tree{kind: KindMapping, mapping: []mapPatch{fieldsPatch(keys, ts)}}
	}
	return failedTree(newError(ErrConversionFailed, "value of type %s does not conform to Representable", rv.Type()))
}

func representMap(rv reflect.Value, raw bool) Tree {
	keys := make([]string, 0, rv.Len())
	vals := map[string]Tree{}
	iter := rv.MapRange()
	for iter.Next() {
		k, err := mapKeyString(iter.Key())
		if err != nil {
			return failedTree(err)
		}
		keys = append(keys, k)
		vals[k] = represent(iter.Value().Interface(), raw)
	}
	slices.Sort(keys)
	ts := make([]Tree, len(keys))
	for i, k := range keys {
		ts[i] = vals[k]
	}
	return Tree{kind: KindMapping, mapping: []mapPatch{fieldsPatch(keys, ts)}}
}

func mapKeyString(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		d, err := tm.MarshalText()
		if err != nil {
			return "", &Error{Kind: ErrConversionFailed, Message: err.Error(), Err: err}
		}
		return string(d), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", newError(ErrConversionFailed, "map key type %s does not conform to Representable", k.Type())
}
