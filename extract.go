package dyn

import (
	"encoding"
	"math"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/signadot/go-dyn/debug"
	"github.com/signadot/go-dyn/gomap"
	"github.com/signadot/go-dyn/ir"
)

// Extractable is implemented by pointer types which extract themselves
// from an accessor.  Errors other than *Error are reported as assertion
// failures at the accessor.
type Extractable interface {
	FromDyn(a Accessor) error
}

var (
	extractableType     = reflect.TypeFor[Extractable]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	timeType            = reflect.TypeFor[time.Time]()
	uuidType            = reflect.TypeFor[uuid.UUID]()
	urlType             = reflect.TypeFor[url.URL]()
	decimalType         = reflect.TypeFor[decimal.Decimal]()
	nullMarkerType      = reflect.TypeFor[NullMarker]()
	accessorType        = reflect.TypeFor[Accessor]()
	nodePtrType         = reflect.TypeFor[*ir.Node]()
)

// Into extracts the value of a into dst, which must be a non-nil pointer.
//
// Pointer types act as options: absent and null values set them to nil.
// Every other type requires a value, reporting an error of kind
// ErrMissingValue when a is absent and ErrNullEncountered when a is null.
// Numeric conversions which lose information fail with ErrDoesNotFit.
//
// Errors are located at the position in the tree where they occur.
func (a Accessor) Into(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return a.fail(ErrConversionFailed, "cannot extract into %T, need a non-nil pointer", dst)
	}
	return a.into(rv.Elem())
}

// Extract returns the value of a as a T.
func Extract[T any](a Accessor) (T, error) {
	var res T
	err := a.Into(&res)
	return res, err
}

// ExtractOptional returns nil when a is absent or null.
func ExtractOptional[T any](a Accessor) (*T, error) {
	var res *T
	err := a.Into(&res)
	return res, err
}

// ExtractEnum extracts a and checks that it is one of cases.
func ExtractEnum[E comparable](a Accessor, cases ...E) (E, error) {
	v, err := Extract[E](a)
	if err != nil {
		return v, err
	}
	if !slices.Contains(cases, v) {
		var zero E
		return zero, a.fail(ErrConversionFailed, "could not find case matching raw value %v", v)
	}
	return v, nil
}

func (a Accessor) into(rv reflect.Value) error {
	t := rv.Type()
	if debug.Extract() {
		debug.Logf("extract %s at %q\n", t, a.Path())
	}
	if rv.CanAddr() && reflect.PointerTo(t).Implements(extractableType) {
		return a.fromDyn(rv.Addr().Interface().(Extractable))
	}
	switch t {
	case accessorType:
		rv.Set(reflect.ValueOf(a))
		return nil
	case nodePtrType:
		n, err := a.RawOptional()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(n))
		return nil
	}
	if t.Kind() == reflect.Pointer {
		return a.intoOption(rv)
	}

	n, err := a.raw()
	if err != nil {
		return err
	}
	// pin the materialized value so nested reads do not refold
	a = a.child(nodeTree(n), a.path)

	switch t {
	case nullMarkerType:
		if n.Type != ir.NullType {
			return a.fail(ErrConversionFailed, "expected null, got %s", n.Type)
		}
		return nil
	case timeType:
		s, err := a.text(n, t)
		if err != nil {
			return err
		}
		tm, err := extractTime(a, s)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(tm))
		return nil
	case uuidType:
		s, err := a.text(n, t)
		if err != nil {
			return err
		}
		u, err := extractUUID(a, s)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(u))
		return nil
	case urlType:
		s, err := a.text(n, t)
		if err != nil {
			return err
		}
		u, err := extractURL(a, s)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(*u))
		return nil
	case decimalType:
		s, err := a.text(n, t)
		if err != nil {
			return err
		}
		d, err := extractDecimal(a, s)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(d))
		return nil
	}
	if rv.CanAddr() && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		s, err := a.text(n, t)
		if err != nil {
			return err
		}
		tu := rv.Addr().Interface().(encoding.TextUnmarshaler)
		if err := tu.UnmarshalText([]byte(s)); err != nil {
			e := a.fail(ErrConversionFailed, "could not convert %q to %s", s, t)
			e.Err = err
			return e
		}
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		if n.Type != ir.BoolType {
			return a.typeError(n, t)
		}
		rv.SetBool(n.Bool)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := a.intValue(n, t)
		if err != nil {
			return err
		}
		if rv.OverflowInt(i) {
			return a.doesNotFit(n, t)
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := a.uintValue(n, t)
		if err != nil {
			return err
		}
		if rv.OverflowUint(u) {
			return a.doesNotFit(n, t)
		}
		rv.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := a.floatValue(n, t)
		if err != nil {
			return err
		}
		if rv.OverflowFloat(f) {
			return a.doesNotFit(n, t)
		}
		rv.SetFloat(f)
	case reflect.String:
		s, err := a.text(n, t)
		if err != nil {
			return err
		}
		rv.SetString(s)
	case reflect.Slice:
		if n.Type != ir.ArrayType {
			return a.shapeError(n, ErrNotAnArray)
		}
		res := reflect.MakeSlice(t, len(n.Values), len(n.Values))
		for i, elt := range n.Values {
			if err := a.child(nodeTree(elt), a.indexPath(i)).into(res.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(res)
	case reflect.Array:
		if n.Type != ir.ArrayType {
			return a.shapeError(n, ErrNotAnArray)
		}
		if len(n.Values) != t.Len() {
			return a.fail(ErrConversionFailed, "expected %d elements, got %d", t.Len(), len(n.Values))
		}
		for i, elt := range n.Values {
			if err := a.child(nodeTree(elt), a.indexPath(i)).into(rv.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		return a.intoMap(rv, n)
	case reflect.Struct:
		return a.intoStruct(rv, n)
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return a.fail(ErrConversionFailed, "cannot extract into interface %s", t)
		}
		if v := ir.ToAny(n); v != nil {
			rv.Set(reflect.ValueOf(v))
		} else {
			rv.SetZero()
		}
	default:
		return a.fail(ErrConversionFailed, "cannot extract into %s", t)
	}
	return nil
}

func (a Accessor) fromDyn(x Extractable) error {
	err := x.FromDyn(a)
	if err == nil {
		return nil
	}
	if _, ok := err.(*Error); ok {
		return err
	}
	e := a.fail(ErrAssertionFailed, "%v", err)
	e.Err = err
	return e
}

// intoOption sets the pointer rv to nil for absent or null values and
// otherwise extracts into a fresh element.
func (a Accessor) intoOption(rv reflect.Value) error {
	n, err := a.rawOptional()
	if err != nil {
		return err
	}
	et := rv.Type().Elem()
	if n == nil || (n.Type == ir.NullType && et != nullMarkerType) {
		rv.SetZero()
		return nil
	}
	p := reflect.New(et)
	if err := a.child(nodeTree(n), a.path).into(p.Elem()); err != nil {
		return err
	}
	rv.Set(p)
	return nil
}

func (a Accessor) intoMap(rv reflect.Value, n *ir.Node) error {
	t := rv.Type()
	if n.Type != ir.ObjectType {
		return a.shapeError(n, ErrNotADictionary)
	}
	res := reflect.MakeMapWithSize(t, len(n.Fields))
	for i, f := range n.Fields {
		k := reflect.New(t.Key()).Elem()
		c := a.child(constTree(ir.FromString(f)), a.keyPath(f))
		if err := c.into(k); err != nil {
			return err
		}
		v := reflect.New(t.Elem()).Elem()
		if err := a.child(nodeTree(n.Values[i]), a.keyPath(f)).into(v); err != nil {
			return err
		}
		res.SetMapIndex(k, v)
	}
	rv.Set(res)
	return nil
}

func (a Accessor) intoStruct(rv reflect.Value, n *ir.Node) error {
	if n.Type != ir.ObjectType {
		return a.shapeError(n, ErrNotADictionary)
	}
	for _, f := range gomap.Fields(rv.Type()) {
		fv := rv.FieldByIndex(f.Index)
		v := ir.Get(n, f.Name)
		if v == nil {
			if f.Optional {
				continue
			}
			return a.child(absentTree(a.snapshot), a.keyPath(f.Name)).fail(ErrMissingValue, "value missing")
		}
		if err := a.child(nodeTree(v), a.keyPath(f.Name)).into(fv); err != nil {
			return err
		}
	}
	return nil
}

// text returns the textual form of a primitive.  Numbers and booleans
// are stringified.
func (a Accessor) text(n *ir.Node, t reflect.Type) (string, error) {
	switch n.Type {
	case ir.StringType, ir.NumberType, ir.BoolType:
		return n.Text(), nil
	}
	return "", a.typeError(n, t)
}

func (a Accessor) typeError(n *ir.Node, t reflect.Type) *Error {
	if n.Type == ir.NullType {
		return a.fail(ErrNullEncountered, "unexpected null, expected %s", t)
	}
	return a.fail(ErrConversionFailed, "cannot convert %s to %s", n.Type, t)
}

func (a Accessor) doesNotFit(n *ir.Node, t reflect.Type) *Error {
	return a.fail(ErrDoesNotFit, "value `%s` does not fit in %s", n.Text(), t)
}

// number returns n as a number node, parsing strings.
func (a Accessor) number(n *ir.Node, t reflect.Type) (*ir.Node, error) {
	switch n.Type {
	case ir.NumberType:
		return n, nil
	case ir.StringType:
		res, err := ir.FromNumber(n.String)
		if err != nil {
			e := a.fail(ErrConversionFailed, "could not convert %q to %s", n.String, t)
			e.Err = err
			return nil, e
		}
		return res, nil
	}
	return nil, a.typeError(n, t)
}

func (a Accessor) intValue(n *ir.Node, t reflect.Type) (int64, error) {
	num, err := a.number(n, t)
	if err != nil {
		return 0, err
	}
	if num.Int64 != nil {
		return *num.Int64, nil
	}
	if num.Float64 != nil {
		f := *num.Float64
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), nil
		}
	}
	return 0, a.doesNotFit(n, t)
}

func (a Accessor) uintValue(n *ir.Node, t reflect.Type) (uint64, error) {
	num, err := a.number(n, t)
	if err != nil {
		return 0, err
	}
	if num.Int64 != nil {
		if *num.Int64 < 0 {
			return 0, a.doesNotFit(n, t)
		}
		return uint64(*num.Int64), nil
	}
	if u, err := strconv.ParseUint(num.Number, 10, 64); err == nil {
		return u, nil
	}
	if num.Float64 != nil {
		f := *num.Float64
		if f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 {
			return uint64(f), nil
		}
	}
	return 0, a.doesNotFit(n, t)
}

func (a Accessor) floatValue(n *ir.Node, t reflect.Type) (float64, error) {
	num, err := a.number(n, t)
	if err != nil {
		return 0, err
	}
	if num.Int64 != nil {
		return float64(*num.Int64), nil
	}
	f, perr := strconv.ParseFloat(num.Number, 64)
	if num.Float64 != nil {
		f, perr = *num.Float64, nil
	}
	if perr != nil || math.IsInf(f, 0) {
		return 0, a.doesNotFit(n, t)
	}
	return f, nil
}
