package dyn

import (
	"github.com/signadot/go-dyn/debug"
)

// Getter is a keyed source of raw values, such as a preferences file or
// an in memory map.  The store package provides implementations.
type Getter interface {
	Get(key string) (any, bool, error)
}

// Setter is a Getter which can also be written.  Setting nil removes the
// key.
type Setter interface {
	Getter
	Set(key string, v any) error
}

// FromStore returns an accessor on the value held under key, located at
// key.  A missing key is absent.
func FromStore(g Getter, key string, ctx ...Context) (Accessor, error) {
	v, ok, err := g.Get(key)
	if err != nil {
		e := newError(ErrKnownFailure, "%v", err)
		e.Err = err
		e.Path = key
		return Accessor{}, e
	}
	if debug.Store() {
		debug.Logf("store get %q found=%t\n", key, ok)
	}
	a := FromRawUnchecked(v, ctx...)
	if !ok {
		a = Accessor{ctx: a.ctx}
	}
	a.path = func() string { return key }
	return a, nil
}

// SetInStore materializes a and writes it under key.  Absent values
// remove key.
func SetInStore(s Setter, key string, a Accessor) error {
	n, err := a.RawOptional()
	if err != nil {
		return err
	}
	if debug.Store() {
		debug.Logf("store set %q: %v\n", key, n)
	}
	var v any
	if n != nil {
		v = n
	}
	if err := s.Set(key, v); err != nil {
		e := newError(ErrKnownFailure, "%v", err)
		e.Err = err
		e.Path = key
		return e
	}
	return nil
}

// UpdateInStore reads key, applies f and writes the result back.
func UpdateInStore(s Setter, key string, f func(Accessor) Accessor, ctx ...Context) error {
	a, err := FromStore(s, key, ctx...)
	if err != nil {
		return err
	}
	return SetInStore(s, key, f(a))
}
