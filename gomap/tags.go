// Package gomap describes how Go structs map to dictionaries: which
// fields take part and under what keys.
package gomap

import (
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag consulted for field names and options, as in
// `dyn:"name,omitempty"`.  A name of "-" skips the field.
const TagName = "dyn"

// Field is an exported struct field which takes part in conversion.
type Field struct {
	Name      string
	Index     []int
	Type      reflect.Type
	OmitEmpty bool
	// Optional fields may be absent on extraction.  Pointer fields and
	// fields tagged omitempty are optional.
	Optional bool
}

var cache sync.Map // reflect.Type -> []Field

// Fields returns the fields of the struct type ty in declaration order.
// Untagged embedded structs contribute their own fields.
func Fields(ty reflect.Type) []Field {
	if v, ok := cache.Load(ty); ok {
		return v.([]Field)
	}
	res := fields(ty, nil)
	v, _ := cache.LoadOrStore(ty, res)
	return v.([]Field)
}

func fields(ty reflect.Type, index []int) []Field {
	var res []Field
	for i := range ty.NumField() {
		f := ty.Field(i)
		tag, hasTag := f.Tag.Lookup(TagName)
		if tag == "-" {
			continue
		}
		idx := append(index[:len(index):len(index)], i)
		if f.Anonymous && !hasTag && f.Type.Kind() == reflect.Struct {
			res = append(res, fields(f.Type, idx)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		fld := Field{
			Name:  name,
			Index: idx,
			Type:  f.Type,
		}
		for _, opt := range strings.Split(opts, ",") {
			if opt == "omitempty" {
				fld.OmitEmpty = true
			}
		}
		fld.Optional = fld.OmitEmpty || f.Type.Kind() == reflect.Pointer
		res = append(res, fld)
	}
	return res
}
