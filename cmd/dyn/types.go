package main

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signadot/go-dyn"
)

type extractFunc func(dyn.Accessor) (any, error)

func extractAs[T any](a dyn.Accessor) (any, error) {
	return dyn.Extract[T](a)
}

var extractors = map[string]extractFunc{
	"any":     extractAs[any],
	"string":  extractAs[string],
	"int":     extractAs[int64],
	"uint":    extractAs[uint64],
	"float":   extractAs[float64],
	"bool":    extractAs[bool],
	"time":    extractAs[time.Time],
	"uuid":    extractAs[uuid.UUID],
	"url":     extractAs[url.URL],
	"decimal": extractAs[decimal.Decimal],
	"object":  extractAs[map[string]any],
	"array":   extractAs[[]any],
}

func extractorFor(name string) (extractFunc, error) {
	f, ok := extractors[name]
	if ok {
		return f, nil
	}
	names := make([]string, 0, len(extractors))
	for k := range extractors {
		names = append(names, k)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown type %q, expected one of %s", name, strings.Join(names, ", "))
}
