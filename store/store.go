// Package store provides keyed stores of raw values for use with
// dyn.FromStore and dyn.SetInStore.
package store

import (
	"errors"
	"fmt"

	"github.com/signadot/go-dyn/ir"
)

var ErrReadOnly = errors.New("store is read only")

func toNode(key string, v any) (*ir.Node, error) {
	n, err := ir.FromAny(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
