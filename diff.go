package dyn

import (
	"github.com/signadot/go-dyn/libdiff"
)

// Diff materializes from and to and returns the changes between them.
// Change paths are relative to the accessors.
func Diff(from, to Accessor) ([]libdiff.Change, error) {
	f, err := from.RawOptional()
	if err != nil {
		return nil, err
	}
	t, err := to.RawOptional()
	if err != nil {
		return nil, err
	}
	return libdiff.Diff(f, t), nil
}
