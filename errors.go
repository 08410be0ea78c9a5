package dyn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error kinds.  Every *Error carries one of these as its Kind so callers
// can test with errors.Is.
var (
	ErrMissingValue     = errors.New("value missing")
	ErrNullEncountered  = errors.New("null encountered")
	ErrNotAnArray       = errors.New("not an array")
	ErrNotADictionary   = errors.New("not a dictionary")
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrKeyAbsentContext = errors.New("key absent from context")
	ErrConversionFailed = errors.New("conversion failed")
	ErrDoesNotFit       = errors.New("does not fit")
	ErrAssertionFailed  = errors.New("assertion failed")
	ErrKnownFailure     = errors.New("known failure")
)

// Error is a failure located in a tree.  Path is the location of the
// failure relative to the root of the accessor which reported it, such as
// "a.b[2].c".
type Error struct {
	Kind    error
	Message string
	Path    string
	Err     error

	snapshot func() string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "dyn: " + e.Message
	}
	return fmt.Sprintf("dyn: %s at %s", e.Message, e.Path)
}

func (e *Error) Unwrap() []error {
	res := make([]error, 0, 2)
	if e.Kind != nil {
		res = append(res, e.Kind)
	}
	if e.Err != nil {
		res = append(res, e.Err)
	}
	return res
}

// Snapshot returns a textual rendering of the subtree in which the error
// occurred, or "" if none is available.
func (e *Error) Snapshot() string {
	if e.snapshot == nil {
		return ""
	}
	return e.snapshot()
}

func newError(kind error, msg string, args ...any) *Error {
	if len(args) != 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &Error{Kind: kind, Message: msg}
}

// composePath prefixes inner with key.  An inner path beginning with an
// index is appended without a separator.
func composePath(key, inner string) string {
	if key == "" {
		return inner
	}
	if inner == "" || strings.HasPrefix(inner, "[") {
		return key + inner
	}
	return key + "." + inner
}

func indexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// asError converts any error into an *Error.  Errors which are not
// already located become known failures of the given kind.
func asError(err error, kind error) *Error {
	if de, ok := err.(*Error); ok {
		return de
	}
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

// rootError returns a copy of err located under key.  snap provides the
// snapshot when err does not have one.
func rootError(err error, key string, snap func() string) error {
	if err == nil {
		return nil
	}
	de := asError(err, ErrKnownFailure)
	res := *de
	res.Path = composePath(key, de.Path)
	if snap != nil {
		res.snapshot = func() string {
			if s := de.Snapshot(); s != "" {
				return s
			}
			return snap()
		}
	}
	return &res
}
