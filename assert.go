package dyn

// Assert returns an error of kind ErrAssertionFailed located at a unless
// cond holds.  It is meant for use in FromDyn implementations.
func (a Accessor) Assert(cond bool, msg string, args ...any) error {
	if cond {
		return nil
	}
	return a.fail(ErrAssertionFailed, msg, args...)
}

// AssertionFailure returns an error of kind ErrAssertionFailed located at
// a.
func (a Accessor) AssertionFailure(msg string, args ...any) error {
	return a.fail(ErrAssertionFailed, msg, args...)
}

// AssertNotNil returns *v, or an assertion failure located at a when v is
// nil.
func AssertNotNil[T any](a Accessor, v *T, msg string) (T, error) {
	if v == nil {
		var zero T
		return zero, a.fail(ErrAssertionFailed, "%s", msg)
	}
	return *v, nil
}
