package dyn

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NullMarker is the Go value of an explicit null.
type NullMarker struct{}

// Null is passed to Set, Append and friends to write an explicit null.
var Null = NullMarker{}

func (NullMarker) String() string { return "null" }

// DateFormat controls the conversion of time.Time when placed in a
// Context.  Without one, dates use ISO8601.
type DateFormat struct {
	Layout string
}

// ISO8601 formats dates with millisecond precision and parses any
// RFC 3339 date.
var ISO8601 = DateFormat{Layout: "2006-01-02T15:04:05.000Z07:00"}

func (f DateFormat) Format(t time.Time) string {
	return t.Format(f.Layout)
}

func (f DateFormat) Parse(s string) (time.Time, error) {
	if f.Layout == ISO8601.Layout {
		return time.Parse(time.RFC3339, s)
	}
	return time.Parse(f.Layout, s)
}

func dateFormat(ctx Context) DateFormat {
	if f, ok := ContextValue[DateFormat](ctx); ok && f.Layout != "" {
		return f
	}
	return ISO8601
}

func extractTime(a Accessor, s string) (time.Time, error) {
	t, err := dateFormat(a.ctx).Parse(s)
	if err != nil {
		return t, a.fail(ErrConversionFailed, "could not parse date %q", s)
	}
	return t, nil
}

func extractUUID(a Accessor, s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		e := a.fail(ErrConversionFailed, "could not parse uuid %q", s)
		e.Err = err
		return u, e
	}
	return u, nil
}

func extractURL(a Accessor, s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		e := a.fail(ErrConversionFailed, "could not parse url %q", s)
		e.Err = err
		return nil, e
	}
	return u, nil
}

func extractDecimal(a Accessor, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		e := a.fail(ErrConversionFailed, "could not parse decimal %q", s)
		e.Err = err
		return d, e
	}
	return d, nil
}
