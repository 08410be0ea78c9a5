package dyn

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/signadot/go-dyn/ir"
)

type role string

const (
	roleAdmin role = "admin"
	roleGuest role = "guest"
)

type level int

const (
	levelLow  level = 1
	levelHigh level = 2
)

type user struct {
	Name    string             `dyn:"name"`
	Age     int                `dyn:"age"`
	Tags    []string           `dyn:"tags"`
	Scores  map[string]float64 `dyn:"scores"`
	ID      uuid.UUID          `dyn:"id"`
	Home    url.URL            `dyn:"home"`
	Balance decimal.Decimal    `dyn:"balance"`
	Nick    *string            `dyn:"nick"`
	Role    role               `dyn:"role"`
	Level   level              `dyn:"level,omitempty"`
	Skip    string             `dyn:"-"`
}

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func mustURL(t *testing.T, s string) url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return *u
}

func TestRoundTrip(t *testing.T) {
	nick := "annie"
	tests := []struct {
		name string
		v    any
		into func(Accessor) (any, error)
	}{
		{"bool", true, func(a Accessor) (any, error) { return Extract[bool](a) }},
		{"int8", int8(-7), func(a Accessor) (any, error) { return Extract[int8](a) }},
		{"uint64", uint64(1 << 63), func(a Accessor) (any, error) { return Extract[uint64](a) }},
		{"float32", float32(0.1), func(a Accessor) (any, error) { return Extract[float32](a) }},
		{"float64", 2.5, func(a Accessor) (any, error) { return Extract[float64](a) }},
		{"string", "héllo", func(a Accessor) (any, error) { return Extract[string](a) }},
		{"ints", []int{3, 1, 2}, func(a Accessor) (any, error) { return Extract[[]int](a) }},
		{"array", [2]string{"a", "b"}, func(a Accessor) (any, error) { return Extract[[2]string](a) }},
		{"map", map[string][]bool{"x": {true}, "y": {}}, func(a Accessor) (any, error) { return Extract[map[string][]bool](a) }},
		{"int keys", map[int]string{1: "a", 20: "b"}, func(a Accessor) (any, error) { return Extract[map[int]string](a) }},
		{"enum", roleGuest, func(a Accessor) (any, error) { return Extract[role](a) }},
		{"time", time.Date(2016, 5, 23, 10, 35, 52, 0, time.UTC), func(a Accessor) (any, error) { return Extract[time.Time](a) }},
		{"struct", user{
			Name:    "Ann",
			Age:     30,
			Tags:    []string{"a", "b"},
			Scores:  map[string]float64{"math": 1.5},
			ID:      uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
			Home:    mustURL(t, "https://example.com/a?b=c"),
			Balance: decimal.RequireFromString("123456789.123456789"),
			Nick:    &nick,
			Role:    roleAdmin,
			Level:   levelHigh,
		}, func(a Accessor) (any, error) { return Extract[user](a) }},
		{"optional fields", user{
			Name:    "Bo",
			Tags:    []string{},
			Scores:  map[string]float64{},
			Balance: decimal.Zero,
			Role:    roleGuest,
		}, func(a Accessor) (any, error) { return Extract[user](a) }},
		{"nil collections", user{
			Name:    "Bo",
			Balance: decimal.Zero,
		}, func(a Accessor) (any, error) { return Extract[user](a) }},
		{"nil slice", []int(nil), func(a Accessor) (any, error) { return Extract[[]int](a) }},
		{"nil map", map[string]int(nil), func(a Accessor) (any, error) { return Extract[map[string]int](a) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.into(From(tc.v))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.v, got, decimalEqual, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIntegerWidth(t *testing.T) {
	a := From(32768)
	_, err := Extract[int16](a)
	if !errors.Is(err, ErrDoesNotFit) {
		t.Fatalf("expected does not fit, got %v", err)
	}
	if want := "dyn: value `32768` does not fit in int16"; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	i32, err := Extract[int32](a)
	if err != nil || i32 != 32768 {
		t.Errorf("int32: %d, %v", i32, err)
	}
	i64, err := Extract[int64](a)
	if err != nil || i64 != 32768 {
		t.Errorf("int64: %d, %v", i64, err)
	}
}

func TestNumericConversions(t *testing.T) {
	tests := []struct {
		name string
		a    Accessor
		into func(Accessor) (any, error)
		want any
		kind error
	}{
		{"numeric string", String("42"), func(a Accessor) (any, error) { return Extract[int](a) }, 42, nil},
		{"bad numeric string", String("4x"), func(a Accessor) (any, error) { return Extract[int](a) }, nil, ErrConversionFailed},
		{"integral float", Float(2), func(a Accessor) (any, error) { return Extract[int](a) }, 2, nil},
		{"fractional float", Float(1.5), func(a Accessor) (any, error) { return Extract[int](a) }, nil, ErrDoesNotFit},
		{"negative uint", Int(-1), func(a Accessor) (any, error) { return Extract[uint8](a) }, nil, ErrDoesNotFit},
		{"large uint8", Int(256), func(a Accessor) (any, error) { return Extract[uint8](a) }, nil, ErrDoesNotFit},
		{"float32 overflow", Float(1e300), func(a Accessor) (any, error) { return Extract[float32](a) }, nil, ErrDoesNotFit},
		{"int as float", Int(3), func(a Accessor) (any, error) { return Extract[float64](a) }, 3.0, nil},
		{"number as string", Float(1.25), func(a Accessor) (any, error) { return Extract[string](a) }, "1.25", nil},
		{"bool is strict", Int(1), func(a Accessor) (any, error) { return Extract[bool](a) }, nil, ErrConversionFailed},
		{"string from object", Map("a", 1), func(a Accessor) (any, error) { return Extract[string](a) }, nil, ErrConversionFailed},
		{"int from null", From(Null), func(a Accessor) (any, error) { return Extract[int](a) }, nil, ErrNullEncountered},
		{"big number", mustNode("18446744073709551615"), func(a Accessor) (any, error) { return Extract[uint64](a) }, uint64(18446744073709551615), nil},
		{"big number as int", mustNode("18446744073709551615"), func(a Accessor) (any, error) { return Extract[int64](a) }, nil, ErrDoesNotFit},
		{"float overflow", mustNode("1e400"), func(a Accessor) (any, error) { return Extract[float64](a) }, nil, ErrDoesNotFit},
		{"float overflow from string", String("-1e400"), func(a Accessor) (any, error) { return Extract[float64](a) }, nil, ErrDoesNotFit},
		{"float overflow as int", mustNode("1e400"), func(a Accessor) (any, error) { return Extract[int64](a) }, nil, ErrDoesNotFit},
		{"float overflow as text", mustNode("1e400"), func(a Accessor) (any, error) { return Extract[string](a) }, "1e400", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.into(tc.a)
			if tc.kind != nil {
				if !errors.Is(err, tc.kind) {
					t.Fatalf("expected %v, got %v", tc.kind, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func mustNode(text string) Accessor {
	n, err := ir.FromNumber(text)
	if err != nil {
		panic(err)
	}
	return FromNode(n)
}

func TestAbsentAndNull(t *testing.T) {
	null := From(Null)
	absent := Accessor{}

	p, err := ExtractOptional[int](null)
	if err != nil || p != nil {
		t.Errorf("optional int from null: %v, %v", p, err)
	}
	p, err = ExtractOptional[int](absent)
	if err != nil || p != nil {
		t.Errorf("optional int from absent: %v, %v", p, err)
	}
	if _, err := Extract[NullMarker](absent); !errors.Is(err, ErrMissingValue) {
		t.Errorf("null marker from absent: expected missing value, got %v", err)
	}
	if _, err := Extract[NullMarker](null); err != nil {
		t.Errorf("null marker from null: %v", err)
	}
	if _, err := Extract[NullMarker](Int(1)); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("null marker from int: expected conversion failure, got %v", err)
	}
	n, err := ExtractOptional[NullMarker](null)
	if err != nil || n == nil {
		t.Errorf("optional null marker from null: %v, %v", n, err)
	}
	if _, err := Extract[int](absent); !errors.Is(err, ErrMissingValue) {
		t.Errorf("int from absent: expected missing value, got %v", err)
	}
	// only absence and null collapse
	if _, err := ExtractOptional[int](String("x")); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("optional int from string: expected conversion failure, got %v", err)
	}
	if _, err := ExtractOptional[int](Array(1).Index(4)); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("optional out of bounds: expected out of bounds, got %v", err)
	}
}

func TestNullFields(t *testing.T) {
	a := mustJSON(t, `{"a": null}`)
	if _, err := Extract[string](a.Key("a")); !errors.Is(err, ErrNullEncountered) || errPath(err) != "a" {
		t.Errorf("expected null encountered at a, got %v", err)
	}
	s, err := ExtractOptional[string](a.Key("a"))
	if err != nil || s != nil {
		t.Errorf("optional: %v, %v", s, err)
	}
	if _, err := Extract[[]int](a.Key("a")); !errors.Is(err, ErrNullEncountered) {
		t.Errorf("slice from null: %v", err)
	}
	if _, err := Extract[map[string]int](a.Key("a")); !errors.Is(err, ErrNullEncountered) {
		t.Errorf("map from null: %v", err)
	}
}

func TestShapeErrors(t *testing.T) {
	if _, err := Extract[[]int](Map("a", 1)); !errors.Is(err, ErrNotAnArray) {
		t.Errorf("slice from map: %v", err)
	}
	if _, err := Extract[map[string]int](Array(1)); !errors.Is(err, ErrNotADictionary) {
		t.Errorf("map from array: %v", err)
	}
	if _, err := Extract[user](Array(1)); !errors.Is(err, ErrNotADictionary) {
		t.Errorf("struct from array: %v", err)
	}
	if _, err := Extract[[2]int](Array(1, 2, 3)); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("array length: %v", err)
	}
	_, err := Extract[[]int](mustJSON(t, `[1, "x"]`))
	if !errors.Is(err, ErrConversionFailed) || errPath(err) != "[1]" {
		t.Errorf("element error: %v", err)
	}
	_, err = Extract[map[string]int](mustJSON(t, `{"a": 1, "b": true}`))
	if !errors.Is(err, ErrConversionFailed) || errPath(err) != "b" {
		t.Errorf("value error: %v", err)
	}
}

func TestMissingField(t *testing.T) {
	a := mustJSON(t, `{"outer": {"name": "x"}}`)
	_, err := Extract[user](a.Key("outer"))
	if !errors.Is(err, ErrMissingValue) {
		t.Fatalf("expected missing value, got %v", err)
	}
	if got := errPath(err); got != "outer.age" {
		t.Errorf("expected path outer.age, got %q", got)
	}
	var de *Error
	errors.As(err, &de)
	if got := de.Snapshot(); got != `{"name":"x"}` {
		t.Errorf("snapshot: got %s", got)
	}
}

func TestDatePath(t *testing.T) {
	a := mustJSON(t, `{"a": {"b": [1, 2, {"c": "x"}]}}`)
	_, err := Extract[time.Time](a.At("a.b[2].c"))
	if !errors.Is(err, ErrConversionFailed) {
		t.Fatalf("expected conversion failure, got %v", err)
	}
	if got := errPath(err); got != "a.b[2].c" {
		t.Errorf("expected path a.b[2].c, got %q", got)
	}
}

func TestDateFormats(t *testing.T) {
	tm := time.Date(2016, 5, 23, 10, 35, 52, 0, time.FixedZone("", 2*3600))
	if got := wire(t, From(tm)); got != `"2016-05-23T10:35:52.000+02:00"` {
		t.Errorf("iso: got %s", got)
	}
	day := DateFormat{Layout: "2006-01-02"}
	if got := wire(t, From(tm).WithContext(day)); got != `"2016-05-23"` {
		t.Errorf("custom: got %s", got)
	}
	got, err := Extract[time.Time](String("2016-05-24").WithContext(day))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(time.Date(2016, 5, 24, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("parsed %v", got)
	}
	if _, err := Extract[time.Time](String("2016-05-24")); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("expected iso to reject a bare date, got %v", err)
	}
	// a format in the outer context wins over the one used to render
	inner := From(tm).WithContext(day)
	outer := Map("d", inner).WithContext(DateFormat{Layout: "2006"})
	if got := wire(t, outer); got != `{"d":"2016"}` {
		t.Errorf("outer context: got %s", got)
	}
}

func TestBuiltinParseErrors(t *testing.T) {
	if _, err := Extract[url.URL](String("http://[::1")); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("url: %v", err)
	}
	if _, err := Extract[uuid.UUID](String("nope")); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("uuid: %v", err)
	}
	if _, err := Extract[decimal.Decimal](String("1.2.3")); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("decimal: %v", err)
	}
	u, err := ExtractOptional[url.URL](String("https://example.com"))
	if err != nil || u == nil || u.Host != "example.com" {
		t.Errorf("optional url: %v, %v", u, err)
	}
}

func TestDecimalPrecision(t *testing.T) {
	a := mustJSON(t, `{"amount": "123456789.123456789"}`)
	d, err := Extract[decimal.Decimal](a.Key("amount"))
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "123456789.123456789" {
		t.Errorf("got %s", d)
	}
	// numbers keep their text
	n := mustJSON(t, `{"amount": 123456789.123456789}`)
	d, err = Extract[decimal.Decimal](n.Key("amount"))
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "123456789.123456789" {
		t.Errorf("got %s", d)
	}
	if got := wire(t, Map("amount", d)); got != `{"amount":"123456789.123456789"}` {
		t.Errorf("represent: got %s", got)
	}
}

func TestExtractEnum(t *testing.T) {
	r, err := ExtractEnum(String("admin"), roleAdmin, roleGuest)
	if err != nil || r != roleAdmin {
		t.Errorf("role: %v, %v", r, err)
	}
	_, err = ExtractEnum(String("root"), roleAdmin, roleGuest)
	if !errors.Is(err, ErrConversionFailed) {
		t.Errorf("expected conversion failure, got %v", err)
	}
	l, err := ExtractEnum(Int(2), levelLow, levelHigh)
	if err != nil || l != levelHigh {
		t.Errorf("level: %v, %v", l, err)
	}
	if _, err := ExtractEnum(Int(3), levelLow, levelHigh); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("expected conversion failure, got %v", err)
	}
}

func TestExtractSpecial(t *testing.T) {
	a := mustJSON(t, `{"a": [1, "x", null]}`)
	v, err := Extract[any](a)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"a": []any{int64(1), "x", nil}}, v); diff != "" {
		t.Errorf("any (-want +got):\n%s", diff)
	}
	sub, err := Extract[Accessor](a.Key("a"))
	if err != nil {
		t.Fatal(err)
	}
	if sub.Path() != "a" {
		t.Errorf("accessor path: %q", sub.Path())
	}
	n, err := Extract[*ir.Node](a.Key("a"))
	if err != nil || n == nil || n.Type != ir.ArrayType {
		t.Errorf("node: %v, %v", n, err)
	}
	n, err = Extract[*ir.Node](a.Key("missing"))
	if err != nil || n != nil {
		t.Errorf("absent node: %v, %v", n, err)
	}
	if err := a.Into(nil); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("nil destination: %v", err)
	}
}

type money struct {
	Amount   int64
	Currency string
}

type defaultCurrency string

func (m *money) FromDyn(a Accessor) error {
	cur, err := RequireContextValue[defaultCurrency](a)
	if err != nil {
		return err
	}
	amt, err := Extract[int64](a.Key("amount"))
	if err != nil {
		return err
	}
	m.Amount = amt
	m.Currency = string(cur)
	return nil
}

func TestContextGating(t *testing.T) {
	a := mustJSON(t, `{"price": {"amount": 12}}`)
	_, err := Extract[money](a.Key("price"))
	if !errors.Is(err, ErrKeyAbsentContext) {
		t.Fatalf("expected key absent from context, got %v", err)
	}
	if got := errPath(err); got != "price" {
		t.Errorf("expected path price, got %q", got)
	}
	m, err := Extract[money](a.UnionContext(NewContext(defaultCurrency("EUR"))).Key("price"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(money{Amount: 12, Currency: "EUR"}, m); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

type even int

func (e *even) FromDyn(a Accessor) error {
	i, err := Extract[int](a)
	if err != nil {
		return err
	}
	if i%2 != 0 {
		return errors.New("odd")
	}
	*e = even(i)
	return nil
}

func TestExtractableErrors(t *testing.T) {
	a := mustJSON(t, `{"xs": [2, 3]}`)
	_, err := Extract[[]even](a.Key("xs"))
	if !errors.Is(err, ErrAssertionFailed) {
		t.Fatalf("expected assertion failure, got %v", err)
	}
	if got := errPath(err); got != "xs[1]" {
		t.Errorf("expected path xs[1], got %q", got)
	}
	_, err = Extract[even](String("x"))
	if !errors.Is(err, ErrConversionFailed) {
		t.Errorf("inner errors pass through, got %v", err)
	}
}

type payment struct {
	Amount int64     `dyn:"amount"`
	Date   time.Time `dyn:"date"`
}

func TestPayment(t *testing.T) {
	const doc = `{"amount":1000,"date":"2016-05-23T10:35:52.0+02:00"}`
	a := mustJSON(t, doc)
	p, err := Extract[payment](a)
	if err != nil {
		t.Fatal(err)
	}
	if p.Amount != 1000 {
		t.Errorf("amount: %d", p.Amount)
	}
	if want := time.Date(2016, 5, 23, 8, 35, 52, 0, time.UTC); !p.Date.Equal(want) {
		t.Errorf("date: %v", p.Date)
	}
	if got := wire(t, a.Set("amount", 2000)); got != `{"amount":2000,"date":"2016-05-23T10:35:52.0+02:00"}` {
		t.Errorf("mutated: %s", got)
	}
	p.Amount = 2000
	if got := wire(t, From(p)); got != `{"amount":2000,"date":"2016-05-23T10:35:52.000+02:00"}` {
		t.Errorf("represented: %s", got)
	}
}
