package libdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/go-dyn/ir"
	"github.com/signadot/go-dyn/parse"
)

func mustParse(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := parse.Parse([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

type summary struct {
	Path string
	Op   string
	From any
	To   any
}

func summarize(cs []Change) []summary {
	var res []summary
	for _, c := range cs {
		s := summary{Path: c.Path, Op: c.Op.String()}
		if c.From != nil {
			s.From = ir.ToAny(c.From)
		}
		if c.To != nil {
			s.To = ir.ToAny(c.To)
		}
		res = append(res, s)
	}
	return res
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     []summary
	}{
		{
			name: "equal",
			from: `{"a":1,"b":[1,2]}`,
			to:   `{"b":[1,2],"a":1}`,
		},
		{
			name: "fields",
			from: `{"a":1,"b":true,"c":null}`,
			to:   `{"a":2,"c":null,"d":"x"}`,
			want: []summary{
				{Path: "a", Op: "replace", From: int64(1), To: int64(2)},
				{Path: "b", Op: "remove", From: true},
				{Path: "d", Op: "add", To: "x"},
			},
		},
		{
			name: "nested",
			from: `{"a":{"b":[{"c":1}]}}`,
			to:   `{"a":{"b":[{"c":2}]}}`,
			want: []summary{
				{Path: "a.b[0].c", Op: "replace", From: int64(1), To: int64(2)},
			},
		},
		{
			name: "array insert",
			from: `[1,2,3]`,
			to:   `[1,5,2,3]`,
			want: []summary{
				{Path: "[1]", Op: "add", To: int64(5)},
			},
		},
		{
			name: "array remove",
			from: `[1,2,3]`,
			to:   `[1,3]`,
			want: []summary{
				{Path: "[1]", Op: "remove", From: int64(2)},
			},
		},
		{
			name: "type change",
			from: `{"a":[1]}`,
			to:   `{"a":"x"}`,
			want: []summary{
				{Path: "a", Op: "replace", From: []any{int64(1)}, To: "x"},
			},
		},
		{
			name: "quoted field",
			from: `{"a.b":1}`,
			to:   `{"a.b":2}`,
			want: []summary{
				{Path: "'a.b'", Op: "replace", From: int64(1), To: int64(2)},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := summarize(Diff(mustParse(t, tc.from), mustParse(t, tc.to)))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Diff mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStringEdits(t *testing.T) {
	from := "the quick brown fox jumps over the lazy dog"
	to := "the quick red fox jumps over the lazy dog"
	cs := Diff(ir.FromString(from), ir.FromString(to))
	if len(cs) != 1 {
		t.Fatalf("expected 1 change, got %d", len(cs))
	}
	if cs[0].Edits == "" {
		t.Fatalf("expected edits")
	}
	res, ok := ApplyEdits(from, cs[0].Edits)
	if !ok || res != to {
		t.Errorf("ApplyEdits: got %q, %t", res, ok)
	}
	rev := Reverse(cs)
	res, ok = ApplyEdits(to, rev[0].Edits)
	if !ok || res != from {
		t.Errorf("reverse ApplyEdits: got %q, %t", res, ok)
	}
}

func TestStringEditsUnrelated(t *testing.T) {
	cs := Diff(ir.FromString("abc"), ir.FromString("xyz"))
	if len(cs) != 1 || cs[0].Edits != "" {
		t.Errorf("expected a plain replacement, got %+v", cs)
	}
}

func TestReverse(t *testing.T) {
	cs := Diff(mustParse(t, `{"a":1}`), mustParse(t, `{"b":2}`))
	got := summarize(Reverse(cs))
	want := []summary{
		{Path: "b", Op: "remove", From: int64(2)},
		{Path: "a", Op: "add", To: int64(1)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reverse mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeString(t *testing.T) {
	cs := Diff(mustParse(t, `{"a":1,"b":[true]}`), mustParse(t, `{"a":2,"c":"x"}`))
	var got []string
	for _, c := range cs {
		got = append(got, c.String())
	}
	want := []string{
		`~ a: 1 -> 2`,
		`- b: [true]`,
		`+ c: "x"`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	root := Change{Op: Replace, From: mustParse(t, `1`), To: mustParse(t, `"1"`)}
	if s := root.String(); s != `~ .: 1 -> "1"` {
		t.Errorf("got %s", s)
	}
}
