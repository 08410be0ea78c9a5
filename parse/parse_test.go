package parse

import (
	"errors"
	"testing"

	"github.com/signadot/go-dyn/encode"
	"github.com/signadot/go-dyn/format"
)

type parseTest struct {
	in  string
	out string
}

func TestParseJSON(t *testing.T) {
	pts := []parseTest{
		{in: `null`, out: `null`},
		{in: `true`, out: `true`},
		{in: `22`, out: `22`},
		{in: `1e14`, out: `1e14`},
		{in: `123456789.123456789`, out: `123456789.123456789`},
		{in: `"hello"`, out: `"hello"`},
		{in: ` [1, "a", null] `, out: `[1,"a",null]`},
		{in: `{"b": 1, "a": {"c": []}}`, out: `{"b":1,"a":{"c":[]}}`},
		{in: `{"a": 1, "a": 2}`, out: `{"a":2}`},
	}
	for _, pt := range pts {
		t.Run(pt.in, func(t *testing.T) {
			node, err := Parse([]byte(pt.in))
			if err != nil {
				t.Fatal(err)
			}
			got := encode.MustString(node, encode.EncodeWire(true))
			if got != pt.out {
				t.Errorf("got %s want %s", got, pt.out)
			}
		})
	}
}

func TestParseJSONErrors(t *testing.T) {
	for _, in := range []string{``, `{`, `[1,]`, `1 2`, `{"a" 1}`} {
		t.Run(in, func(t *testing.T) {
			if _, err := Parse([]byte(in)); !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	pts := []parseTest{
		{in: "a: 1\nb: [x, 2.5]\n", out: `{"a":1,"b":["x",2.5]}`},
		{in: "z: 1\ny:\n  - null\n  - true\n", out: `{"z":1,"y":[null,true]}`},
		{in: "- -3\n", out: `[-3]`},
	}
	for _, pt := range pts {
		t.Run(pt.in, func(t *testing.T) {
			node, err := Parse([]byte(pt.in), ParseFormat(format.YAMLFormat))
			if err != nil {
				t.Fatal(err)
			}
			got := encode.MustString(node, encode.EncodeWire(true))
			if got != pt.out {
				t.Errorf("got %s want %s", got, pt.out)
			}
		})
	}
}
