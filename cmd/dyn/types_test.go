package main

import (
	"testing"

	"github.com/signadot/go-dyn"
	"github.com/signadot/go-dyn/format"
)

func TestExtractors(t *testing.T) {
	doc, err := dyn.ParseJSON([]byte(`{"n": 3, "s": "x", "id": "2c5ea4c0-4067-11e9-8bad-9b1deb4d3b7d", "l": [1]}`))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		path, typ string
		ok        bool
	}{
		{"n", "int", true},
		{"n", "float", true},
		{"n", "string", true},
		{"s", "int", false},
		{"id", "uuid", true},
		{"s", "uuid", false},
		{"l", "array", true},
		{"l", "object", false},
		{"missing", "string", false},
		{"", "object", true},
	}
	for _, tc := range tests {
		f, err := extractorFor(tc.typ)
		if err != nil {
			t.Fatal(err)
		}
		_, err = f(doc.At(tc.path))
		if (err == nil) != tc.ok {
			t.Errorf("%s as %s: ok=%t, err=%v", tc.path, tc.typ, tc.ok, err)
		}
	}
	if _, err := extractorFor("widget"); err == nil {
		t.Errorf("expected error for unknown type")
	}
}

func TestInFormat(t *testing.T) {
	cfg := &MainConfig{}
	if f := cfg.inFormat("a.yaml"); f != format.YAMLFormat {
		t.Errorf("a.yaml: %s", f)
	}
	if f := cfg.inFormat("-"); f != format.JSONFormat {
		t.Errorf("stdin: %s", f)
	}
	cfg.Y = true
	if f := cfg.inFormat("a.json"); f != format.YAMLFormat {
		t.Errorf("-y: %s", f)
	}
	y := format.JSONFormat
	cfg.InFormat = &y
	if f := cfg.inFormat("a.yaml"); f != format.JSONFormat {
		t.Errorf("-I: %s", f)
	}
}
