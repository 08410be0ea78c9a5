// Package parse decodes JSON and YAML text into IR nodes, keeping the
// field order of objects and the textual form of numbers.
package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/signadot/go-dyn/format"
	"github.com/signadot/go-dyn/ir"

	"github.com/goccy/go-yaml"
)

func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	o := &parseOpts{}
	for _, opt := range opts {
		opt(o)
	}
	switch o.format {
	case format.YAMLFormat:
		return parseYAML(d)
	default:
		return parseJSON(d)
	}
}

func parseJSON(d []byte) (*ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	node, err := parseJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data at offset %d", ErrParse, dec.InputOffset())
	}
	return node, nil
}

func parseJSONValue(dec *json.Decoder) (*ir.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch x := tok.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case json.Number:
		return ir.FromNumber(string(x))
	case string:
		return ir.FromString(x), nil
	case json.Delim:
		switch x {
		case '[':
			res := &ir.Node{Type: ir.ArrayType, Values: []*ir.Node{}}
			for dec.More() {
				v, err := parseJSONValue(dec)
				if err != nil {
					return nil, err
				}
				res.Values = append(res.Values, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return res, nil
		case '{':
			var kvs []ir.KeyVal
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				v, err := parseJSONValue(dec)
				if err != nil {
					return nil, err
				}
				kvs = setKeyVal(kvs, key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return ir.FromKeyVals(kvs), nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// setKeyVal keeps the last value for duplicate keys, at the position of
// the first.
func setKeyVal(kvs []ir.KeyVal, key string, v *ir.Node) []ir.KeyVal {
	for i := range kvs {
		if kvs[i].Key == key {
			kvs[i].Val = v
			return kvs
		}
	}
	return append(kvs, ir.KeyVal{Key: key, Val: v})
}

func parseYAML(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	node, err := fromYAML(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return node, nil
}

func fromYAML(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		var kvs []ir.KeyVal
		for _, item := range x {
			val, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			kvs = setKeyVal(kvs, yamlKey(item.Key), val)
		}
		return ir.FromKeyVals(kvs), nil
	case map[string]any:
		m := make(map[string]*ir.Node, len(x))
		for k, elt := range x {
			val, err := fromYAML(elt)
			if err != nil {
				return nil, err
			}
			m[k] = val
		}
		return ir.FromMap(m), nil
	case []any:
		res := &ir.Node{Type: ir.ArrayType, Values: make([]*ir.Node, len(x))}
		for i, elt := range x {
			val, err := fromYAML(elt)
			if err != nil {
				return nil, err
			}
			res.Values[i] = val
		}
		return res, nil
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return nil, fmt.Errorf("%v is not a supported number", x)
		}
		return ir.FromFloat(x), nil
	}
	return ir.FromAny(v)
}

func yamlKey(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
