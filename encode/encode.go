package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/signadot/go-dyn/format"
	"github.com/signadot/go-dyn/ir"

	"github.com/goccy/go-yaml"
)

type EncState struct {
	col           int
	depth, indent int
	sortKeys      bool

	format format.Format
	wire   bool

	Color func(ir.Type, ColorAttr, string) string
}

func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	if node == nil {
		return fmt.Errorf("%w: nil node", ErrEncoding)
	}
	if es.format.IsYAML() {
		return encodeYAML(node, w, es)
	}
	if err := encodeJSON(node, w, es); err != nil {
		return err
	}
	if es.wire {
		return nil
	}
	return writeString(w, "\n")
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func writeNL(w io.Writer, es *EncState) error {
	if es.wire {
		return nil
	}
	indentString := strings.Repeat(strings.Repeat(" ", es.indent), es.depth)
	if err := writeString(w, "\n"+indentString); err != nil {
		return err
	}
	es.col = len(indentString)
	return nil
}

func writeColored(w io.Writer, es *EncState, t ir.Type, a ColorAttr, s string) error {
	if es.Color != nil {
		s = es.Color(t, a, s)
	}
	return writeString(w, s)
}

func encodeJSON(node *ir.Node, w io.Writer, es *EncState) error {
	switch node.Type {
	case ir.NullType:
		return writeColored(w, es, node.Type, ValueColor, "null")
	case ir.BoolType:
		return writeColored(w, es, node.Type, ValueColor, node.Text())
	case ir.NumberType:
		text, err := numberText(node)
		if err != nil {
			return err
		}
		return writeColored(w, es, node.Type, ValueColor, text)
	case ir.StringType:
		return writeColored(w, es, node.Type, ValueColor, quoteJSON(node.String))
	case ir.ArrayType:
		return encodeArray(node, w, es)
	case ir.ObjectType:
		return encodeObject(node, w, es)
	default:
		return fmt.Errorf("%w: unknown node type %d", ErrEncoding, node.Type)
	}
}

func numberText(node *ir.Node) (string, error) {
	if node.Float64 != nil && node.Int64 == nil {
		f := *node.Float64
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: %v is not representable in JSON", ErrEncoding, f)
		}
	}
	return node.Text(), nil
}

func encodeArray(node *ir.Node, w io.Writer, es *EncState) error {
	if err := writeColored(w, es, ir.ArrayType, SepColor, "["); err != nil {
		return err
	}
	if len(node.Values) == 0 {
		return writeColored(w, es, ir.ArrayType, SepColor, "]")
	}
	es.depth++
	for i, v := range node.Values {
		if i > 0 {
			if err := writeColored(w, es, ir.ArrayType, SepColor, ","); err != nil {
				return err
			}
		}
		if err := writeNL(w, es); err != nil {
			return err
		}
		if err := encodeJSON(v, w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeNL(w, es); err != nil {
		return err
	}
	return writeColored(w, es, ir.ArrayType, SepColor, "]")
}

func encodeObject(node *ir.Node, w io.Writer, es *EncState) error {
	if err := writeColored(w, es, ir.ObjectType, SepColor, "{"); err != nil {
		return err
	}
	if len(node.Fields) == 0 {
		return writeColored(w, es, ir.ObjectType, SepColor, "}")
	}
	order := make([]int, len(node.Fields))
	for i := range order {
		order[i] = i
	}
	if es.sortKeys {
		slices.SortStableFunc(order, func(a, b int) int {
			return strings.Compare(node.Fields[a], node.Fields[b])
		})
	}
	sep := ":"
	if !es.wire {
		sep = ": "
	}
	es.depth++
	for n, i := range order {
		if n > 0 {
			if err := writeColored(w, es, ir.ObjectType, SepColor, ","); err != nil {
				return err
			}
		}
		if err := writeNL(w, es); err != nil {
			return err
		}
		if err := writeColored(w, es, ir.ObjectType, FieldColor, quoteJSON(node.Fields[i])); err != nil {
			return err
		}
		if err := writeColored(w, es, ir.ObjectType, SepColor, sep); err != nil {
			return err
		}
		if err := encodeJSON(node.Values[i], w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeNL(w, es); err != nil {
		return err
	}
	return writeColored(w, es, ir.ObjectType, SepColor, "}")
}

func quoteJSON(s string) string {
	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// strings always encode
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

func encodeYAML(node *ir.Node, w io.Writer, es *EncState) error {
	d, err := yaml.MarshalWithOptions(toYAMLValue(node, es), yaml.Indent(es.indent))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	_, err = w.Write(d)
	return err
}

// toYAMLValue produces values for the yaml encoder which keep the field
// order of objects.
func toYAMLValue(node *ir.Node, es *EncState) any {
	switch node.Type {
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			res[i] = yaml.MapItem{Key: f, Value: toYAMLValue(node.Values[i], es)}
		}
		if es.sortKeys {
			slices.SortStableFunc(res, func(a, b yaml.MapItem) int {
				return strings.Compare(a.Key.(string), b.Key.(string))
			})
		}
		return res
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			res[i] = toYAMLValue(v, es)
		}
		return res
	default:
		return ir.ToAny(node)
	}
}
