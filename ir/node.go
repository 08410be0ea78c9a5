package ir

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

type Node struct {
	Type   Type
	Fields []string
	Values []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := *y
	if y.Fields != nil {
		res.Fields = slices.Clone(y.Fields)
	}
	if y.Values != nil {
		res.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			res.Values[i] = v.Clone()
		}
	}
	if y.Float64 != nil {
		f := *y.Float64
		res.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		res.Int64 = &i
	}
	return &res
}

func FromString(v string) *Node {
	return &Node{
		Type:   StringType,
		String: v,
	}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:   NumberType,
		Int64:  &v,
		Number: strconv.FormatInt(v, 10),
	}
}

// FromUint is FromInt for values which may exceed the int64 range, in
// which case only the textual and float forms are kept.
func FromUint(v uint64) *Node {
	if v <= math.MaxInt64 {
		return FromInt(int64(v))
	}
	f := float64(v)
	return &Node{
		Type:    NumberType,
		Float64: &f,
		Number:  strconv.FormatUint(v, 10),
	}
}

func FromFloat(f float64) *Node {
	res := &Node{
		Type:    NumberType,
		Float64: &f,
		Number:  strconv.FormatFloat(f, 'g', -1, 64),
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		i := int64(f)
		res.Int64 = &i
	}
	return res
}

// FromNumber creates a number node from its textual form, keeping the
// text so no precision is lost on output.
func FromNumber(text string) (*Node, error) {
	res := &Node{Type: NumberType, Number: text}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		res.Int64 = &i
		f := float64(i)
		res.Float64 = &f
		return res, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return nil, fmt.Errorf("%w: %q", ErrBadNumber, text)
		}
	}
	res.Float64 = &f
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		i := int64(f)
		res.Int64 = &i
	}
	return res, nil
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromSlice(ySlice []*Node) *Node {
	return &Node{
		Type:   ArrayType,
		Values: slices.Clone(ySlice),
	}
}

// FromMap creates an object with fields in sorted order.
func FromMap(yMap map[string]*Node) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]string, 0, len(yMap)),
		Values: make([]*Node, 0, len(yMap)),
	}
	for _, key := range slices.Sorted(maps.Keys(yMap)) {
		res.Fields = append(res.Fields, key)
		res.Values = append(res.Values, yMap[key])
	}
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals creates an object with fields in the order given.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]string, len(kvs)),
		Values: make([]*Node, len(kvs)),
	}
	for i := range kvs {
		res.Fields[i] = kvs[i].Key
		res.Values[i] = kvs[i].Val
	}
	return res
}

func ToMap(node *Node) map[string]*Node {
	if node.Type != ObjectType {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i, field := range node.Fields {
		res[field] = node.Values[i]
	}
	return res
}

func ToKeyVals(node *Node) []KeyVal {
	if node.Type != ObjectType {
		return nil
	}
	res := make([]KeyVal, len(node.Fields))
	for i, field := range node.Fields {
		res[i] = KeyVal{Key: field, Val: node.Values[i]}
	}
	return res
}

func Get(y *Node, field string) *Node {
	for i, f := range y.Fields {
		if f == field {
			return y.Values[i]
		}
	}
	return nil
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

// Text returns the textual form of a leaf node.
func (y *Node) Text() string {
	switch y.Type {
	case NullType:
		return "null"
	case BoolType:
		return strconv.FormatBool(y.Bool)
	case NumberType:
		if y.Number != "" {
			return y.Number
		}
		if y.Int64 != nil {
			return strconv.FormatInt(*y.Int64, 10)
		}
		if y.Float64 != nil {
			return strconv.FormatFloat(*y.Float64, 'g', -1, 64)
		}
		return "0"
	case StringType:
		return y.String
	default:
		return "<" + y.Type.String() + ">"
	}
}
