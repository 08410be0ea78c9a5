package encode

import "github.com/signadot/go-dyn/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// EncodeIndent sets the indentation width of pretty output.
func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}

// EncodeWire produces compact single line output with no trailing
// newline.
func EncodeWire(v bool) EncodeOption {
	return func(es *EncState) { es.wire = v }
}

// EncodeSortKeys writes object fields in sorted order rather than the
// order recorded in the node.
func EncodeSortKeys(v bool) EncodeOption {
	return func(es *EncState) { es.sortKeys = v }
}
