// Package encode encodes IR nodes to JSON or YAML text.
//
// # Usage
//
//	node := ir.FromMap(map[string]*ir.Node{
//	    "name": ir.FromString("alice"),
//	    "age":  ir.FromInt(30),
//	})
//	err := encode.Encode(node, os.Stdout)
//
//	// compact JSON, no trailing newline
//	err := encode.Encode(node, w, encode.EncodeWire(true))
//
//	// YAML
//	err := encode.Encode(node, w, encode.EncodeFormat(format.YAMLFormat))
//
// Numbers are written using their textual form when one is recorded, so
// values decoded from text keep their precision.
//
// # Related Packages
//
//   - github.com/signadot/go-dyn/ir - IR representation
//   - github.com/signadot/go-dyn/parse - Parse text to IR
package encode
