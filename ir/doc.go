// Package ir provides the raw representation of dynamic data trees.
//
// # Overview
//
// A Node is the materialized form of a dynamic value: the shape produced
// by JSON or YAML decoding. Nodes are what the dyn package resolves its
// deferred trees into, what the parse package decodes into and what the
// encode package writes out.
//
// The IR works as a recursive tagged union, where values are placed in
// fields depending on the node type.
//
// # Node Types
//
// The Type field indicates the node's type:
//
//   - NullType: null value
//   - BoolType: boolean (true/false), in Bool
//   - NumberType: numeric value; Number holds the textual form and at
//     least one of Int64 or Float64 is set
//   - StringType: string value, in String
//   - ArrayType: ordered list of nodes, in Values
//   - ObjectType: key-value pairs, with keys in Fields and values in
//     Values at the same index
//
// Nodes carry no parent links. Once built and handed out, a node is
// treated as immutable; functions which need to change a tree produce a
// new one, sharing unchanged subtrees.
//
// # Creating Nodes
//
//	ir.FromString("hello")
//	ir.FromInt(42)
//	ir.FromFloat(3.14)
//	ir.FromBool(true)
//	ir.Null()
//	ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})
//	ir.FromMap(map[string]*ir.Node{"key": ir.FromString("value")})
//
// FromAny converts plain Go values (as produced by encoding/json) into
// nodes and ToAny converts back.
package ir
