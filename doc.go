// Package dyn provides typed access to JSON-like dynamic trees.
//
// An Accessor is a position in a tree together with a Context of
// conversion settings.  Reading a missing key or element never fails
// immediately: the failure is carried along and reported, with the path
// at which it arose, when a value is finally extracted.
//
//	a, _ := dyn.ParseJSON(data)
//	amount, err := dyn.Extract[int64](a.At("payment.amount"))
//	// err: dyn: value missing at payment.amount
//
// Writes are deferred.  Set, Append, Union and friends record patches
// which are folded when the value is materialized, and always return a
// new Accessor:
//
//	b := a.Set("user", dyn.Map("name", "Ann")).SetAt("user.tags", dyn.Array("x"))
//
// Go values convert to trees through From and FromRaw and back through
// Into and Extract.  Types customize conversion by implementing
// Representable, ContextRepresentable or Extractable.
package dyn
