// Package jsonvalue provides an ordered, closed representation of JSON values.
//
// Documents flow through graphit as untyped JSON until they have been
// validated and defaulted. Go's map[string]any loses key order and cannot
// tell a missing key from an explicit null once decoded into a struct, so the
// data layer works on this package's [Value] instead.
//
// # Variants
//
// A [Value] is exactly one of:
//
//   - [Null]: explicit JSON null
//   - [Bool], [Number], [String]: primitives
//   - [Array]: ordered list of values
//   - *[Object]: ordered string-keyed map
//
// A nil Value means "undefined": the key is absent. Code that branches on the
// variant should use a type switch over these six cases (plus nil); [Kind]
// names the variant for error messages.
//
// # Clone Semantics
//
// [Clone] behaves like a JSON serialize/parse round trip. Nil entries inside
// arrays become [Null], nil entries inside objects are dropped, and
// non-finite numbers become [Null]. Callers rely on this; it is not an
// accident of implementation.
//
// # Encoding
//
// [Parse] reads JSON text preserving object key order. [Marshal] and
// [MarshalIndent] write it back without HTML escaping, so labels containing
// markup survive unchanged.
package jsonvalue
