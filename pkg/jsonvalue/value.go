package jsonvalue

import "math"

// Value is a JSON value. See the package documentation for the variants.
type Value interface {
	isValue()
}

// Null is the explicit JSON null.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number.
type Number float64

// String is a JSON string.
type String string

// Array is a JSON array. A nil element is a hole and clones to [Null].
type Array []Value

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (Number) isValue()  {}
func (String) isValue()  {}
func (Array) isValue()   {}
func (*Object) isValue() {}

// IsInteger reports whether n is finite and has no fractional part.
func (n Number) IsInteger() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
}

// Kind returns a short name for the variant of v, used in error messages.
func Kind(v Value) string {
	switch v.(type) {
	case nil:
		return "undefined"
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case *Object:
		return "object"
	default:
		return "unknown"
	}
}

// IsObject reports whether v is a structured object.
func IsObject(v Value) bool {
	_, ok := v.(*Object)
	return ok
}

// IsArrayOrPrimitive reports whether v is anything other than an object.
// Null and undefined count as primitives.
func IsArrayOrPrimitive(v Value) bool {
	return !IsObject(v)
}
