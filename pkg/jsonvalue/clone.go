package jsonvalue

import "math"

// Clone returns a deep copy of v with JSON round-trip semantics:
//   - undefined (nil) stays undefined at the top level
//   - nil array elements become [Null]
//   - non-finite numbers become [Null]
//
// Objects never hold nil entries, so no key is lost on clone.
func Clone(v Value) Value {
	switch t := v.(type) {
	case nil:
		return nil
	case Null, Bool, String:
		return t
	case Number:
		if f := float64(t); math.IsNaN(f) || math.IsInf(f, 0) {
			return Null{}
		}
		return t
	case Array:
		out := make(Array, len(t))
		for i, elem := range t {
			if elem == nil {
				out[i] = Null{}
				continue
			}
			out[i] = Clone(elem)
		}
		return out
	case *Object:
		return t.Clone()
	}
	return nil
}

// Clone returns a deep copy of o. A nil receiver yields an empty object.
func (o *Object) Clone() *Object {
	out := NewObject()
	o.Range(func(key string, v Value) bool {
		out.Set(key, Clone(v))
		return true
	})
	return out
}

// Equal reports whether a and b are structurally equal. Object key order is
// ignored; array order is not.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		equal := true
		x.Range(func(key string, v Value) bool {
			w, present := y.Lookup(key)
			equal = present && Equal(v, w)
			return equal
		})
		return equal
	}
	return false
}
