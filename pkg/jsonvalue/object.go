package jsonvalue

// Object is an insertion-ordered JSON object.
//
// The zero value is an empty object ready to use. Setting an existing key
// keeps its original position.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{}
}

// ObjectOf builds an object from alternating key/value pairs.
// It panics if pairs is malformed; it is meant for literals in code and tests.
func ObjectOf(pairs ...any) *Object {
	if len(pairs)%2 != 0 {
		panic("jsonvalue: ObjectOf requires key/value pairs")
	}
	o := NewObject()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic("jsonvalue: ObjectOf key must be a string")
		}
		var v Value
		if pairs[i+1] != nil {
			v = pairs[i+1].(Value)
		}
		o.Set(key, v)
	}
	return o
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Get returns the value at key, or nil if the key is absent.
func (o *Object) Get(key string) Value {
	if o == nil {
		return nil
	}
	return o.values[key]
}

// Lookup returns the value at key and whether the key is present.
func (o *Object) Lookup(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Lookup(key)
	return ok
}

// Set stores v at key. Setting nil removes the key, matching how an
// undefined property disappears on serialization.
func (o *Object) Set(key string, v Value) {
	if v == nil {
		o.Delete(key)
		return
	}
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for every entry in order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// GetObject returns the object at key, or nil if absent or not an object.
func (o *Object) GetObject(key string) *Object {
	obj, _ := o.Get(key).(*Object)
	return obj
}

// GetArray returns the array at key and whether it was an array.
func (o *Object) GetArray(key string) (Array, bool) {
	arr, ok := o.Get(key).(Array)
	return arr, ok
}

// GetString returns the string at key and whether it was a string.
func (o *Object) GetString(key string) (string, bool) {
	s, ok := o.Get(key).(String)
	return string(s), ok
}
