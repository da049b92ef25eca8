package jsonvalue

import "fmt"

// SplitObject partitions the keys of input into a new object. Keys listed in
// topLevel are copied to the result; every other key is moved under a nested
// object stored at otherKey.
//
// defaults seeds the result and otherDefaults seeds the nested object. Both
// may be nil. defaults may not contain otherKey; pass otherDefaults instead.
// Values are shallow-copied from input.
func SplitObject(input *Object, topLevel []string, otherKey string, defaults, otherDefaults *Object) (*Object, error) {
	if defaults.Has(otherKey) {
		return nil, fmt.Errorf("default values can't contain %q; pass other-data defaults instead", otherKey)
	}
	top := make(map[string]bool, len(topLevel))
	for _, k := range topLevel {
		top[k] = true
	}

	out := NewObject()
	defaults.Range(func(k string, v Value) bool {
		out.Set(k, v)
		return true
	})
	other := NewObject()
	otherDefaults.Range(func(k string, v Value) bool {
		other.Set(k, v)
		return true
	})
	out.Set(otherKey, other)

	input.Range(func(k string, v Value) bool {
		if top[k] {
			out.Set(k, v)
		} else {
			other.Set(k, v)
		}
		return true
	})
	return out, nil
}

// SplitObjects applies [SplitObject] to every input.
func SplitObjects(inputs []*Object, topLevel []string, otherKey string, defaults, otherDefaults *Object) ([]*Object, error) {
	out := make([]*Object, len(inputs))
	for i, in := range inputs {
		split, err := SplitObject(in, topLevel, otherKey, defaults, otherDefaults)
		if err != nil {
			return nil, err
		}
		out[i] = split
	}
	return out, nil
}
