package jsonvalue

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FromGo converts the output of encoding/json (or a hand-built literal) into
// a Value. Maps are emitted in sorted key order since Go maps carry none.
func FromGo(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(t), nil
	case int:
		return Number(t), nil
	case int64:
		return Number(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return Number(f), nil
	case []string:
		arr := make(Array, len(t))
		for i, s := range t {
			arr[i] = String(s)
		}
		return arr, nil
	case []any:
		arr := make(Array, len(t))
		for i, elem := range t {
			v, err := FromGo(elem)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			v, err := FromGo(t[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj.Set(k, v)
		}
		return obj, nil
	}
	return nil, fmt.Errorf("jsonvalue: unsupported Go type %T", in)
}

// ToGo converts v into plain Go values (map[string]any, []any, float64,
// string, bool, nil).
func ToGo(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return float64(t)
	case String:
		return string(t)
	case Array:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = ToGo(elem)
		}
		return out
	case *Object:
		out := make(map[string]any, t.Len())
		t.Range(func(key string, elem Value) bool {
			out[key] = ToGo(elem)
			return true
		})
		return out
	}
	return nil
}

// Decode unmarshals v into out using encoding/json struct tags.
func Decode(v Value, out any) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Encode marshals in with encoding/json and parses the result into a Value,
// so struct field order becomes object key order.
func Encode(in any) (Value, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
