// Package merge combines two JSON values while keeping fields the incoming
// side leaves unspecified.
//
// There are two rules. [Value] merges objects key by key and replaces
// arrays and primitives wholesale. [ArraysSmart] matches the entries of two
// arrays of records by a caller-supplied key and merges matched pairs with
// [Value]. Entries missing from the incoming array are dropped, so removing
// a row from an external source removes it from the merged result.
//
// Neither function mutates its inputs. Results never alias them.
package merge

import (
	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

// KeyFunc derives the identity of an array entry.
type KeyFunc func(entry jsonvalue.Value) string

// Value merges incoming over original:
//   - incoming undefined: a clone of original
//   - either side an array or primitive: a clone of incoming
//   - both objects: a clone of original with every incoming key merged
//     recursively
//
// Explicit null in incoming overwrites.
func Value(original, incoming jsonvalue.Value) jsonvalue.Value {
	if incoming == nil {
		return jsonvalue.Clone(original)
	}
	origObj, origIsObj := original.(*jsonvalue.Object)
	inObj, inIsObj := incoming.(*jsonvalue.Object)
	if !origIsObj || !inIsObj {
		return jsonvalue.Clone(incoming)
	}

	result := origObj.Clone()
	inObj.Range(func(key string, v jsonvalue.Value) bool {
		result.Set(key, Value(origObj.Get(key), v))
		return true
	})
	return result
}

// ArraysSmart merges newValues into originalValues by key. The output has
// one entry per element of newValues, in the same order. An element whose
// key matches an original entry is merged with it via [Value]; any other
// element is cloned. Original entries with no counterpart are dropped.
//
// Two entries with the same key in either array fail with DUPLICATE_KEY.
func ArraysSmart(originalValues, newValues jsonvalue.Array, key KeyFunc) (jsonvalue.Array, error) {
	byKey, err := buildKeyedMap(originalValues, key, "original")
	if err != nil {
		return nil, err
	}
	if _, err := buildKeyedMap(newValues, key, "incoming"); err != nil {
		return nil, err
	}

	results := make(jsonvalue.Array, 0, len(newValues))
	for _, nv := range newValues {
		var merged jsonvalue.Value
		if ov, ok := byKey[key(nv)]; ok {
			merged = Value(ov, nv)
		} else {
			merged = jsonvalue.Clone(nv)
		}
		if merged == nil {
			merged = jsonvalue.Null{}
		}
		results = append(results, merged)
	}
	return results, nil
}

func buildKeyedMap(values jsonvalue.Array, key KeyFunc, side string) (map[string]jsonvalue.Value, error) {
	m := make(map[string]jsonvalue.Value, len(values))
	for _, v := range values {
		k := key(v)
		if _, dup := m[k]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateKey,
				"duplicate key generated from %s array: %s", side, k)
		}
		m[k] = v
	}
	return m, nil
}

// NodeKey identifies a node by its id.
func NodeKey(node jsonvalue.Value) string {
	obj, _ := node.(*jsonvalue.Object)
	if id, ok := obj.GetString("id"); ok {
		return id
	}
	// Non-string ids cannot collide with string ids.
	b, _ := jsonvalue.Marshal(obj.Get("id"))
	return "\x00" + string(b)
}

// LinkKey identifies a link by the JSON encoding of its [source, target]
// pair.
func LinkKey(link jsonvalue.Value) string {
	obj, _ := link.(*jsonvalue.Object)
	b, _ := jsonvalue.Marshal(jsonvalue.Array{obj.Get("source"), obj.Get("target")})
	return string(b)
}

// FieldKey returns a KeyFunc that identifies entries by the JSON encoding of
// a single field.
func FieldKey(field string) KeyFunc {
	return func(entry jsonvalue.Value) string {
		obj, _ := entry.(*jsonvalue.Object)
		b, _ := jsonvalue.Marshal(obj.Get(field))
		return string(b)
	}
}
