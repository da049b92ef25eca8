// Package defaults fills sparse JSON objects from a declared default table.
//
// A default table is a [jsonvalue.Object] shaped like the data it defaults.
// Arrays in the table hold exactly one template element. That element is
// applied to every object entry of the corresponding target array, while a
// missing target array defaults to empty rather than to the template:
//
//	table := {"nodes": [{"isLocked": false}], "zoomState": {"scale": 1}}
//	Apply({}, table)                      => {"nodes": [], "zoomState": {"scale": 1}}
//	Apply({"nodes": [{"id": "a"}]}, table) => {"nodes": [{"id": "a", "isLocked": false}], ...}
//
// Explicit null is a value. Apply never overwrites it.
package defaults

import (
	"fmt"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

// Apply fills every key of table that target lacks, recursing into nested
// objects and into the object entries of arrays. target is mutated in place
// and returned. Default values are cloned as they are assigned, so target
// never aliases table.
//
// A default array whose length is not exactly 1 fails with
// MALFORMED_DEFAULTS before target is touched.
func Apply(target, table *jsonvalue.Object) (*jsonvalue.Object, error) {
	if err := Check(table); err != nil {
		return nil, err
	}
	if target == nil {
		target = jsonvalue.NewObject()
	}
	apply(target, table)
	return target, nil
}

// CreateFrom returns a fully defaulted object built from an empty one.
func CreateFrom(table *jsonvalue.Object) (*jsonvalue.Object, error) {
	return Apply(jsonvalue.NewObject(), table)
}

// Check verifies that every array in table, at any depth, has exactly one
// template entry.
func Check(table *jsonvalue.Object) error {
	return check(table, "")
}

func check(table *jsonvalue.Object, prefix string) error {
	var err error
	table.Range(func(key string, v jsonvalue.Value) bool {
		err = checkValue(v, joinPath(prefix, key))
		return err == nil
	})
	return err
}

func checkValue(v jsonvalue.Value, path string) error {
	switch t := v.(type) {
	case jsonvalue.Array:
		if len(t) != 1 {
			return errors.New(errors.ErrCodeMalformedDefaults,
				"default values for arrays should have exactly 1 entry, got %d", len(t)).WithField(path)
		}
		return checkValue(t[0], path+"[0]")
	case *jsonvalue.Object:
		return check(t, path)
	}
	return nil
}

func apply(target, table *jsonvalue.Object) {
	table.Range(func(key string, dv jsonvalue.Value) bool {
		current, present := target.Lookup(key)
		if !present {
			if _, isArray := dv.(jsonvalue.Array); isArray {
				target.Set(key, jsonvalue.Array{})
			} else {
				target.Set(key, jsonvalue.Clone(dv))
			}
			return true
		}

		switch t := current.(type) {
		case jsonvalue.Array:
			tmpl, ok := dv.(jsonvalue.Array)
			if !ok {
				return true
			}
			entryTable, ok := tmpl[0].(*jsonvalue.Object)
			if !ok {
				return true
			}
			for _, entry := range t {
				if obj, ok := entry.(*jsonvalue.Object); ok {
					apply(obj, entryTable)
				}
			}
		case *jsonvalue.Object:
			if sub, ok := dv.(*jsonvalue.Object); ok {
				apply(t, sub)
			}
		}
		return true
	})
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s.%s", prefix, key)
}
