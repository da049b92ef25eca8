package document

import (
	"fmt"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/graphdata"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
	"github.com/matzehuels/graphit/pkg/merge"
)

// valueFields are merged with merge.Value; nodes and links are merged by key.
var valueFields = []string{"zoomState", "layoutState", "displayConfig", "dataSource"}

// Merge combines the current state of g with incoming and returns a new
// GraphDocument. g keeps its data; only its serializable form is refreshed
// from the live graph first.
//
// Nodes are matched by id and links by (source, target). Entries missing
// from an incoming nodes or links array are removed, and incoming links must
// not reference removed nodes. An incoming document without a nodes or links
// key leaves that collection unchanged.
func (g *GraphDocument) Merge(incoming *jsonvalue.Object) (*GraphDocument, error) {
	data, err := g.saveSGD()
	if err != nil {
		return nil, err
	}
	original, err := data.ToValue()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	merged, err := MergeSerializedDocuments(original, incoming)
	if err != nil {
		return nil, err
	}
	return New(g.Name, merged)
}

// MergeSerializedDocuments merges incoming over original, validates the
// result as a [graphdata.LatestVersion] document and re-applies defaults.
// Neither input is modified.
func MergeSerializedDocuments(original, incoming *jsonvalue.Object) (*graphdata.Document, error) {
	result := jsonvalue.NewObject()

	nodes, err := mergeCollection(original, incoming, "nodes", merge.NodeKey)
	if err != nil {
		return nil, err
	}
	result.Set("nodes", nodes)

	links, err := mergeCollection(original, incoming, "links", merge.LinkKey)
	if err != nil {
		return nil, err
	}
	result.Set("links", links)

	for _, key := range valueFields {
		result.Set(key, merge.Value(original.Get(key), incoming.Get(key)))
	}
	result.Set("version", jsonvalue.Number(graphdata.LatestVersion))

	if _, err := graphdata.Validate(graphdata.LatestVersion, result); err != nil {
		return nil, fmt.Errorf("merged document: %w", err)
	}
	return graphdata.ApplyDefaults(result)
}

func mergeCollection(original, incoming *jsonvalue.Object, key string, keyFn merge.KeyFunc) (jsonvalue.Array, error) {
	origValues, err := arrayField(original, key)
	if err != nil {
		return nil, err
	}
	if !incoming.Has(key) {
		return jsonvalue.Clone(origValues).(jsonvalue.Array), nil
	}
	newValues, err := arrayField(incoming, key)
	if err != nil {
		return nil, err
	}
	merged, err := merge.ArraysSmart(origValues, newValues, keyFn)
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", key, err)
	}
	return merged, nil
}

func arrayField(obj *jsonvalue.Object, key string) (jsonvalue.Array, error) {
	v, present := obj.Lookup(key)
	if !present {
		return jsonvalue.Array{}, nil
	}
	arr, ok := v.(jsonvalue.Array)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "expected array, got %s", jsonvalue.Kind(v)).WithField(key)
	}
	return arr, nil
}

func fieldIndex(collection string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", collection, i, field)
}
