package graphdata

import (
	"reflect"

	"github.com/matzehuels/graphit/pkg/defaults"
	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

// versionEntry describes one supported wire version: the shape it validates
// against and the transform that brings it to [LatestVersion].
type versionEntry struct {
	shape   reflect.Type
	upgrade func(*jsonvalue.Object) (*jsonvalue.Object, error)
}

func builtinVersions() map[int]versionEntry {
	return map[int]versionEntry{
		1: {shape: reflect.TypeOf(documentV1{}), upgrade: upgradeV1},
	}
}

// upgradeV1 is the identity; V1 is the latest version.
func upgradeV1(doc *jsonvalue.Object) (*jsonvalue.Object, error) {
	return doc, nil
}

// Load validates, upgrades and defaults input using the default validator.
func Load(input jsonvalue.Value) (*Document, error) {
	return DefaultValidator().Load(input)
}

// Load validates, upgrades and defaults input. input is not modified.
//
// A missing version is treated as 1. A null, non-integer or unknown version
// fails with UNSUPPORTED_VERSION; shape violations fail with
// VALIDATION_ERROR and nothing is defaulted.
func (v *Validator) Load(input jsonvalue.Value) (*Document, error) {
	obj, ok := input.(*jsonvalue.Object)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "expected object, got %s", jsonvalue.Kind(input))
	}

	version, err := readVersion(obj)
	if err != nil {
		return nil, err
	}

	validated, err := v.Validate(version, obj)
	if err != nil {
		return nil, err
	}

	doc := validated.Clone()
	if !doc.Has("version") {
		doc.Set("version", jsonvalue.Number(version))
	}
	upgraded, err := v.versions[version].upgrade(doc)
	if err != nil {
		return nil, err
	}
	return ApplyDefaults(upgraded)
}

func readVersion(obj *jsonvalue.Object) (int, error) {
	raw, present := obj.Lookup("version")
	if !present {
		return 1, nil
	}
	n, ok := raw.(jsonvalue.Number)
	if !ok || !n.IsInteger() {
		return 0, errors.New(errors.ErrCodeUnsupportedVersion, "unsupported document version: %s", versionText(raw))
	}
	return int(n), nil
}

func versionText(v jsonvalue.Value) string {
	b, err := jsonvalue.Marshal(v)
	if err != nil {
		return jsonvalue.Kind(v)
	}
	return string(b)
}

// ApplyDefaults defaults doc in place against [Defaults] and decodes the
// result into a [Document]. No validation is performed; use it for payloads
// built in code.
func ApplyDefaults(doc *jsonvalue.Object) (*Document, error) {
	filled, err := defaults.Apply(doc, Defaults())
	if err != nil {
		return nil, err
	}
	var out Document
	if err := jsonvalue.Decode(filled, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "decode defaulted document")
	}
	return &out, nil
}

// CreateDefaultDocument returns the document produced by defaulting {}.
func CreateDefaultDocument() *Document {
	doc, err := ApplyDefaults(jsonvalue.NewObject())
	if err != nil {
		// The built-in table is well formed.
		panic(err)
	}
	return doc
}
