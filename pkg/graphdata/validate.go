package graphdata

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

// =============================================================================
// V1 Shape
// =============================================================================

// The V1 shape declarations. Pointer fields are optional; fields tagged
// shape:"nullable" additionally accept null. Unknown keys are ignored.

type documentV1 struct {
	Version       *float64         `json:"version" validate:"omitempty,eq=1"`
	Nodes         []nodeV1         `json:"nodes" validate:"omitempty,dive"`
	Links         []linkV1         `json:"links" validate:"omitempty,dive"`
	ZoomState     *zoomStateV1     `json:"zoomState" validate:"omitempty"`
	LayoutState   *layoutStateV1   `json:"layoutState" validate:"omitempty"`
	DisplayConfig *displayConfigV1 `json:"displayConfig" validate:"omitempty"`
	DataSource    *dataSourceV1    `json:"dataSource" validate:"omitempty"`
}

type nodeV1 struct {
	ID       *string  `json:"id" validate:"required"`
	Label    *string  `json:"label" validate:"required"`
	Color    *string  `json:"color" shape:"nullable"`
	IsLocked *bool    `json:"isLocked"`
	X        *float64 `json:"x" shape:"nullable"`
	Y        *float64 `json:"y" shape:"nullable"`
}

type linkV1 struct {
	Source *string `json:"source" validate:"required"`
	Target *string `json:"target" validate:"required"`
	Stroke *string `json:"stroke" validate:"omitempty,oneof=solid dashed"`
}

type zoomStateV1 struct {
	CenterX *float64 `json:"centerX" validate:"required"`
	CenterY *float64 `json:"centerY" validate:"required"`
	Scale   *float64 `json:"scale" validate:"required"`
}

type layoutStateV1 struct {
	LayoutType            *string                  `json:"layoutType" validate:"omitempty,oneof=force_simulation"`
	ForceSimulationConfig *forceSimulationConfigV1 `json:"forceSimulationConfig" validate:"omitempty"`
}

type forceSimulationConfigV1 struct {
	OriginPullStrength *float64 `json:"originPullStrength"`
	ParticleCharge     *float64 `json:"particleCharge"`
	ChargeDistanceMax  *float64 `json:"chargeDistanceMax" validate:"omitempty,gte=0"`
	LinkDistance       *float64 `json:"linkDistance" validate:"omitempty,gte=0"`
}

type displayConfigV1 struct {
	NodeRenderMode *string `json:"nodeRenderMode" validate:"omitempty,oneof=basic raw_html"`
}

type dataSourceV1 struct {
	ConnectedSpreadsheetID *string `json:"connectedSpreadsheetId" shape:"nullable"`
}

// =============================================================================
// Validator
// =============================================================================

// Validator checks untyped input against a registered document version.
type Validator struct {
	validate *validator.Validate
	versions map[int]versionEntry
}

var (
	defaultValidator *Validator
	defaultOnce      sync.Once
)

// DefaultValidator returns the shared validator for the built-in versions.
func DefaultValidator() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = NewValidator()
	})
	return defaultValidator
}

// NewValidator creates a validator with the built-in version registry.
func NewValidator() *Validator {
	v := &Validator{
		validate: validator.New(),
		versions: builtinVersions(),
	}
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks blob against the shape declared for version and returns it
// as an object. It fails with UNSUPPORTED_VERSION for unknown versions and
// VALIDATION_ERROR otherwise. blob is not modified.
func (v *Validator) Validate(version int, blob jsonvalue.Value) (*jsonvalue.Object, error) {
	entry, ok := v.versions[version]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedVersion, "unsupported document version: %d", version)
	}

	obj, ok := blob.(*jsonvalue.Object)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "expected object, got %s", jsonvalue.Kind(blob))
	}
	if err := checkShape(obj, entry.shape, "", false); err != nil {
		return nil, err
	}

	typed := reflect.New(entry.shape)
	if err := jsonvalue.Decode(obj, typed.Interface()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "decode version %d document", version)
	}
	if err := v.validate.Struct(typed.Interface()); err != nil {
		return nil, formatValidationError(err)
	}
	return obj, nil
}

// Validate checks blob with the default validator.
func Validate(version int, blob jsonvalue.Value) (*jsonvalue.Object, error) {
	return DefaultValidator().Validate(version, blob)
}

// formatValidationError converts the first validator error into a
// VALIDATION_ERROR carrying the JSON field path.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeValidation, err, "validation failed")
	}
	fe := verrs[0]
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "oneof":
		msg = fmt.Sprintf("must be one of [%s]", fe.Param())
	case "eq":
		msg = fmt.Sprintf("must equal %s", fe.Param())
	case "gte":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	default:
		msg = fmt.Sprintf("failed %s validation", fe.Tag())
	}
	return errors.New(errors.ErrCodeValidation, "%s", msg).WithField(path)
}

// =============================================================================
// Shape Check
// =============================================================================

// checkShape verifies that v has the JSON kind implied by t, recursing into
// arrays and objects. It runs before decoding so type mismatches report an
// exact path such as "nodes[2].x".
func checkShape(v jsonvalue.Value, t reflect.Type, path string, nullable bool) error {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if _, isNull := v.(jsonvalue.Null); isNull {
		if nullable {
			return nil
		}
		return shapeError(t, v, path)
	}

	switch t.Kind() {
	case reflect.String:
		if _, ok := v.(jsonvalue.String); !ok {
			return shapeError(t, v, path)
		}
	case reflect.Float64:
		if _, ok := v.(jsonvalue.Number); !ok {
			return shapeError(t, v, path)
		}
	case reflect.Bool:
		if _, ok := v.(jsonvalue.Bool); !ok {
			return shapeError(t, v, path)
		}
	case reflect.Slice:
		arr, ok := v.(jsonvalue.Array)
		if !ok {
			return shapeError(t, v, path)
		}
		for i, elem := range arr {
			if err := checkShape(elem, t.Elem(), fmt.Sprintf("%s[%d]", path, i), false); err != nil {
				return err
			}
		}
	case reflect.Struct:
		obj, ok := v.(*jsonvalue.Object)
		if !ok {
			return shapeError(t, v, path)
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			fv, present := obj.Lookup(name)
			if !present {
				continue
			}
			fieldPath := name
			if path != "" {
				fieldPath = path + "." + name
			}
			if err := checkShape(fv, f.Type, fieldPath, f.Tag.Get("shape") == "nullable"); err != nil {
				return err
			}
		}
	}
	return nil
}

func shapeError(t reflect.Type, v jsonvalue.Value, path string) error {
	e := errors.New(errors.ErrCodeValidation, "expected %s, got %s", shapeKind(t), jsonvalue.Kind(v))
	if path != "" {
		e = e.WithField(path)
	}
	return e
}

func shapeKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		return "array"
	case reflect.Struct:
		return "object"
	}
	return t.Kind().String()
}
