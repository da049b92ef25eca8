package codec

import (
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

// YAMLCodec handles YAML documents. Only the JSON-compatible subset of
// YAML is accepted: mapping keys must be scalars and tags other than the
// core schema ones are rejected.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier.
func (c *YAMLCodec) Format() string {
	return FormatYAML
}

// Decode parses the first YAML document in r.
func (c *YAMLCodec) Decode(r io.Reader) (jsonvalue.Value, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidInput, "empty yaml document")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse yaml")
	}
	v, err := fromYAML(&root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse yaml")
	}
	return v, nil
}

// Encode writes v as YAML indented with two spaces.
func (c *YAMLCodec) Encode(v jsonvalue.Value, w io.Writer) error {
	node, err := toYAML(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(node); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

func fromYAML(n *yaml.Node) (jsonvalue.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return jsonvalue.Null{}, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		obj := jsonvalue.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, val := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			elem, err := fromYAML(val)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, elem)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make(jsonvalue.Array, 0, len(n.Content))
		for _, c := range n.Content {
			elem, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
	}
}

func scalarFromYAML(n *yaml.Node) (jsonvalue.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return jsonvalue.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return jsonvalue.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return jsonvalue.Number(f), nil
	case "!!str", "!!timestamp":
		return jsonvalue.String(n.Value), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported tag %s", n.Line, n.ShortTag())
	}
}

func toYAML(v jsonvalue.Value) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil, jsonvalue.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case jsonvalue.Bool, jsonvalue.String:
		n := &yaml.Node{}
		if err := n.Encode(jsonvalue.ToGo(t)); err != nil {
			return nil, err
		}
		return n, nil
	case jsonvalue.Number:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return toYAML(jsonvalue.Null{})
		}
		n := &yaml.Node{}
		var err error
		if t.IsInteger() && math.Abs(f) < 1<<53 {
			err = n.Encode(int64(f))
		} else {
			err = n.Encode(f)
		}
		if err != nil {
			return nil, err
		}
		return n, nil
	case jsonvalue.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range t {
			c, err := toYAML(elem)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case *jsonvalue.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		t.Range(func(key string, elem jsonvalue.Value) bool {
			k := &yaml.Node{}
			if err = k.Encode(key); err != nil {
				return false
			}
			var c *yaml.Node
			if c, err = toYAML(elem); err != nil {
				return false
			}
			n.Content = append(n.Content, k, c)
			return true
		})
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("cannot encode %T", v)
	}
}
