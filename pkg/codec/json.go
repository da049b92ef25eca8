package codec

import (
	"fmt"
	"io"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

// JSONCodec handles JSON documents. Output is indented with two spaces.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier.
func (c *JSONCodec) Format() string {
	return FormatJSON
}

// Decode parses a single JSON value from r.
func (c *JSONCodec) Decode(r io.Reader) (jsonvalue.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	v, err := jsonvalue.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse json")
	}
	return v, nil
}

// Encode writes v followed by a newline.
func (c *JSONCodec) Encode(v jsonvalue.Value, w io.Writer) error {
	data, err := jsonvalue.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
