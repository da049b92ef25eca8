// Package codec reads and writes graph documents in their wire form.
//
// Codecs work on [jsonvalue.Value] trees rather than typed documents, so a
// YAML file goes through exactly the same validation and defaulting as a
// JSON one. Key order is preserved in both directions.
package codec

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Decoder reads a document value.
type Decoder interface {
	Decode(r io.Reader) (jsonvalue.Value, error)
	Format() string
}

// Encoder writes a document value.
type Encoder interface {
	Encode(v jsonvalue.Value, w io.Writer) error
	Format() string
}

// Codec reads and writes one format.
type Codec interface {
	Decoder
	Encoder
}

// ForFormat returns the codec for a format name. "yml" is accepted as an
// alias for "yaml".
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSONCodec(), nil
	case FormatYAML, "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

// ForPath picks a codec from a file extension. Unknown extensions get JSON.
func ForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLCodec()
	default:
		return NewJSONCodec()
	}
}
