// Package codec provides the encoders used to turn typed values into the bytes
// kept in a backing store.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/fystack/storable/pkg/constant"
	"gopkg.in/yaml.v3"
)

// Codec encodes and decodes values for storage.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v, which must be a pointer.
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier used in config and logs.
	Name() string
}

var (
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
)

// Default is used whenever a caller passes a nil codec.
var Default = JSON

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return constant.CodecJSON }

type yamlCodec struct{}

func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
func (yamlCodec) Name() string                       { return constant.CodecYAML }

// ByName resolves a codec from its config name. An empty name yields Default.
func ByName(name string) (Codec, error) {
	switch name {
	case "":
		return Default, nil
	case constant.CodecJSON:
		return JSON, nil
	case constant.CodecYAML:
		return YAML, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// OrDefault returns c, or Default when c is nil.
func OrDefault(c Codec) Codec {
	if c == nil {
		return Default
	}
	return c
}
