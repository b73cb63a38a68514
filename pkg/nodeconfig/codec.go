package nodeconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Serializer is the abstract capability backing NodeDetails encoding:
// fallible serialize/deserialize of a NodeDetails-shaped value.
type Serializer interface {
	Serialize(v interface{}) ([]byte, error)
	Deserialize(data []byte, out interface{}) error
}

// YAMLSerializer implements Serializer with gopkg.in/yaml.v3.
type YAMLSerializer struct{}

// DefaultSerializer is the codec used when a Node is built without an
// explicit one.
var DefaultSerializer Serializer = YAMLSerializer{}

// Serialize encodes v as YAML.
func (YAMLSerializer) Serialize(v interface{}) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("nodeconfig: serialize: %w", err)
	}
	return data, nil
}

// Deserialize decodes YAML bytes into out.
func (YAMLSerializer) Deserialize(data []byte, out interface{}) error {
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("nodeconfig: deserialize: %w", err)
	}
	return nil
}
