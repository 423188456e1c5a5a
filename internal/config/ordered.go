package config

import (
	"bytes"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"

	"github.com/conn-castle/steward/internal/messages"
)

// Map is a YAML mapping that remembers declaration order. Templates, filter
// criteria, and target attributes are evaluated in the order they are written.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// MapOf builds a Map from keys in order; values missing from values are zero.
func MapOf[V any](keys []string, values map[string]V) Map[V] {
	m := Map[V]{values: make(map[string]V, len(keys))}
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			continue
		}
		m.keys = append(m.keys, key)
		m.values[key] = values[key]
	}
	return m
}

// UnmarshalYAML decodes a mapping node, rejecting duplicate keys and unknown
// struct fields in values.
func (m *Map[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*m = Map[V]{}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf(messages.ConfigExpectedMappingFmt, node.Line)
	}
	out := Map[V]{values: make(map[string]V, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value
		if _, dup := out.values[key]; dup {
			return fmt.Errorf(messages.ConfigDuplicateKeyFmt, key, keyNode.Line)
		}
		var v V
		if err := decodeNodeStrict(valueNode, &v); err != nil {
			return err
		}
		out.keys = append(out.keys, key)
		out.values[key] = v
	}
	*m = out
	return nil
}

// decodeNodeStrict re-decodes node with unknown-field rejection; yaml.Node.Decode
// does not inherit KnownFields from the outer decoder.
func decodeNodeStrict(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(out)
}

// Keys returns the keys in declaration order.
func (m Map[V]) Keys() []string {
	return append([]string{}, m.keys...)
}

// Get returns the value for key.
func (m Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of entries.
func (m Map[V]) Len() int {
	return len(m.keys)
}

// All iterates entries in declaration order.
func (m Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}
