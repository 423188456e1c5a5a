package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/value"
)

// Attributes is the raw attribute snapshot of a repository, exactly as the
// platform returned it, in declaration order.
type Attributes struct {
	keys   []string
	values map[string]any
}

// NewAttributes builds a snapshot from keys in declaration order and their values.
// Keys missing from values are recorded as null.
func NewAttributes(keys []string, values map[string]any) Attributes {
	a := Attributes{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]any, len(keys)),
	}
	for _, key := range keys {
		if _, seen := a.values[key]; seen {
			continue
		}
		a.keys = append(a.keys, key)
		a.values[key] = value.Normalize(values[key])
	}
	return a
}

// ParseAttributes decodes a JSON object into an ordered snapshot.
func ParseAttributes(data []byte) (Attributes, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return Attributes{}, fmt.Errorf(messages.RepositoryDecodeAttributesFmt, err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return Attributes{}, fmt.Errorf(messages.RepositoryDecodeAttributesFmt, fmt.Errorf("expected object, got %v", token))
	}

	var keys []string
	values := map[string]any{}
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return Attributes{}, fmt.Errorf(messages.RepositoryDecodeAttributesFmt, err)
		}
		key, ok := token.(string)
		if !ok {
			return Attributes{}, fmt.Errorf(messages.RepositoryDecodeAttributesFmt, fmt.Errorf("expected key, got %v", token))
		}
		var raw any
		if err := decoder.Decode(&raw); err != nil {
			return Attributes{}, fmt.Errorf(messages.RepositoryDecodeAttributesFmt, err)
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = fromJSON(raw)
	}
	if _, err := decoder.Token(); err != nil && err != io.EOF {
		return Attributes{}, fmt.Errorf(messages.RepositoryDecodeAttributesFmt, err)
	}
	return NewAttributes(keys, values), nil
}

// fromJSON converts json.Number leaves into int64 or float64.
func fromJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case []any:
		for i := range t {
			t[i] = fromJSON(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = fromJSON(t[k])
		}
		return t
	default:
		return v
	}
}

// Get returns the value of the named attribute.
func (a Attributes) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Has reports whether the snapshot holds the named attribute.
func (a Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Keys returns attribute names in declaration order.
func (a Attributes) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a.keys)
}

// String reads a string attribute, returning "" when absent or not a string.
func (a Attributes) String(name string) string {
	s, _ := a.values[name].(string)
	return s
}

// Bool reads a bool attribute, returning false when absent or not a bool.
func (a Attributes) Bool(name string) bool {
	b, _ := a.values[name].(bool)
	return b
}

// Int reads an integer attribute, returning 0 when absent or not an integer.
func (a Attributes) Int(name string) int64 {
	i, _ := a.values[name].(int64)
	return i
}

// Strings reads a list-of-strings attribute, skipping non-string elements.
func (a Attributes) Strings(name string) []string {
	list, ok := value.AsList(a.values[name])
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
