// Package patch models partial-update payloads where a key that is absent
// must be told apart from a key that is present with an empty value.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field records whether a JSON key was present. A present null sets Value
// to the zero value of T.
type Field[T any] struct {
	Set   bool
	Value T
}

// Some returns a present field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// UnmarshalJSON is only invoked for keys present in the payload.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Apply copies the value into dst when the field was present.
func (f Field[T]) Apply(dst *T) bool {
	if !f.Set || dst == nil {
		return false
	}
	*dst = f.Value
	return true
}
