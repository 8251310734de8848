package models

import (
	"bytes"
	"encoding/json"
)

// Field distinguishes "key absent" from "key present" in a partial update.
// Present is set whenever the JSON key appears, including an explicit null.
type Field[T any] struct {
	Present bool
	Value   T
}

// Set returns a present field holding v
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
