package models

import "encoding/json"

// Field is one slot of a partial update. It distinguishes a field that was
// absent from the request body from one explicitly set, including set to
// null: a nullable field uses a pointer type parameter, so Field[*T] with a
// nil value means "explicitly cleared" while an unset Field means "leave
// alone".
type Field[T any] struct {
	value T
	set   bool
}

// Set builds a field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// IsSet reports whether the field appeared in the request.
func (f Field[T]) IsSet() bool {
	return f.set
}

// Value returns the field's value; the zero value when unset.
func (f Field[T]) Value() T {
	return f.value
}

// UnmarshalJSON marks the field set. encoding/json only calls this when the
// key is present, so absent keys keep the zero (unset) Field.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}
	f.set = true
	return nil
}

// MarshalJSON writes the held value; unset fields encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
