// Package opt provides Value, a field that may be absent from a partial update.
//
// Absent fields keep the stored value; present fields overwrite it. JSON null is
// rejected because every patchable registry column is NOT NULL.
package opt

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNull is returned when a patch tries to clear a field with JSON null.
var ErrNull = errors.New("field cannot be set to null")

// Value holds an optional T. The zero Value is absent.
type Value[T any] struct {
	v   T
	set bool
}

// Of returns a present Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// IsSet reports whether the value is present.
func (o Value[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.set
}

// OrElse returns the value if present, otherwise def.
func (o Value[T]) OrElse(def T) T {
	if o.set {
		return o.v
	}
	return def
}

// ApplyTo overwrites *dst when the value is present and reports whether it did.
func (o Value[T]) ApplyTo(dst *T) bool {
	if !o.set {
		return false
	}
	*dst = o.v
	return true
}

// LogValue exposes the held value to log maskers; absent values log as nil.
func (o Value[T]) LogValue() any {
	if !o.set {
		return nil
	}
	return o.v
}

// UnmarshalJSON marks the value present. It is only called for keys present in the payload.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return ErrNull
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	o.v = v
	o.set = true
	return nil
}

// MarshalJSON encodes the held value, or null when absent.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}
