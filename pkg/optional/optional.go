// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

/*
Package optional provides a presence-tracking wrapper for JSON fields.

Standard Go decoding cannot distinguish a key that is absent from a key that
is explicitly null: both leave a pointer nil. Update payloads for civic
records need all three states:

  - absent  → leave the stored field untouched
  - null    → clear the stored field
  - value   → overwrite the stored field

Optional records which of the three states the payload expressed.
*/
package optional

import "encoding/json"

// Optional is a tri-state JSON field.
//
// The zero value means "key absent".
type Optional[T any] struct {
	// Set reports whether the key was present in the payload at all.
	Set bool
	// Valid reports whether the value was non-null. Meaningless unless Set.
	Valid bool
	// Value holds the decoded value when Set && Valid.
	Value T
}

// Of returns an Optional carrying the given value.
func Of[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null returns an Optional representing an explicit JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// so Set is always true here; null leaves Valid false.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON renders null for absent or explicitly-null fields.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Get returns the value and whether it is usable (present and non-null).
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set && o.Valid
}
