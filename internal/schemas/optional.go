// Package schemas defines the request and response shapes of the HTTP API.
package schemas

import (
	"encoding/json"
	"reflect"
	"time"

	"dwight/internal/models"
	"dwight/internal/validator"
)

// Optional is a JSON field that distinguishes "absent" from "null" from a
// value. Set is true whenever the key appeared in the payload; Null is true
// when it appeared as a literal null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a present Optional holding an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON only runs when the key is present in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes null for absent or null values.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// HasValue reports whether a non-null value was supplied.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// Ptr returns a pointer to the value, or nil when absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.HasValue() {
		return nil
	}
	v := o.Value
	return &v
}

// validationValue hands the validator a pointer to the wrapped value, or nil
// so that omitempty skips absent and null fields. A present zero value stays
// non-nil and is still checked against the field's constraints.
func validationValue(field reflect.Value) interface{} {
	if v, ok := field.Interface().(interface{ unwrap() interface{} }); ok {
		return v.unwrap()
	}
	return nil
}

func (o Optional[T]) unwrap() interface{} {
	if p := o.Ptr(); p != nil {
		return p
	}
	return nil
}

func init() {
	validator.RegisterCustomType(validationValue,
		Optional[string]{},
		Optional[float64]{},
		Optional[time.Time]{},
		Optional[models.AssetCategory]{},
	)
}
