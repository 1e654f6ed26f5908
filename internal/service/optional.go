package service

import "encoding/json"

// Optional models a partial-update field whose three states — absent from
// the request, explicitly null, and set to a value — stay distinguishable
// after decoding. Absent fields are never conflated with explicit nulls.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// UnmarshalJSON is only invoked for fields present in the payload, so a
// zero Optional means the field was absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// IsValue reports whether the field was provided with a non-null value.
func (o Optional[T]) IsValue() bool {
	return o.Present && !o.Null
}
