package types

import "encoding/json"

// Optional distinguishes an absent JSON field from an explicit null. Set is
// false when the field was missing from the payload; an explicit null leaves
// Value nil with Set true.
type Optional[T any] struct {
	Value *T
	Set   bool
}

// Some builds a present Optional carrying the given value.
func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: &value, Set: true}
}

// Null builds a present Optional carrying an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
