package entity

import "encoding/json"

// Patch wraps an optional override field so that "field omitted from the
// payload" and "field explicitly set to null" stay distinguishable after
// decoding. An omitted field inherits the base event's value; an explicit
// null clears the stored override back to inherit; an explicit value (false
// and zero included) overrides the base.
type Patch[T any] struct {
	Present bool
	Value   *T // nil when the field was explicitly null
}

func PatchOf[T any](v T) Patch[T] {
	return Patch[T]{Present: true, Value: &v}
}

func PatchNull[T any]() Patch[T] {
	return Patch[T]{Present: true}
}

func (p *Patch[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if p.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*p.Value)
}

// Get returns the override value and whether one was explicitly provided.
func (p Patch[T]) Get() (*T, bool) {
	return p.Value, p.Present
}
