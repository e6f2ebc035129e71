// Package optional distinguishes "field absent" from "field set to the zero
// value" in partial update requests.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is either unset or set(v). JSON null decodes as unset.
type Value[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

func None[T any]() Value[T] {
	return Value[T]{}
}

func (o Value[T]) IsSet() bool {
	return o.set
}

func (o Value[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrElse returns the held value, or def when unset.
func (o Value[T]) OrElse(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// Apply writes the held value into dst when set.
func (o Value[T]) Apply(dst *T) {
	if o.set {
		*dst = o.value
	}
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// FromForm reads key from multipart / urlencoded form values. A key that is
// present with an empty string is set(""), a missing key is unset.
func FromForm(values map[string][]string, key string) Value[string] {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return None[string]()
	}
	return Some(vs[0])
}
