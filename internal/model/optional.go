package model

import (
	"bytes"
	"encoding/json"
)

// Optional - поле частичного обновления с тремя состояниями:
// не передано (Set == false), передан null (Null == true) или значение.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON вызывается только для ключей, присутствующих в теле,
// поэтому отсутствующее поле остается с Set == false.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Null, o.Value = true, zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ptr возвращает nil для null и копию значения иначе.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// Present сообщает, передано ли непустое (не null) значение.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}
