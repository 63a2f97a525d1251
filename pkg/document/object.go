package document

import (
	"errors"
	"fmt"
)

// Field access errors.
var (
	ErrFieldNotFound = errors.New("field not found")
	ErrFieldType     = errors.New("field has wrong type")
)

// Object is an order-preserving record of named values. Legal values are
// string, int, bool, float64, nil, *Object, and *Array. Keys are unique
// within a record; Put on an existing key replaces the value in place
// without moving the key.
type Object struct {
	keys   []string
	fields map[string]any
}

// NewObject returns an empty object record.
func NewObject() *Object {
	return &Object{fields: make(map[string]any)}
}

// Put sets the value for key. A new key is appended after all existing
// keys; an existing key keeps its position.
func (o *Object) Put(key string, value any) {
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = value
}

// Has reports whether the record contains key.
func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Get returns the raw value for key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Remove deletes key from the record. Removing an absent key is a no-op.
func (o *Object) Remove(key string) {
	if _, ok := o.fields[key]; !ok {
		return
	}
	delete(o.fields, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the record's keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of fields in the record.
func (o *Object) Len() int {
	return len(o.keys)
}

// String returns the string value for key.
func (o *Object) String(key string) (string, error) {
	v, ok := o.fields[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, ErrFieldNotFound)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q: expected string, got %T: %w", key, v, ErrFieldType)
	}
	return s, nil
}

// Int returns the integer value for key.
func (o *Object) Int(key string) (int, error) {
	v, ok := o.fields[key]
	if !ok {
		return 0, fmt.Errorf("%q: %w", key, ErrFieldNotFound)
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("%q: expected int, got %T: %w", key, v, ErrFieldType)
	}
	return n, nil
}

// Bool returns the boolean value for key.
func (o *Object) Bool(key string) (bool, error) {
	v, ok := o.fields[key]
	if !ok {
		return false, fmt.Errorf("%q: %w", key, ErrFieldNotFound)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%q: expected bool, got %T: %w", key, v, ErrFieldType)
	}
	return b, nil
}

// Object returns the nested record value for key.
func (o *Object) Object(key string) (*Object, error) {
	v, ok := o.fields[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, ErrFieldNotFound)
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("%q: expected object, got %T: %w", key, v, ErrFieldType)
	}
	return obj, nil
}

// Array returns the array value for key.
func (o *Object) Array(key string) (*Array, error) {
	v, ok := o.fields[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, ErrFieldNotFound)
	}
	arr, ok := v.(*Array)
	if !ok {
		return nil, fmt.Errorf("%q: expected array, got %T: %w", key, v, ErrFieldType)
	}
	return arr, nil
}

// Array is an ordered, index-addressable sequence of values.
type Array struct {
	items []any
}

// NewArray returns an array holding the given items.
func NewArray(items ...any) *Array {
	return &Array{items: items}
}

// Append adds a value to the end of the array.
func (a *Array) Append(value any) {
	a.items = append(a.items, value)
}

// Len returns the number of items.
func (a *Array) Len() int {
	return len(a.items)
}

// At returns the raw value at index i. It panics when i is out of range,
// matching slice semantics.
func (a *Array) At(i int) any {
	return a.items[i]
}

// ObjectAt returns the record at index i.
func (a *Array) ObjectAt(i int) (*Object, error) {
	if i < 0 || i >= len(a.items) {
		return nil, fmt.Errorf("index %d out of range [0,%d): %w", i, len(a.items), ErrFieldNotFound)
	}
	obj, ok := a.items[i].(*Object)
	if !ok {
		return nil, fmt.Errorf("index %d: expected object, got %T: %w", i, a.items[i], ErrFieldType)
	}
	return obj, nil
}
