// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"bytes"
	"encoding/json"
)

// Record is an ordered mapping of field names to validated values.
// Keys keep the order in which they were first set, which for records
// produced by [Schema.Validate] is the schema's declaration order.
//
// A nil value is the absence marker for optional fields without a default.
type Record struct {
	keys []string
	vals map[string]any
}

// NewRecord returns an empty [Record].
func NewRecord() *Record {
	return &Record{
		vals: make(map[string]any),
	}
}

// Set stores v under key and returns the record to allow chaining.
func (r *Record) Set(key string, v any) *Record {
	if r.vals == nil {
		r.vals = make(map[string]any)
	}
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
	return r
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.vals[key]
	return v, ok
}

// Has reports whether key is present, even if its value is nil.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Delete removes key from the record.
func (r *Record) Delete(key string) {
	if _, ok := r.vals[key]; !ok {
		return
	}
	delete(r.vals, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			return
		}
	}
}

// Keys returns the record keys in order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Merge copies every key of other into r, overwriting existing values.
func (r *Record) Merge(other *Record) *Record {
	for _, k := range other.Keys() {
		r.Set(k, other.vals[k])
	}
	return r
}

// String returns the string stored under key or "" if it is absent or not a string.
func (r *Record) String(key string) string {
	v, _ := r.Get(key)
	s, _ := v.(string)
	return s
}

// Int returns the integer stored under key or 0 if it is absent or not an integer.
func (r *Record) Int(key string) int64 {
	v, _ := r.Get(key)
	i, _ := v.(int64)
	return i
}

// Float returns the number stored under key or 0 if it is absent or not a number.
func (r *Record) Float(key string) float64 {
	v, _ := r.Get(key)
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	default:
		return 0
	}
}

// Bool returns the boolean stored under key or false if it is absent or not a boolean.
func (r *Record) Bool(key string) bool {
	v, _ := r.Get(key)
	b, _ := v.(bool)
	return b
}

// Record returns the nested record stored under key or nil.
func (r *Record) Record(key string) *Record {
	v, _ := r.Get(key)
	nested, _ := v.(*Record)
	return nested
}

// Upload returns the uploaded file metadata stored under key.
func (r *Record) Upload(key string) Upload {
	v, _ := r.Get(key)
	u, _ := v.(Upload)
	return u
}

// Map converts the record into a plain map, recursively converting nested records.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, r.Len())
	for _, k := range r.Keys() {
		v := r.vals[k]
		if nested, ok := v.(*Record); ok && nested != nil {
			v = nested.Map()
		}
		m[k] = v
	}
	return m
}

// MarshalJSON implements the [json.Marshaler] interface.
// Keys are written in record order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(r.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
