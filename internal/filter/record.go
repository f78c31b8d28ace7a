package filter

import (
	"encoding/json"
	"fmt"
)

// KeySeparator joins parent and child keys when nested objects are flattened.
const KeySeparator = "_"

// Field is one key/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is a flat, ordered mapping from field name to a scalar value.
//
// Values are nil, bool, string, json.Number, Go numbers, or json.RawMessage
// for array-valued fields (kept as their own JSON text).
type Record struct {
	keys   []string
	values map[string]any
}

// RecordSequence is the ordered list of records passed between pipeline stages.
type RecordSequence []Record

// NewRecord builds a record from fields in the given order. A repeated key
// keeps its first position and takes the last value.
func NewRecord(fields ...Field) Record {
	r := Record{values: make(map[string]any, len(fields))}
	for _, f := range fields {
		r.set(f.Key, f.Value)
	}
	return r
}

func (r *Record) set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value of a field.
func (r Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns field names in record order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Fields returns the record as ordered pairs.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.keys))
	for i, k := range r.keys {
		out[i] = Field{Key: k, Value: r.values[k]}
	}
	return out
}

// Object converts the record back into an ordered Object.
func (r Record) Object() *Object {
	obj := NewObject()
	for _, k := range r.keys {
		obj.Set(k, r.values[k])
	}
	return obj
}

// MarshalJSON writes the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	return marshalOrdered(r.keys, r.values)
}

// Flatten turns a nested object into a flat Record.
//
// Nested objects contribute "parent_child" keys, depth-first in insertion
// order. Arrays are not expanded; the field holds the array's compact JSON
// text. Flattening an already flat object returns the same keys and values.
func Flatten(obj *Object) Record {
	r := Record{values: make(map[string]any, obj.Len())}
	flattenInto(&r, "", obj)
	return r
}

func flattenInto(r *Record, prefix string, obj *Object) {
	if obj == nil {
		return
	}
	for _, k := range obj.keys {
		key := k
		if prefix != "" {
			key = prefix + KeySeparator + k
		}
		switch v := obj.values[k].(type) {
		case *Object:
			flattenInto(r, key, v)
		case []any:
			r.set(key, arrayText(v))
		default:
			r.set(key, v)
		}
	}
}

func arrayText(items []any) json.RawMessage {
	b, err := marshalJSON(items)
	if err != nil {
		// unencodable Go values only reach here through native payloads
		b, _ = marshalJSON(fmt.Sprint(items))
	}
	return json.RawMessage(b)
}
