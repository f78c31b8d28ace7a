package filter

import (
	"encoding/json"
	"reflect"
	"sort"
)

// ResultsKey is the envelope key under which upstream APIs return their rows.
const ResultsKey = "results"

// ValueKey names the single field of a record built from a non-object item.
const ValueKey = "value"

// payloadKind is the shape of a payload, decided once in classify.
type payloadKind int

const (
	kindScalar   payloadKind = iota // neither object nor list
	kindSingle                      // one object without a results container
	kindList                        // a bare list of items
	kindEnvelope                    // an object carrying its rows under ResultsKey
)

type payload struct {
	kind   payloadKind
	scalar any
	single *Object
	items  []any
}

// Normalize turns a payload into a RecordSequence.
//
// Accepted payloads are the values produced by DecodePayload plus common
// native Go shapes (maps with string keys, slices, Record, RecordSequence).
// Native maps have no key order, so their keys are sorted.
//
// Rules:
//   - {"results": [...]}: each list item is a record.
//   - {"results": {...}}: that object is the only record.
//   - [...]: each item is a record.
//   - any other object: a single record.
//   - anything else: a single {"value": payload} record.
//
// Items that are not objects become {"value": item}.
func Normalize(v any) RecordSequence {
	switch t := v.(type) {
	case RecordSequence:
		return t
	case []Record:
		return RecordSequence(t)
	case Record:
		return RecordSequence{t}
	}
	return normalizeDecoded(canonical(v))
}

// normalizeDecoded expects the shapes produced by DecodePayload.
func normalizeDecoded(v any) RecordSequence {
	p := classify(v)
	switch p.kind {
	case kindScalar:
		return RecordSequence{NewRecord(Field{Key: ValueKey, Value: p.scalar})}
	case kindSingle:
		return RecordSequence{Flatten(p.single)}
	}

	records := make(RecordSequence, 0, len(p.items))
	for _, item := range p.items {
		records = append(records, toRecord(item))
	}
	return records
}

func classify(v any) payload {
	switch t := v.(type) {
	case *Object:
		if results, ok := t.Get(ResultsKey); ok {
			switch r := results.(type) {
			case []any:
				return payload{kind: kindEnvelope, items: r}
			case *Object:
				return payload{kind: kindEnvelope, items: []any{r}}
			}
		}
		return payload{kind: kindSingle, single: t}
	case []any:
		return payload{kind: kindList, items: t}
	default:
		return payload{kind: kindScalar, scalar: t}
	}
}

func toRecord(item any) Record {
	switch t := item.(type) {
	case *Object:
		return Flatten(t)
	case []any:
		return NewRecord(Field{Key: ValueKey, Value: arrayText(t)})
	default:
		return NewRecord(Field{Key: ValueKey, Value: t})
	}
}

// canonical converts native Go containers into *Object and []any so the rest
// of the pipeline only deals with decoded shapes.
func canonical(v any) any {
	switch t := v.(type) {
	case nil, string, bool, json.Number, json.RawMessage:
		return t
	case *Object:
		if t == nil {
			return nil
		}
		obj := NewObject()
		for _, k := range t.keys {
			obj.Set(k, canonical(t.values[k]))
		}
		return obj
	case Record:
		return canonical(t.Object())
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = canonical(item)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, canonical(t[k]))
		}
		return obj
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = canonical(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, canonical(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()))
		}
		return obj
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}
