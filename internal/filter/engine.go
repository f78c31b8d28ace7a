package filter

import "encoding/json"

// Engine applies filter requests using one preset registry.
type Engine struct {
	presets *Registry
}

var defaultEngine = NewEngine(defaultRegistry)

// NewEngine returns an engine bound to presets. A nil registry means the
// built-in presets.
func NewEngine(presets *Registry) *Engine {
	if presets == nil {
		presets = defaultRegistry
	}
	return &Engine{presets: presets}
}

// Presets returns the registry the engine resolves presets against.
func (e *Engine) Presets() *Registry { return e.presets }

// Parse validates raw request strings. See Registry.Parse.
func (e *Engine) Parse(fieldsRaw, formatRaw, aggregateRaw string) (Config, error) {
	return e.presets.Parse(fieldsRaw, formatRaw, aggregateRaw)
}

// Apply runs the pipeline on an in-memory payload.
//
// The order is fixed: normalize, select fields, aggregate, serialize. Fields
// are selected before aggregating so "last" returns the last row's values,
// and aggregation happens before serializing so compact sees the reduced set.
//
// Raw JSON text passed as []byte or json.RawMessage is decoded first, so
// invalid text fails with *PayloadDecodeError as in ApplyJSON.
//
// Parameters:
//   - payload (any): decoded JSON (see DecodePayload), raw JSON bytes or a
//     native Go value.
//   - cfg (Config): a configuration produced by Parse.
//
// Returns:
//   - string: the serialized output.
//   - error: *PayloadDecodeError for invalid raw JSON, *UnsupportedFormatError
//     when cfg was not built by Parse.
func (e *Engine) Apply(payload any, cfg Config) (string, error) {
	switch raw := payload.(type) {
	case []byte:
		return e.ApplyJSON(raw, cfg)
	case json.RawMessage:
		return e.ApplyJSON(raw, cfg)
	}
	return run(Normalize(payload), cfg)
}

// ApplyJSON decodes payload text and runs the pipeline. Invalid JSON fails
// with *PayloadDecodeError before any other work.
func (e *Engine) ApplyJSON(data []byte, cfg Config) (string, error) {
	v, err := DecodePayload(data)
	if err != nil {
		return "", err
	}
	return run(normalizeDecoded(v), cfg)
}

func run(records RecordSequence, cfg Config) (string, error) {
	records = Select(records, cfg.fields)
	records = Aggregate(records, cfg.aggregate)
	return Serialize(records, cfg.format)
}

// Apply runs the pipeline with the built-in presets.
func Apply(payload any, cfg Config) (string, error) {
	return defaultEngine.Apply(payload, cfg)
}

// ApplyJSON decodes and filters payload text with the built-in presets.
func ApplyJSON(data []byte, cfg Config) (string, error) {
	return defaultEngine.ApplyJSON(data, cfg)
}
