package filter

import "strings"

// Format is the serialized shape of a filter response.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatCompact Format = "compact"
)

var formats = []Format{FormatCSV, FormatJSON, FormatCompact}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	for _, known := range formats {
		if f == known {
			return true
		}
	}
	return false
}

// AggregatePolicy reduces a record sequence to at most one record.
type AggregatePolicy string

const (
	AggregateNone  AggregatePolicy = "none"
	AggregateFirst AggregatePolicy = "first"
	AggregateLast  AggregatePolicy = "last"
)

// Config is a validated filter request. It is built by Parse and never changes
// afterwards; the zero value is not valid, use DefaultConfig instead.
type Config struct {
	fields    []string
	format    Format
	aggregate AggregatePolicy
}

// DefaultConfig keeps every field, serializes to CSV and does not aggregate.
func DefaultConfig() Config {
	return Config{format: FormatCSV, aggregate: AggregateNone}
}

// Fields returns the selected field names in output order, or nil when every
// field is kept.
func (c Config) Fields() []string {
	if c.fields == nil {
		return nil
	}
	return append([]string(nil), c.fields...)
}

// HasFieldFilter reports whether a field selection was requested.
func (c Config) HasFieldFilter() bool { return len(c.fields) > 0 }

func (c Config) Format() Format { return c.format }

func (c Config) Aggregate() AggregatePolicy { return c.aggregate }

// IsPassthrough reports whether the request asks for nothing beyond the
// default full CSV rendering.
func (c Config) IsPassthrough() bool {
	return !c.HasFieldFilter() && c.format == FormatCSV && c.aggregate == AggregateNone
}

// Parse validates the three raw request strings against the default registry.
func Parse(fieldsRaw, formatRaw, aggregateRaw string) (Config, error) {
	return defaultRegistry.Parse(fieldsRaw, formatRaw, aggregateRaw)
}

// Parse turns raw request strings into a Config. Empty strings mean "not set".
//
// Parameters:
//   - fieldsRaw: "preset:<name>" or a comma-separated list of field names.
//   - formatRaw: "csv", "json" or "compact" (case-sensitive). Defaults to csv.
//   - aggregateRaw: "first" or "last". Empty or "none" disables aggregation.
//
// Returns:
//   - Config: the validated configuration.
//   - error: *UnknownPresetError, *InvalidFieldsSpecificationError,
//     *InvalidFormatError or *InvalidAggregateError.
func (r *Registry) Parse(fieldsRaw, formatRaw, aggregateRaw string) (Config, error) {
	cfg := DefaultConfig()

	fields, err := r.parseFields(fieldsRaw)
	if err != nil {
		return Config{}, err
	}
	cfg.fields = fields

	if formatRaw != "" {
		f := Format(formatRaw)
		if !f.Valid() {
			return Config{}, &InvalidFormatError{Value: formatRaw}
		}
		cfg.format = f
	}

	switch AggregatePolicy(aggregateRaw) {
	case "", AggregateNone:
	case AggregateFirst, AggregateLast:
		cfg.aggregate = AggregatePolicy(aggregateRaw)
	default:
		return Config{}, &InvalidAggregateError{Value: aggregateRaw}
	}

	return cfg, nil
}

func (r *Registry) parseFields(raw string) ([]string, error) {
	fields := dedupeFields(strings.Split(raw, ","))
	if len(fields) == 0 {
		return nil, nil
	}

	for _, f := range fields {
		if !strings.HasPrefix(f, PresetPrefix) {
			continue
		}
		// a preset stands alone
		if len(fields) > 1 {
			return nil, &InvalidFieldsSpecificationError{Spec: raw}
		}
		return r.Resolve(strings.TrimSpace(strings.TrimPrefix(f, PresetPrefix)))
	}

	return fields, nil
}
