// Package filter reshapes market-data payloads into a smaller, caller-selected
// representation.
//
// A request is described by three strings (fields, output_format, aggregate)
// which Parse turns into a Config. Apply then runs the fixed pipeline:
//
//	normalize -> select fields -> aggregate -> serialize
//
// Everything in this package is stateless and safe for concurrent use. The
// preset Registry is built once and never mutated afterwards.
package filter

import (
	"fmt"
	"sort"
	"strings"
)

// PresetPrefix marks a fields specification that names a preset.
const PresetPrefix = "preset:"

// builtinPresets is the fixed preset catalogue. Field order is the column order
// callers get back.
var builtinPresets = map[string][]string{
	"price":          {"ticker", "close", "timestamp"},
	"last_price":     {"close"},
	"ohlc":           {"ticker", "open", "high", "low", "close", "timestamp"},
	"ohlcv":          {"ticker", "open", "high", "low", "close", "volume", "timestamp"},
	"summary":        {"ticker", "close", "volume", "change_percent"},
	"minimal":        {"ticker", "close"},
	"volume":         {"ticker", "volume", "timestamp"},
	"details":        {"ticker", "name", "market", "locale", "primary_exchange", "type", "currency_name"},
	"info":           {"ticker", "name", "description", "homepage_url"},
	"news_headlines": {"title", "published_utc", "author"},
	"news_summary":   {"title", "description", "published_utc", "article_url"},
	"trade":          {"price", "size", "timestamp"},
	"quote":          {"bid_price", "ask_price", "bid_size", "ask_size", "timestamp"},
}

// Registry maps preset names to ordered field lists.
//
// A Registry is read-only once constructed; every accessor returns copies so
// callers cannot alter shared state.
type Registry struct {
	presets map[string][]string
	names   []string
}

var defaultRegistry = mustRegistry(nil)

// DefaultRegistry returns the registry holding only the built-in presets.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry builds a registry from the built-in presets plus extra ones.
//
// Parameters:
//   - extra (map[string][]string): additional presets, usually loaded from the
//     presets YAML file. May be nil.
//
// Behavior:
//   - Names are trimmed and must be non-empty.
//   - A built-in preset cannot be redefined.
//   - Each preset must list at least one field; duplicates collapse (first wins).
//
// Returns:
//   - *Registry: the immutable registry.
//   - error: when an extra preset is invalid.
func NewRegistry(extra map[string][]string) (*Registry, error) {
	presets := make(map[string][]string, len(builtinPresets)+len(extra))
	for name, fields := range builtinPresets {
		presets[name] = append([]string(nil), fields...)
	}

	for rawName, fields := range extra {
		name := strings.TrimSpace(rawName)
		if name == "" {
			return nil, fmt.Errorf("preset name must not be empty")
		}
		if _, builtin := builtinPresets[name]; builtin {
			return nil, fmt.Errorf("preset %q is built in and cannot be redefined", name)
		}
		cleaned := dedupeFields(fields)
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("preset %q must list at least one field", name)
		}
		presets[name] = cleaned
	}

	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Registry{presets: presets, names: names}, nil
}

func mustRegistry(extra map[string][]string) *Registry {
	r, err := NewRegistry(extra)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the field list for a preset name.
func (r *Registry) Resolve(name string) ([]string, error) {
	fields, ok := r.presets[name]
	if !ok {
		return nil, &UnknownPresetError{Name: name, Valid: r.Names()}
	}
	return append([]string(nil), fields...), nil
}

// Names returns the preset names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Presets returns a copy of the whole table.
func (r *Registry) Presets() map[string][]string {
	out := make(map[string][]string, len(r.presets))
	for name, fields := range r.presets {
		out[name] = append([]string(nil), fields...)
	}
	return out
}

// ResolvePreset looks a name up in the default registry.
func ResolvePreset(name string) ([]string, error) {
	return defaultRegistry.Resolve(name)
}

// dedupeFields trims names, drops empty ones and keeps the first occurrence of duplicates.
func dedupeFields(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
