package filter

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse("", "", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Fields() != nil || cfg.HasFieldFilter() {
		t.Fatalf("expected no field filter, got %v", cfg.Fields())
	}
	if cfg.Format() != FormatCSV || cfg.Aggregate() != AggregateNone {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.IsPassthrough() {
		t.Fatalf("default config should be passthrough")
	}
}

func TestParse_TableDriven(t *testing.T) {
	cases := []struct {
		name       string
		fields     string
		format     string
		aggregate  string
		wantFields []string
		wantFormat Format
		wantAgg    AggregatePolicy
	}{
		{name: "comma separated", fields: "ticker,close,volume", wantFields: []string{"ticker", "close", "volume"}, wantFormat: FormatCSV, wantAgg: AggregateNone},
		{name: "spaces trimmed", fields: "ticker, close , volume", wantFields: []string{"ticker", "close", "volume"}, wantFormat: FormatCSV, wantAgg: AggregateNone},
		{name: "empty tokens dropped", fields: ",ticker,, ,close,", wantFields: []string{"ticker", "close"}, wantFormat: FormatCSV, wantAgg: AggregateNone},
		{name: "only separators", fields: " , ,", wantFields: nil, wantFormat: FormatCSV, wantAgg: AggregateNone},
		{name: "duplicates collapse", fields: "close,ticker,close", wantFields: []string{"close", "ticker"}, wantFormat: FormatCSV, wantAgg: AggregateNone},
		{name: "preset", fields: "preset:ohlc", wantFields: []string{"ticker", "open", "high", "low", "close", "timestamp"}, wantFormat: FormatCSV, wantAgg: AggregateNone},
		{name: "preset padded", fields: " preset:price ", wantFields: []string{"ticker", "close", "timestamp"}, wantFormat: FormatCSV, wantAgg: AggregateNone},
		{name: "json", format: "json", wantFormat: FormatJSON, wantAgg: AggregateNone},
		{name: "compact", format: "compact", wantFormat: FormatCompact, wantAgg: AggregateNone},
		{name: "first", aggregate: "first", wantFormat: FormatCSV, wantAgg: AggregateFirst},
		{name: "last", aggregate: "last", wantFormat: FormatCSV, wantAgg: AggregateLast},
		{name: "explicit none", aggregate: "none", wantFormat: FormatCSV, wantAgg: AggregateNone},
		{name: "all", fields: "ticker,close", format: "json", aggregate: "last", wantFields: []string{"ticker", "close"}, wantFormat: FormatJSON, wantAgg: AggregateLast},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse(tc.fields, tc.format, tc.aggregate)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !reflect.DeepEqual(cfg.Fields(), tc.wantFields) {
				t.Fatalf("fields: want %v got %v", tc.wantFields, cfg.Fields())
			}
			if cfg.Format() != tc.wantFormat {
				t.Fatalf("format: want %q got %q", tc.wantFormat, cfg.Format())
			}
			if cfg.Aggregate() != tc.wantAgg {
				t.Fatalf("aggregate: want %q got %q", tc.wantAgg, cfg.Aggregate())
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name      string
		fields    string
		format    string
		aggregate string
		target    any
		mention   string
	}{
		{name: "unknown preset", fields: "preset:bogus", target: new(*UnknownPresetError), mention: "bogus"},
		{name: "empty preset name", fields: "preset:", target: new(*UnknownPresetError)},
		{name: "preset plus fields", fields: "preset:ohlc,volume", target: new(*InvalidFieldsSpecificationError), mention: "preset:ohlc,volume"},
		{name: "fields plus preset", fields: "ticker, preset:price", target: new(*InvalidFieldsSpecificationError)},
		{name: "xml", format: "xml", target: new(*InvalidFormatError), mention: "xml"},
		{name: "format is case sensitive", format: "JSON", target: new(*InvalidFormatError), mention: "csv, json, compact"},
		{name: "average", aggregate: "average", target: new(*InvalidAggregateError), mention: "average"},
		{name: "aggregate case sensitive", aggregate: "Last", target: new(*InvalidAggregateError)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.fields, tc.format, tc.aggregate)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.As(err, tc.target) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if !IsRequestError(err) {
				t.Fatalf("expected request error, got %v", err)
			}
			if tc.mention != "" && !strings.Contains(err.Error(), tc.mention) {
				t.Fatalf("error %q should mention %q", err.Error(), tc.mention)
			}
		})
	}
}

func TestConfig_FieldsIsCopy(t *testing.T) {
	cfg, _ := Parse("ticker,close", "", "")
	f := cfg.Fields()
	f[0] = "x"
	if cfg.Fields()[0] != "ticker" {
		t.Fatalf("config was mutated through Fields()")
	}
	if cfg.IsPassthrough() {
		t.Fatalf("field filter is not passthrough")
	}
}

func TestRegistryParse_UsesExtraPresets(t *testing.T) {
	r, err := NewRegistry(map[string][]string{"day": {"day_close", "day_volume"}})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	cfg, err := r.Parse("preset:day", "compact", "last")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(cfg.Fields(), []string{"day_close", "day_volume"}) {
		t.Fatalf("unexpected fields: %v", cfg.Fields())
	}
	if _, err := Parse("preset:day", "", ""); err == nil {
		t.Fatalf("default registry should not know preset day")
	}
}
