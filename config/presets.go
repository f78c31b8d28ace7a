package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// presetsFile is the on-disk layout of FILTER_PRESETS_FILE:
//
//	presets:
//	  day_bar: [ticker, day_open, day_close, day_volume]
//	  tape: [price, size, timestamp]
type presetsFile struct {
	Presets map[string][]string `yaml:"presets"`
}

// LoadPresets reads extra filter presets from a YAML file.
//
// An empty path returns no presets and no error. Unknown top-level keys are
// rejected so typos surface at startup instead of silently dropping presets.
func LoadPresets(path string) (map[string][]string, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var doc presetsFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse presets file %s: %w", path, err)
	}
	return doc.Presets, nil
}
