package app

import (
	"fmt"

	"github.com/guttosm/pulsefilter/config"
	"github.com/guttosm/pulsefilter/internal/filter"
	"github.com/guttosm/pulsefilter/internal/logger"
)

// NewFilterEngine builds the output filter engine with the built-in presets
// plus those declared in cfg.Filter.PresetsFile, if any.
func NewFilterEngine(cfg config.Config) (*filter.Engine, error) {
	extra, err := config.LoadPresets(cfg.Filter.PresetsFile)
	if err != nil {
		return nil, err
	}
	reg, err := filter.NewRegistry(extra)
	if err != nil {
		return nil, fmt.Errorf("presets file %s: %w", cfg.Filter.PresetsFile, err)
	}
	if len(extra) > 0 {
		logger.L().Info().Int("extra", len(extra)).Strs("presets", reg.Names()).Msg("filter presets loaded")
	}
	return filter.NewEngine(reg), nil
}
