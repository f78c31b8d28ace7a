package dto

import (
	"github.com/guttosm/pulsefilter/internal/domain/models"
	"github.com/guttosm/pulsefilter/internal/filter"
)

// AggregateResponse is the unfiltered shape of GET /api/v1/aggregate.
//
// The handler hands it to the filter engine as a single object, so the default
// csv output has one row with these three columns.
type AggregateResponse struct {
	Ticker         string  `json:"ticker" example:"PETR4"`            // Stock ticker requested
	MaxRangeValue  float64 `json:"max_range_value" example:"20.50"`   // Maximum price observed in the period
	MaxDailyVolume int64   `json:"max_daily_volume" example:"150000"` // Maximum daily traded volume in the period
}

// NewAggregateResponse maps the domain aggregate to its response DTO.
func NewAggregateResponse(agg models.Aggregate) AggregateResponse {
	return AggregateResponse{
		Ticker:         agg.Ticker,
		MaxRangeValue:  agg.MaxRangeValue,
		MaxDailyVolume: agg.MaxDailyVolume,
	}
}

// Payload returns the response as an ordered filter payload.
func (r AggregateResponse) Payload() *filter.Object {
	return filter.NewObject().
		Set("ticker", r.Ticker).
		Set("max_range_value", r.MaxRangeValue).
		Set("max_daily_volume", r.MaxDailyVolume)
}
