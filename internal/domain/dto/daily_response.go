package dto

import (
	"github.com/guttosm/pulsefilter/internal/domain/models"
	"github.com/guttosm/pulsefilter/internal/filter"
)

// DailyBarResponse is one OHLCV row of GET /api/v1/daily. Its field names
// line up with the ohlc, ohlcv and volume presets.
type DailyBarResponse struct {
	Ticker    string  `json:"ticker" example:"PETR4"`
	Timestamp string  `json:"timestamp" example:"2025-09-12"`
	Open      float64 `json:"open" example:"38.10"`
	High      float64 `json:"high" example:"38.75"`
	Low       float64 `json:"low" example:"37.90"`
	Close     float64 `json:"close" example:"38.42"`
	Volume    int64   `json:"volume" example:"1520300"`
	Trades    int64   `json:"trades" example:"8123"`
}

// DailyEnvelope is the unfiltered body of GET /api/v1/daily.
type DailyEnvelope struct {
	Ticker  string             `json:"ticker" example:"PETR4"`
	Results []DailyBarResponse `json:"results"`
}

// NewDailyEnvelope maps bars, oldest first, into the daily envelope.
func NewDailyEnvelope(ticker string, bars []models.DailyBar) DailyEnvelope {
	out := DailyEnvelope{Ticker: ticker, Results: make([]DailyBarResponse, 0, len(bars))}
	for _, b := range bars {
		out.Results = append(out.Results, DailyBarResponse{
			Ticker:    b.Ticker,
			Timestamp: b.TradeDate.Format("2006-01-02"),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
			Trades:    b.Trades,
		})
	}
	return out
}

// Payload returns the envelope with each bar under "results".
func (e DailyEnvelope) Payload() *filter.Object {
	results := make([]any, 0, len(e.Results))
	for _, b := range e.Results {
		results = append(results, filter.NewObject().
			Set("ticker", b.Ticker).
			Set("timestamp", b.Timestamp).
			Set("open", b.Open).
			Set("high", b.High).
			Set("low", b.Low).
			Set("close", b.Close).
			Set("volume", b.Volume).
			Set("trades", b.Trades))
	}
	return filter.NewObject().
		Set("ticker", e.Ticker).
		Set("results", results)
}
