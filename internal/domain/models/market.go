package models

import "time"

// Aggregate holds the two headline figures of a ticker over a date range:
// the highest trade price and the largest single-day traded quantity.
type Aggregate struct {
	Ticker         string  `json:"ticker" example:"PETR4"`
	MaxRangeValue  float64 `json:"max_range_value" example:"20.50"`
	MaxDailyVolume int64   `json:"max_daily_volume" example:"150000"`
}

// DailyBar is the OHLCV summary of one ticker on one trade date.
//
// Open and Close are the prices of the first and last trade of the day by
// closing time. Trades counts the rows that made up the bar.
//
// swagger:model DailyBar
type DailyBar struct {
	Ticker    string    `json:"ticker" example:"PETR4"`
	TradeDate time.Time `json:"trade_date"`
	Open      float64   `json:"open" example:"38.10"`
	High      float64   `json:"high" example:"38.75"`
	Low       float64   `json:"low" example:"37.90"`
	Close     float64   `json:"close" example:"38.42"`
	Volume    int64     `json:"volume" example:"1520300"`
	Trades    int64     `json:"trades" example:"8123"`
}

// TradeQuery narrows trade and bar lookups.
//
// Start and End are inclusive trade dates; nil leaves that side open.
// Limit caps the number of rows where the query supports it.
type TradeQuery struct {
	Ticker string
	Start  *time.Time
	End    *time.Time
	Limit  int
}
