package models

import "time"

// Trade represents a single row of a B3 "Negócios à Vista" file.
//
// Column order in the file:
//  1. ReferenceDate
//  2. InstrumentCode
//  3. UpdateAction
//  4. TradePrice
//  5. TradeQuantity
//  6. ClosingTime
//  7. TradeIdentifierCode
//  8. SessionType
//  9. TradeDate
//  10. BuyerParticipantCode
//  11. SellerParticipantCode
type Trade struct {
	ReferenceDate         time.Time
	InstrumentCode        string
	UpdateAction          string
	TradePrice            float64
	TradeQuantity         int64
	ClosingTime           time.Time
	TradeIdentifierCode   string
	SessionType           string
	TradeDate             time.Time
	BuyerParticipantCode  string
	SellerParticipantCode string
}

// Timestamp combines TradeDate with the clock part of ClosingTime, in UTC.
// It is the zero time when TradeDate is unknown.
func (t Trade) Timestamp() time.Time {
	if t.TradeDate.IsZero() {
		return time.Time{}
	}
	y, m, d := t.TradeDate.Date()
	return time.Date(y, m, d, t.ClosingTime.Hour(), t.ClosingTime.Minute(), t.ClosingTime.Second(), 0, time.UTC)
}
