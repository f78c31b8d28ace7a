package dto

import (
	"time"

	"github.com/guttosm/pulsefilter/internal/domain/models"
	"github.com/guttosm/pulsefilter/internal/filter"
)

// Participants identifies the brokers on each side of a trade.
type Participants struct {
	Buyer  string `json:"buyer" example:"1099"`
	Seller string `json:"seller" example:"3"`
}

// TradeResponse is one trade as served by /api/v1/trades and /api/v1/last-trade.
//
// Participants stays nested; flattened output names the columns
// participants_buyer and participants_seller.
type TradeResponse struct {
	Ticker       string       `json:"ticker" example:"PETR4"`
	Price        float64      `json:"price" example:"38.42"`
	Size         int64        `json:"size" example:"100"`
	Timestamp    string       `json:"timestamp" example:"2025-09-12T10:15:30Z"`
	TradeID      string       `json:"trade_id" example:"10"`
	Session      string       `json:"session" example:"1"`
	Action       string       `json:"action" example:"0"`
	Participants Participants `json:"participants"`
}

// TradesEnvelope is the unfiltered body of GET /api/v1/trades.
type TradesEnvelope struct {
	Ticker  string          `json:"ticker" example:"PETR4"`
	Count   int             `json:"count" example:"2"`
	Results []TradeResponse `json:"results"`
}

// LastTradeEnvelope is the unfiltered body of GET /api/v1/last-trade.
type LastTradeEnvelope struct {
	Ticker  string        `json:"ticker" example:"PETR4"`
	Results TradeResponse `json:"results"`
}

// NewTradeResponse maps a stored trade to its response DTO.
func NewTradeResponse(t models.Trade) TradeResponse {
	return TradeResponse{
		Ticker:    t.InstrumentCode,
		Price:     t.TradePrice,
		Size:      t.TradeQuantity,
		Timestamp: formatTimestamp(t.Timestamp()),
		TradeID:   t.TradeIdentifierCode,
		Session:   t.SessionType,
		Action:    t.UpdateAction,
		Participants: Participants{
			Buyer:  t.BuyerParticipantCode,
			Seller: t.SellerParticipantCode,
		},
	}
}

// NewTradesEnvelope wraps trades into the list envelope.
func NewTradesEnvelope(ticker string, trades []models.Trade) TradesEnvelope {
	out := TradesEnvelope{Ticker: ticker, Count: len(trades), Results: make([]TradeResponse, 0, len(trades))}
	for _, t := range trades {
		out.Results = append(out.Results, NewTradeResponse(t))
	}
	return out
}

// Payload returns the trade as an ordered filter payload.
func (r TradeResponse) Payload() *filter.Object {
	return filter.NewObject().
		Set("ticker", r.Ticker).
		Set("price", r.Price).
		Set("size", r.Size).
		Set("timestamp", r.Timestamp).
		Set("trade_id", r.TradeID).
		Set("session", r.Session).
		Set("action", r.Action).
		Set("participants", filter.NewObject().
			Set("buyer", r.Participants.Buyer).
			Set("seller", r.Participants.Seller))
}

// Payload returns the envelope with each trade under "results".
func (e TradesEnvelope) Payload() *filter.Object {
	results := make([]any, 0, len(e.Results))
	for _, r := range e.Results {
		results = append(results, r.Payload())
	}
	return filter.NewObject().
		Set("ticker", e.Ticker).
		Set("count", e.Count).
		Set("results", results)
}

// Payload returns the envelope with the trade object under "results".
func (e LastTradeEnvelope) Payload() *filter.Object {
	return filter.NewObject().
		Set("ticker", e.Ticker).
		Set("results", e.Results.Payload())
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
