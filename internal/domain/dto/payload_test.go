package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/guttosm/pulsefilter/internal/domain/models"
	"github.com/guttosm/pulsefilter/internal/filter"
)

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func sampleTrade() models.Trade {
	return models.Trade{
		InstrumentCode:        "PETR4",
		UpdateAction:          "0",
		TradePrice:            38.42,
		TradeQuantity:         100,
		ClosingTime:           time.Date(0, 1, 1, 10, 15, 30, 0, time.UTC),
		TradeIdentifierCode:   "10",
		SessionType:           "1",
		TradeDate:             time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC),
		BuyerParticipantCode:  "1099",
		SellerParticipantCode: "3",
	}
}

func TestPayloads_KeepFieldOrder(t *testing.T) {
	cases := []struct {
		name string
		got  *filter.Object
		want string
	}{
		{
			name: "aggregate",
			got:  NewAggregateResponse(models.Aggregate{Ticker: "PETR4", MaxRangeValue: 20.5, MaxDailyVolume: 150000}).Payload(),
			want: `{"ticker":"PETR4","max_range_value":20.5,"max_daily_volume":150000}`,
		},
		{
			name: "last trade",
			got:  LastTradeEnvelope{Ticker: "PETR4", Results: NewTradeResponse(sampleTrade())}.Payload(),
			want: `{"ticker":"PETR4","results":{"ticker":"PETR4","price":38.42,"size":100,"timestamp":"2025-09-12T10:15:30Z","trade_id":"10","session":"1","action":"0","participants":{"buyer":"1099","seller":"3"}}}`,
		},
		{
			name: "empty trades",
			got:  NewTradesEnvelope("VALE3", nil).Payload(),
			want: `{"ticker":"VALE3","count":0,"results":[]}`,
		},
		{
			name: "daily",
			got: NewDailyEnvelope("PETR4", []models.DailyBar{{
				Ticker: "PETR4", TradeDate: time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC),
				Open: 38.1, High: 38.75, Low: 37.9, Close: 38.42, Volume: 1520300, Trades: 8123,
			}}).Payload(),
			want: `{"ticker":"PETR4","results":[{"ticker":"PETR4","timestamp":"2025-09-12","open":38.1,"high":38.75,"low":37.9,"close":38.42,"volume":1520300,"trades":8123}]}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := marshal(t, tc.got); got != tc.want {
				t.Fatalf("want %s got %s", tc.want, got)
			}
		})
	}
}

func TestTradesEnvelope_FlattensParticipants(t *testing.T) {
	env := NewTradesEnvelope("PETR4", []models.Trade{sampleTrade(), sampleTrade()})
	if env.Count != 2 || len(env.Results) != 2 {
		t.Fatalf("unexpected envelope %+v", env)
	}

	cfg, err := filter.Parse("price,participants_buyer", "csv", "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := filter.Apply(env.Payload(), cfg)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if want := "price,participants_buyer\n38.42,1099\n38.42,1099\n"; out != want {
		t.Fatalf("want %q got %q", want, out)
	}
}

func TestNewTradeResponse_NoDate(t *testing.T) {
	tr := sampleTrade()
	tr.TradeDate = time.Time{}
	if got := NewTradeResponse(tr).Timestamp; got != "" {
		t.Fatalf("expected empty timestamp, got %q", got)
	}
}
