package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/pulsefilter/internal/domain/models"
	"github.com/guttosm/pulsefilter/internal/storage"
)

const (
	// DefaultTradeLimit caps /trades responses when the caller sends no limit.
	DefaultTradeLimit = 1000
	// MaxTradeLimit is the largest limit a caller may request.
	MaxTradeLimit = 10000
)

// ErrInvalidRange is returned when the start date falls after the end date.
var ErrInvalidRange = errors.New("start date is after end date")

// MarketService answers the read queries behind the HTTP endpoints.
// Handlers depend on it instead of the repository so storage details stay out
// of the transport layer.
type MarketService interface {
	GetAggregate(ctx context.Context, ticker string, startDate *time.Time, endDate *time.Time) (*models.Aggregate, error)
	ListTrades(ctx context.Context, q models.TradeQuery) ([]models.Trade, error)
	GetDailyBars(ctx context.Context, q models.TradeQuery) ([]models.DailyBar, error)
	GetLastTrade(ctx context.Context, ticker string) (*models.Trade, error)
}

type marketService struct {
	repo storage.TradesRepository
}

func NewMarketService(repo storage.TradesRepository) MarketService {
	return &marketService{repo: repo}
}

func (s *marketService) GetAggregate(ctx context.Context, ticker string, startDate *time.Time, endDate *time.Time) (*models.Aggregate, error) {
	if err := checkRange(startDate, endDate); err != nil {
		return nil, err
	}
	return s.repo.GetAggregateByTicker(ctx, ticker, startDate, endDate)
}

// ListTrades clamps q.Limit to 1..MaxTradeLimit (0 means DefaultTradeLimit)
// before querying.
func (s *marketService) ListTrades(ctx context.Context, q models.TradeQuery) ([]models.Trade, error) {
	if err := checkRange(q.Start, q.End); err != nil {
		return nil, err
	}
	q.Limit = ClampLimit(q.Limit)
	trades, err := s.repo.ListTrades(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list trades for %s: %w", q.Ticker, err)
	}
	return trades, nil
}

func (s *marketService) GetDailyBars(ctx context.Context, q models.TradeQuery) ([]models.DailyBar, error) {
	if err := checkRange(q.Start, q.End); err != nil {
		return nil, err
	}
	bars, err := s.repo.GetDailyBars(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("daily bars for %s: %w", q.Ticker, err)
	}
	return bars, nil
}

func (s *marketService) GetLastTrade(ctx context.Context, ticker string) (*models.Trade, error) {
	tr, err := s.repo.GetLastTrade(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("last trade for %s: %w", ticker, err)
	}
	return tr, nil
}

// ClampLimit maps a requested row limit into 1..MaxTradeLimit; values below 1
// select DefaultTradeLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultTradeLimit
	case limit > MaxTradeLimit:
		return MaxTradeLimit
	default:
		return limit
	}
}

func checkRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return ErrInvalidRange
	}
	return nil
}
