package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/pulsefilter/internal/domain/models"
	pq "github.com/lib/pq"
)

// TradesRepository defines contract for DB operations.
type TradesRepository interface {
	InsertTradesBatch(ctx context.Context, trades []models.Trade) error
	HasIngestionForDate(ctx context.Context, date time.Time) (bool, error)
	UpsertIngestionLog(ctx context.Context, date time.Time, filename string, rowCount int) error
	DeleteTradesByDate(ctx context.Context, date time.Time) error

	GetAggregateByTicker(ctx context.Context, ticker string, startDate *time.Time, endDate *time.Time) (*models.Aggregate, error)
	ListTrades(ctx context.Context, q models.TradeQuery) ([]models.Trade, error)
	GetDailyBars(ctx context.Context, q models.TradeQuery) ([]models.DailyBar, error)
	GetLastTrade(ctx context.Context, ticker string) (*models.Trade, error)
}

type tradesRepository struct {
	db *sql.DB
}

func NewTradesRepository(db *sql.DB) TradesRepository {
	return &tradesRepository{db: db}
}

const tradeColumns = `reference_date, instrument_code, update_action, trade_price, trade_quantity,
	closing_time, trade_identifier_code, session_type, trade_date,
	buyer_participant_code, seller_participant_code`

// InsertTradesBatch inserts multiple trades into DB in a single transaction
// using COPY.
func (r *tradesRepository) InsertTradesBatch(ctx context.Context, trades []models.Trade) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"trades",
		"reference_date",
		"instrument_code",
		"update_action",
		"trade_price",
		"trade_quantity",
		"closing_time",
		"trade_identifier_code",
		"session_type",
		"trade_date",
		"buyer_participant_code",
		"seller_participant_code",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, rec := range trades {
		if _, err := stmt.ExecContext(ctx,
			nullTime(rec.ReferenceDate),
			rec.InstrumentCode,
			rec.UpdateAction,
			rec.TradePrice,
			rec.TradeQuantity,
			nullClock(rec.ClosingTime),
			rec.TradeIdentifierCode,
			rec.SessionType,
			nullTime(rec.TradeDate),
			rec.BuyerParticipantCode,
			rec.SellerParticipantCode,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// nullTime maps a zero date to NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// nullClock maps a zero clock to NULL and sends the rest as "HH:MM:SS" for
// the TIME column.
func nullClock(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format("15:04:05")
}

// HasIngestionForDate checks if an ingestion was already recorded for a given business day.
func (r *tradesRepository) HasIngestionForDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE file_date = $1)`, date).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertIngestionLog records (or updates) an ingestion entry for a given day.
func (r *tradesRepository) UpsertIngestionLog(ctx context.Context, date time.Time, filename string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_log (file_date, filename, row_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (file_date)
		DO UPDATE SET filename = EXCLUDED.filename, row_count = EXCLUDED.row_count, ingested_at = NOW()
	`, date, filename, rowCount)
	return err
}

// DeleteTradesByDate removes all trades for a given trade_date.
func (r *tradesRepository) DeleteTradesByDate(ctx context.Context, date time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_date = $1`, date)
	return err
}

// tickerFilter builds "instrument_code = $1 [AND trade_date >= $n] [AND trade_date <= $n]"
// and the matching positional arguments.
func tickerFilter(ticker string, start, end *time.Time) (string, []any) {
	var b strings.Builder
	args := []any{ticker}
	b.WriteString("instrument_code = $1")
	if start != nil {
		args = append(args, *start)
		fmt.Fprintf(&b, " AND trade_date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		fmt.Fprintf(&b, " AND trade_date <= $%d", len(args))
	}
	return b.String(), args
}

// GetAggregateByTicker returns max price and max daily volume for a ticker.
// A nil aggregate with a nil error means the range holds no trades.
func (r *tradesRepository) GetAggregateByTicker(ctx context.Context, ticker string, startDate *time.Time, endDate *time.Time) (*models.Aggregate, error) {
	conditions, args := tickerFilter(ticker, startDate, endDate)

	query := fmt.Sprintf(`
		WITH daily AS (
			SELECT trade_date, SUM(trade_quantity) AS daily_volume
			FROM trades
			WHERE %s
			GROUP BY trade_date
		)
		SELECT
			(SELECT MAX(trade_price) FROM trades WHERE %s) AS max_price,
			(SELECT MAX(daily_volume) FROM daily) AS max_volume
	`, conditions, conditions)

	var maxPrice sql.NullFloat64
	var maxVolume sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&maxPrice, &maxVolume); err != nil {
		return nil, err
	}

	if !maxPrice.Valid && !maxVolume.Valid {
		return nil, nil
	}

	return &models.Aggregate{
		Ticker:         ticker,
		MaxRangeValue:  maxPrice.Float64,
		MaxDailyVolume: maxVolume.Int64,
	}, nil
}

// ListTrades returns the trades of a ticker in chronological order, capped at q.Limit
// when it is positive.
func (r *tradesRepository) ListTrades(ctx context.Context, q models.TradeQuery) ([]models.Trade, error) {
	conditions, args := tickerFilter(q.Ticker, q.Start, q.End)
	query := fmt.Sprintf(`SELECT %s FROM trades WHERE %s
		ORDER BY trade_date, closing_time, trade_identifier_code`, tradeColumns, conditions)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetLastTrade returns the most recent trade of a ticker, or nil when there is none.
func (r *tradesRepository) GetLastTrade(ctx context.Context, ticker string) (*models.Trade, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM trades WHERE instrument_code = $1
		ORDER BY trade_date DESC NULLS LAST, closing_time DESC NULLS LAST, trade_identifier_code DESC
		LIMIT 1`, tradeColumns), ticker)

	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetDailyBars returns one OHLCV bar per trade date, oldest first.
func (r *tradesRepository) GetDailyBars(ctx context.Context, q models.TradeQuery) ([]models.DailyBar, error) {
	conditions, args := tickerFilter(q.Ticker, q.Start, q.End)
	query := fmt.Sprintf(`
		SELECT
			trade_date,
			(array_agg(trade_price ORDER BY closing_time, trade_identifier_code))[1] AS open_price,
			MAX(trade_price) AS high_price,
			MIN(trade_price) AS low_price,
			(array_agg(trade_price ORDER BY closing_time DESC NULLS LAST, trade_identifier_code DESC))[1] AS close_price,
			SUM(trade_quantity) AS volume,
			COUNT(*) AS trades
		FROM trades
		WHERE %s AND trade_date IS NOT NULL
		GROUP BY trade_date
		ORDER BY trade_date`, conditions)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.DailyBar
	for rows.Next() {
		bar := models.DailyBar{Ticker: q.Ticker}
		if err := rows.Scan(&bar.TradeDate, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume, &bar.Trades); err != nil {
			return nil, err
		}
		out = append(out, bar)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (models.Trade, error) {
	var (
		t                     models.Trade
		refDate, tradeDate    sql.NullTime
		closing               sql.NullString
		action, tradeID, sess sql.NullString
		buyer, seller         sql.NullString
	)
	if err := row.Scan(
		&refDate,
		&t.InstrumentCode,
		&action,
		&t.TradePrice,
		&t.TradeQuantity,
		&closing,
		&tradeID,
		&sess,
		&tradeDate,
		&buyer,
		&seller,
	); err != nil {
		return t, err
	}

	t.ReferenceDate = refDate.Time
	t.TradeDate = tradeDate.Time
	t.UpdateAction = action.String
	t.TradeIdentifierCode = tradeID.String
	t.SessionType = sess.String
	t.BuyerParticipantCode = buyer.String
	t.SellerParticipantCode = seller.String

	if closing.Valid {
		clock, err := parseClock(closing.String)
		if err != nil {
			return t, err
		}
		t.ClosingTime = clock
	}
	return t, nil
}

// parseClock reads a TIME column. lib/pq returns it as text like "10:15:30"
// or "0000-01-01T10:15:30Z" depending on the server settings.
func parseClock(s string) (time.Time, error) {
	for _, layout := range []string{"15:04:05", "15:04:05.999999", time.RFC3339Nano} {
		if v, err := time.Parse(layout, s); err == nil {
			return time.Date(0, 1, 1, v.Hour(), v.Minute(), v.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid closing_time %q", s)
}
