package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/pulsefilter/internal/domain/models"
	"github.com/guttosm/pulsefilter/internal/storage"
)

// Column layout of the B3 "Negócios à Vista" file. Header order is strict.
const (
	colReferenceDate = iota
	colInstrument
	colUpdateAction
	colPrice
	colQuantity
	colClosingTime
	colTradeID
	colSession
	colTradeDate
	colBuyer
	colSeller
	numColumns
)

var expectedHeaders = [numColumns]string{
	"DataReferencia",
	"CodigoInstrumento",
	"AcaoAtualizacao",
	"PrecoNegocio",
	"QuantidadeNegociada",
	"HoraFechamento",
	"CodigoIdentificadorNegocio",
	"TipoSessaoPregao",
	"DataNegocio",
	"CodigoParticipanteComprador",
	"CodigoParticipanteVendedor",
}

// parseAndPersistFile streams one file into the repository in batches of
// size batch and returns the number of rows written. A bad header, a row with
// the wrong column count or a malformed value fails the whole file; empty
// cells are accepted and become zero values.
func parseAndPersistFile(ctx context.Context, path string, repo storage.TradesRepository, batch int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	if err := checkHeader(r); err != nil {
		return 0, err
	}

	buf := make([]models.Trade, 0, batch)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertTradesBatch(ctx, buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	total := 0
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read line %d: %w", line, err)
		}
		if len(rec) != numColumns {
			return 0, fmt.Errorf("invalid column count on line %d: expected %d got %d", line, numColumns, len(rec))
		}

		tr, err := recordToTrade(rec)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		buf = append(buf, tr)
		total++

		if len(buf) >= batch {
			if err := flush(); err != nil {
				return 0, fmt.Errorf("flush batch ending line %d: %w", line, err)
			}
		}
	}

	if err := flush(); err != nil {
		return 0, fmt.Errorf("final flush: %w", err)
	}
	return total, nil
}

func checkHeader(r *csv.Reader) error {
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if len(header) != numColumns {
		return fmt.Errorf("invalid header length: expected %d, got %d", numColumns, len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expectedHeaders[i] {
			return fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}
	return nil
}

// recordToTrade converts one validated record. Prices use a decimal comma and
// HoraFechamento arrives as HHMMSSmmm, of which only HHMMSS is kept.
func recordToTrade(rec []string) (models.Trade, error) {
	cell := func(i int) string { return strings.TrimSpace(rec[i]) }

	t := models.Trade{
		InstrumentCode:        cell(colInstrument),
		UpdateAction:          cell(colUpdateAction),
		TradeIdentifierCode:   cell(colTradeID),
		SessionType:           cell(colSession),
		BuyerParticipantCode:  cell(colBuyer),
		SellerParticipantCode: cell(colSeller),
	}

	var err error
	if t.ReferenceDate, err = parseDate(cell(colReferenceDate)); err != nil {
		return t, fmt.Errorf("invalid ReferenceDate: %w", err)
	}
	if t.TradeDate, err = parseDate(cell(colTradeDate)); err != nil {
		return t, fmt.Errorf("invalid TradeDate: %w", err)
	}
	if s := cell(colPrice); s != "" {
		if t.TradePrice, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err != nil {
			return t, fmt.Errorf("invalid TradePrice: %w", err)
		}
	}
	if s := cell(colQuantity); s != "" {
		if t.TradeQuantity, err = strconv.ParseInt(s, 10, 64); err != nil {
			return t, fmt.Errorf("invalid TradeQuantity: %w", err)
		}
	}
	if t.ClosingTime, err = parseClosingTime(cell(colClosingTime)); err != nil {
		return t, err
	}
	return t, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

func parseClosingTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if len(s) < 6 {
		return time.Time{}, fmt.Errorf("invalid ClosingTime length (need at least HHMMSS): %q", s)
	}
	h, err := time.Parse("150405", s[:6])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ClosingTime: %w", err)
	}
	return time.Date(0, 1, 1, h.Hour(), h.Minute(), h.Second(), 0, time.UTC), nil
}
