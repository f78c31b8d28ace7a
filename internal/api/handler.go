package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pulsefilter/internal/domain/dto"
	"github.com/guttosm/pulsefilter/internal/domain/models"
	"github.com/guttosm/pulsefilter/internal/filter"
	"github.com/guttosm/pulsefilter/internal/logger"
	"github.com/guttosm/pulsefilter/internal/middleware"
	"github.com/guttosm/pulsefilter/internal/service"
)

// DefaultMaxBodyBytes bounds POST /api/v1/filter bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 4 << 20

// Handler serves the market-data endpoints. Every data response goes through
// the output filter engine so callers pick fields, output_format and
// aggregate per request.
type Handler struct {
	svc     service.MarketService
	engine  *filter.Engine
	maxBody int64
}

// NewHandler constructs a Handler.
//
// Parameters:
//   - svc (service.MarketService): query service backing the data endpoints.
//   - engine (*filter.Engine): output filter; nil uses the built-in presets.
//   - maxBody (int64): byte limit for POST /api/v1/filter; <= 0 uses DefaultMaxBodyBytes.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.MarketService, engine *filter.Engine, maxBody int64) *Handler {
	if engine == nil {
		engine = filter.NewEngine(nil)
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{svc: svc, engine: engine, maxBody: maxBody}
}

// GetAggregate godoc
// @Summary      Get aggregate by ticker
// @Description  Max price and max daily volume for a ticker since an optional start date (default: the 7 days ending yesterday)
// @Tags         market
// @Produce      plain
// @Produce      json
// @Param        ticker         query     string  true   "Stock ticker" example(PETR4)
// @Param        data_inicio    query     string  false  "Start date in YYYY-MM-DD" example(2025-09-01)
// @Param        fields         query     string  false  "Comma-separated fields or preset:<name>" example(ticker,max_range_value)
// @Param        output_format  query     string  false  "csv (default), json or compact"
// @Param        aggregate      query     string  false  "first or last"
// @Success      200            {object}  dto.AggregateResponse  "Unfiltered shape"
// @Failure      400            {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404            {object}  dto.ErrorResponse      "Not Found"
// @Failure      500            {object}  dto.ErrorResponse      "Internal Error"
// @Router       /api/v1/aggregate [get]
func (h *Handler) GetAggregate(c *gin.Context) {
	// ─── Validate query params ────────────────────────────────
	cfg, ok := h.parseFilter(c)
	if !ok {
		return
	}
	ticker, err := tickerParam(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	start, err := dateParam(c, "data_inicio")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	var end *time.Time
	if start == nil {
		s, e := defaultWindow(nowFn())
		start, end = &s, &e
	}

	// ─── Query service ────────────────────────────────────────
	agg, err := h.svc.GetAggregate(c.Request.Context(), ticker, start, end)
	if err != nil {
		h.serviceFailed(c, "failed to fetch aggregates", err)
		return
	}
	if agg == nil {
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", nil)
		return
	}

	h.respond(c, dto.NewAggregateResponse(*agg).Payload(), cfg)
}

// ListTrades godoc
// @Summary      List trades
// @Description  Trades of a ticker in chronological order. Participants flatten to participants_buyer and participants_seller.
// @Tags         market
// @Produce      plain
// @Produce      json
// @Param        ticker         query     string  true   "Stock ticker" example(PETR4)
// @Param        data_inicio    query     string  false  "Start date in YYYY-MM-DD"
// @Param        data_fim       query     string  false  "End date in YYYY-MM-DD"
// @Param        limit          query     int     false  "Max rows, 1..10000 (default 1000)"
// @Param        fields         query     string  false  "Comma-separated fields or preset:<name>" example(preset:trade)
// @Param        output_format  query     string  false  "csv (default), json or compact"
// @Param        aggregate      query     string  false  "first or last"
// @Success      200            {object}  dto.TradesEnvelope  "Unfiltered shape"
// @Failure      400            {object}  dto.ErrorResponse   "Bad Request"
// @Failure      404            {object}  dto.ErrorResponse   "Not Found"
// @Failure      500            {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/trades [get]
func (h *Handler) ListTrades(c *gin.Context) {
	cfg, ok := h.parseFilter(c)
	if !ok {
		return
	}
	q, ok := tradeQuery(c, true)
	if !ok {
		return
	}

	trades, err := h.svc.ListTrades(c.Request.Context(), q)
	if err != nil {
		h.serviceFailed(c, "failed to fetch trades", err)
		return
	}
	if len(trades) == 0 {
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", nil)
		return
	}

	h.respond(c, dto.NewTradesEnvelope(q.Ticker, trades).Payload(), cfg)
}

// GetDaily godoc
// @Summary      Daily bars
// @Description  One OHLCV bar per trade date, oldest first
// @Tags         market
// @Produce      plain
// @Produce      json
// @Param        ticker         query     string  true   "Stock ticker" example(PETR4)
// @Param        data_inicio    query     string  false  "Start date in YYYY-MM-DD"
// @Param        data_fim       query     string  false  "End date in YYYY-MM-DD"
// @Param        fields         query     string  false  "Comma-separated fields or preset:<name>" example(preset:ohlcv)
// @Param        output_format  query     string  false  "csv (default), json or compact"
// @Param        aggregate      query     string  false  "first or last"
// @Success      200            {object}  dto.DailyEnvelope  "Unfiltered shape"
// @Failure      400            {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404            {object}  dto.ErrorResponse  "Not Found"
// @Failure      500            {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/daily [get]
func (h *Handler) GetDaily(c *gin.Context) {
	cfg, ok := h.parseFilter(c)
	if !ok {
		return
	}
	q, ok := tradeQuery(c, false)
	if !ok {
		return
	}

	bars, err := h.svc.GetDailyBars(c.Request.Context(), q)
	if err != nil {
		h.serviceFailed(c, "failed to fetch daily bars", err)
		return
	}
	if len(bars) == 0 {
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", nil)
		return
	}

	h.respond(c, dto.NewDailyEnvelope(q.Ticker, bars).Payload(), cfg)
}

// GetLastTrade godoc
// @Summary      Last trade
// @Description  Most recent trade of a ticker
// @Tags         market
// @Produce      plain
// @Produce      json
// @Param        ticker         query     string  true   "Stock ticker" example(PETR4)
// @Param        fields         query     string  false  "Comma-separated fields or preset:<name>" example(preset:last_price)
// @Param        output_format  query     string  false  "csv (default), json or compact"
// @Success      200            {object}  dto.LastTradeEnvelope  "Unfiltered shape"
// @Failure      400            {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404            {object}  dto.ErrorResponse      "Not Found"
// @Failure      500            {object}  dto.ErrorResponse      "Internal Error"
// @Router       /api/v1/last-trade [get]
func (h *Handler) GetLastTrade(c *gin.Context) {
	cfg, ok := h.parseFilter(c)
	if !ok {
		return
	}
	ticker, err := tickerParam(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	tr, err := h.svc.GetLastTrade(c.Request.Context(), ticker)
	if err != nil {
		h.serviceFailed(c, "failed to fetch last trade", err)
		return
	}
	if tr == nil {
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", nil)
		return
	}

	env := dto.LastTradeEnvelope{Ticker: ticker, Results: dto.NewTradeResponse(*tr)}
	h.respond(c, env.Payload(), cfg)
}

// FilterPayload godoc
// @Summary      Filter an arbitrary JSON payload
// @Description  Applies fields, output_format and aggregate to the request body, which may be an envelope with results, a list, an object or a scalar
// @Tags         filter
// @Accept       json
// @Produce      plain
// @Produce      json
// @Param        fields         query     string  false  "Comma-separated fields or preset:<name>"
// @Param        output_format  query     string  false  "csv (default), json or compact"
// @Param        aggregate      query     string  false  "first or last"
// @Param        payload        body      object  true   "JSON payload"
// @Success      200            {string}  string             "Filtered output"
// @Failure      400            {object}  dto.ErrorResponse  "Bad Request"
// @Failure      413            {object}  dto.ErrorResponse  "Payload Too Large"
// @Router       /api/v1/filter [post]
func (h *Handler) FilterPayload(c *gin.Context) {
	cfg, ok := h.parseFilter(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.AbortWithError(c, http.StatusRequestEntityTooLarge, "payload too large", err)
			return
		}
		middleware.AbortWithError(c, http.StatusBadRequest, "failed to read body", err)
		return
	}

	out, err := h.engine.ApplyJSON(body, cfg)
	if err != nil {
		h.filterFailed(c, string(cfg.Format()), err)
		return
	}
	h.write(c, out, cfg)
}

// ListPresets godoc
// @Summary      List field presets
// @Description  Every preset accepted as fields=preset:<name>
// @Tags         filter
// @Produce      json
// @Success      200  {object}  dto.PresetsResponse
// @Router       /api/v1/presets [get]
func (h *Handler) ListPresets(c *gin.Context) {
	reg := h.engine.Presets()
	c.JSON(http.StatusOK, dto.PresetsResponse{Presets: reg.Presets(), Names: reg.Names()})
}

// tradeQuery reads ticker, the date range and, when withLimit is set, limit.
func tradeQuery(c *gin.Context, withLimit bool) (models.TradeQuery, bool) {
	ticker, err := tickerParam(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return models.TradeQuery{}, false
	}
	start, end, err := dateRange(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
		return models.TradeQuery{}, false
	}
	q := models.TradeQuery{Ticker: ticker, Start: start, End: end}
	if withLimit {
		if q.Limit, err = limitParam(c); err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, err.Error(), nil)
			return models.TradeQuery{}, false
		}
	}
	return q, true
}

func (h *Handler) serviceFailed(c *gin.Context, msg string, err error) {
	if errors.Is(err, service.ErrInvalidRange) {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid date range", err)
		return
	}
	logger.L().Error().Err(err).Msg(msg)
	middleware.AbortWithError(c, http.StatusInternalServerError, msg, err)
}
