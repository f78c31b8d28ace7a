package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pulsefilter/internal/filter"
	"github.com/guttosm/pulsefilter/internal/logger"
	"github.com/guttosm/pulsefilter/internal/metrics"
	"github.com/guttosm/pulsefilter/internal/middleware"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// parseFilter validates fields, output_format and aggregate. On failure it
// writes a 400 and returns false; callers must stop.
func (h *Handler) parseFilter(c *gin.Context) (filter.Config, bool) {
	cfg, err := h.engine.Parse(c.Query("fields"), c.Query("output_format"), c.Query("aggregate"))
	if err != nil {
		h.filterFailed(c, "unknown", err)
		return filter.Config{}, false
	}
	return cfg, true
}

// respond runs payload through the engine and writes the result with the
// content type of the requested format.
func (h *Handler) respond(c *gin.Context, payload any, cfg filter.Config) {
	out, err := h.engine.Apply(payload, cfg)
	if err != nil {
		h.filterFailed(c, string(cfg.Format()), err)
		return
	}
	h.write(c, out, cfg)
}

func (h *Handler) write(c *gin.Context, out string, cfg filter.Config) {
	metrics.FilterOutcomes.WithLabelValues(string(cfg.Format()), "ok").Inc()
	mode := metrics.ModeFiltered
	if cfg.IsPassthrough() {
		mode = metrics.ModePassthrough
	}
	metrics.FilterModes.WithLabelValues(mode).Inc()
	c.Data(http.StatusOK, contentType(cfg.Format()), []byte(out))
}

// filterFailed maps engine errors: caller mistakes are 400, anything else 500.
func (h *Handler) filterFailed(c *gin.Context, format string, err error) {
	kind := filter.ErrorKind(err)
	metrics.FilterOutcomes.WithLabelValues(format, kind).Inc()

	if filter.IsRequestError(err) {
		logger.L().Debug().Str("kind", kind).Err(err).Msg("rejected filter request")
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid filter parameters", err)
		return
	}
	logger.L().Error().Str("kind", kind).Err(err).Msg("filter failed")
	middleware.AbortWithError(c, http.StatusInternalServerError, "failed to render response", err)
}

func contentType(f filter.Format) string {
	if f == filter.FormatCSV {
		return contentTypeCSV
	}
	return contentTypeJSON
}
