package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pulsefilter/internal/domain/dto"
	"github.com/guttosm/pulsefilter/internal/logger"
	"github.com/guttosm/pulsefilter/internal/metrics"
)

// RecoveryMiddleware converts a panic in a later handler into a 500.
//
// The panic value and stack go to the log and to c.Errors; the client only
// sees a generic dto.ErrorResponse.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			metrics.RecoveredPanics.Inc()
			rid, _ := c.Get(RequestIDKey)
			logger.L().Error().
				Str("request_id", toString(rid)).
				Str("route", c.FullPath()).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			_ = c.Error(fmt.Errorf("panic: %v", r))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", nil))
		}()

		c.Next()
	}
}
