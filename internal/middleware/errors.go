package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pulsefilter/internal/domain/dto"
)

// AbortWithError stops the chain and writes a dto.ErrorResponse with status.
// err is also attached to c.Errors so RequestLogger can report it.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}

// ErrorHandler answers with a 500 dto.ErrorResponse when a handler recorded
// errors through c.Error without writing a response itself.
// A recorded dto.ErrorResponse is sent as is.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	last := c.Errors.Last().Err
	var resp dto.ErrorResponse
	if !errors.As(last, &resp) {
		resp = dto.NewErrorResponse("Internal server error", last)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}
