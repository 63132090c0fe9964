package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/tradeledger/internal/domain/dto"
	"github.com/guttosm/tradeledger/internal/query"
	"github.com/guttosm/tradeledger/internal/tradetime"
)

// ErrorHandler turns errors attached with c.Error into a JSON response once
// the handler chain has run, unless a response was already written.
//
// Mapping:
//   - *query.ValidationError, *tradetime.FormatError: 400.
//   - context.DeadlineExceeded: 504.
//   - anything else: 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	status, msg := classify(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(msg, err))
}

func classify(err error) (int, string) {
	var (
		ve *query.ValidationError
		fe *tradetime.FormatError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, "invalid search criteria"
	case errors.As(err, &fe):
		return http.StatusBadRequest, "invalid timestamp"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// AbortWithError stops the chain and writes a dto.ErrorResponse with the
// given status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
