package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GalacticDynamics/vector/internal/api/middleware"
	"github.com/GalacticDynamics/vector/internal/logging"
	"github.com/GalacticDynamics/vector/internal/vecerr"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Category  string `json:"category"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusOf maps an engine error to an HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, vecerr.ErrLossyConversion):
		return http.StatusConflict
	case errors.Is(err, vecerr.ErrUnsupportedConversion):
		return http.StatusBadRequest
	case errors.Is(err, vecerr.ErrDomain),
		errors.Is(err, vecerr.ErrUnit),
		errors.Is(err, vecerr.ErrShape),
		errors.Is(err, vecerr.ErrMissingComponent),
		errors.Is(err, vecerr.ErrInvalidComponent):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func (h *Handlers) fail(c *gin.Context, err error) {
	category := vecerr.Category(err)
	if h.metrics != nil {
		h.metrics.RecordError(category)
	}
	status := StatusOf(err)
	h.log.Debug("conversion failed",
		logging.RequestID(middleware.GetRequestID(c)),
		zap.String("category", category),
		zap.Error(err))
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     err.Error(),
		Category:  category,
		RequestID: middleware.GetRequestID(c),
	})
}
