package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/linkpredict"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondErr maps a domain error to its HTTP status and writes the envelope.
func respondErr(c *gin.Context, err error) {
	ae := classify(err)
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func classify(err error) *apierr.Error {
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae):
		return apierr.From(ae)
	case errors.Is(err, linkpredict.ErrInvalidArgument):
		return apierr.New(http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, linkpredict.ErrNoCapabilityAvailable):
		return apierr.New(http.StatusNotImplemented, "no_capability", err)
	case errors.Is(err, linkpredict.ErrNoLegacyProcedureAvailable):
		return apierr.New(http.StatusNotImplemented, "no_legacy_procedure", err)
	case errors.Is(err, gds.ErrEngineUnavailable):
		return apierr.New(http.StatusServiceUnavailable, "engine_unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusGatewayTimeout, "timeout", err)
	default:
		return apierr.New(http.StatusBadGateway, "engine_error", err)
	}
}
