package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aretw0/quizsync/pkg/core"
)

// statusFor maps workflow errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrRemoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, core.ErrRemote):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorHandler renders every error as {"error": ..., "request_id": ...}.
// Messages of 5xx responses other than upstream failures are not exposed.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var code int
	var message string

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		code = statusFor(err)
		message = err.Error()
	}

	requestID := GetRequestID(c)
	if code >= 500 && code != http.StatusBadGateway {
		s.config.Logger.Error("internal_server_error", "request_id", requestID, "status", code, "error", err)
		message = "Internal server error"
	} else {
		s.config.Logger.Warn("client_error", "request_id", requestID, "status", code, "error", err)
	}

	if err := c.JSON(code, map[string]string{
		"error":      message,
		"request_id": requestID,
	}); err != nil {
		s.config.Logger.Error("failed to write error response", "error", err)
	}
}
