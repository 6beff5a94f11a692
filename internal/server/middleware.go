package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDContextKey is the echo context key holding the request ID.
	RequestIDContextKey = "request_id"

	headerSecFetchSite = "Sec-Fetch-Site"
)

// RequestID returns a middleware that generates or extracts a request ID
// and adds it to the response headers and context.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			c.Set(RequestIDContextKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			return next(c)
		}
	}
}

// GetRequestID extracts the request ID from the context.
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}

// OriginGuard refuses browser requests coming from an origin other than the
// API's own host or one of allowed ("*" allows any). Requests without an
// Origin header, as sent by CLI clients, pass unless the browser marks
// them cross-site.
func OriginGuard(allowed []string) echo.MiddlewareFunc {
	allowAll := false
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[strings.TrimSuffix(o, "/")] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if allowAll {
				return next(c)
			}
			req := c.Request()
			origin := req.Header.Get(echo.HeaderOrigin)
			switch {
			case origin == "" && req.Header.Get(headerSecFetchSite) != "cross-site":
				return next(c)
			case origin != "" && (set[origin] || sameOrigin(origin, req.Host)):
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden, "origin not allowed")
		}
	}
}

func sameOrigin(origin, host string) bool {
	u, err := url.Parse(origin)
	return err == nil && u.Host != "" && strings.EqualFold(u.Host, host)
}

// requestLogger logs one debug line per request through the server logger.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			s.config.Logger.Debug("request",
				"request_id", GetRequestID(c),
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"duration", time.Since(start),
			)
			return nil
		}
	}
}
