// Package server exposes the quizsync workflow as a local JSON API for a
// browser form.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/aretw0/quizsync/pkg/workflow"
)

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"
	// Quiz images travel base64-encoded inside JSON bodies.
	requestBodyLimit = "25M"
	shutdownTimeout  = 5 * time.Second
)

// Config holds what the handlers need besides the service.
type Config struct {
	// AssetDir is the remote directory quiz images are uploaded to.
	AssetDir string
	// AllowOrigins lists the browser origins allowed to call the API.
	// Empty allows same-origin requests only.
	AllowOrigins []string
	Logger       *slog.Logger
	// Now is the clock used for asset filenames.
	Now func() time.Time
}

// Server serves the API for one workflow.Service.
type Server struct {
	echo   *echo.Echo
	svc    *workflow.Service
	config Config
}

// New builds the echo instance and registers all routes.
func New(svc *workflow.Service, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, svc: svc, config: cfg}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(RequestID())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))
	e.Use(OriginGuard(cfg.AllowOrigins))
	if len(cfg.AllowOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		}))
	}
	e.Use(s.requestLogger())

	e.GET("/health", healthCheck)

	api := e.Group("/api")
	api.POST("/credential", s.setCredential)
	api.GET("/files", s.getFile)
	api.PUT("/files", s.putFile)
	api.POST("/replace", s.replace)
	api.POST("/uploads", s.upload)
	api.POST("/quiz", s.assemble)
	api.GET("/logs", s.logs)
	api.GET("/state", s.state)

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("api listening", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{jsonKeyStatus: statusOK})
}
