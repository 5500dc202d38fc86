// internal/server/server.go
package server

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Addr       string  // bind address, e.g. ":3001"
	CORSOrigin string  // allowed origin for browser clients
	RateLimit  float64 // requests per second for /transfer_sol, 0 disables the limiter
}

// ServerDeps contains dependencies required to create a new Server
type ServerDeps struct {
	Handlers *Handlers
	Config   ServerConfig
	Logger   *zap.Logger
}

// Server wraps Echo HTTP server with additional lifecycle management
type Server struct {
	e   *echo.Echo
	cfg ServerConfig
}

// NewServer creates a new HTTP server with the given dependencies
func NewServer(deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(deps.Logger.Named("http")))

	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 120 * time.Second // покрывает ожидание подтверждения перевода
	e.Server.IdleTimeout = 60 * time.Second

	RegisterRoutes(e, deps.Handlers, deps.Config)

	return &Server{e: e, cfg: deps.Config}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() *echo.Echo {
	return s.e
}

// Start begins serving HTTP requests on the configured address
func (s *Server) Start() error {
	return s.e.Start(s.cfg.Addr)
}

// Shutdown gracefully shuts down the server with a 10-second timeout
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.e.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("Request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("Request", fields...)
			return nil
		},
	})
}

// SetNoCacheHeaders middleware prevents caching of API responses
func SetNoCacheHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return next(c)
	}
}
