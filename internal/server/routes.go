// internal/server/routes.go
package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes configures routes, middleware and the error handler
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	e.HTTPErrorHandler = JSONErrorHandler()

	origin := cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{origin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.Use(SetNoCacheHeaders)

	e.GET("/", h.Welcome)

	var transferMiddleware []echo.MiddlewareFunc
	if cfg.RateLimit > 0 {
		transferMiddleware = append(transferMiddleware, middleware.RateLimiter(
			middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     int(cfg.RateLimit) + 1,
				ExpiresIn: 3 * time.Minute,
			}),
		))
	}
	e.POST("/transfer_sol", h.TransferSOL, transferMiddleware...)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	})
}
