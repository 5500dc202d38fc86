// internal/server/errors.go
package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse: тело любого ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONErrorHandler renders every error as ErrorResponse, without internals.
func JSONErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, ErrorResponse{Error: http.StatusText(he.Code)})
			return
		}

		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred."})
	}
}
