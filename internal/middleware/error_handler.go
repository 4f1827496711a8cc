package middleware

import (
	"errors"
	"net/http"
	"nextGamePoints/domain"
	"nextGamePoints/internal/views"
	"nextGamePoints/pkg/logger"
	"strings"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Message string `json:"message"`
}

// ErrorHandler renders JSON for the API and the metrics/health endpoints and
// an HTML page everywhere else.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err, "path", c.Request().URL.Path)
	}

	var werr error
	switch {
	case c.Request().Method == http.MethodHead:
		werr = c.NoContent(code)
	case wantsJSON(c):
		werr = c.JSON(code, errorResponse{Message: message})
	case c.Echo().Renderer != nil:
		werr = c.Render(code, "error", views.ErrorPage{Layout: domain.DefaultLayout(), Status: code, Message: message})
	default:
		werr = c.String(code, message)
	}
	if werr != nil {
		logger.Error("Failed to write error response", werr)
	}
}

func wantsJSON(c echo.Context) bool {
	path := c.Request().URL.Path
	if strings.HasPrefix(path, "/api/") || path == "/health" || path == "/metrics" {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
