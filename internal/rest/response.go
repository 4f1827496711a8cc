package rest

import (
	"context"
	"errors"
	"net/http"
	"nextGamePoints/domain"

	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPredictionInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoPlayerSelected), errors.Is(err, domain.ErrRetryUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func respondError(c echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = http.StatusText(code)
	}
	return c.JSON(code, ResponseError{Message: message})
}
