package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type RateLimitConfig struct {
	Rate      float64
	Burst     int
	ExpiresIn time.Duration
}

// RateLimit throttles predict actions per session. The session is taken from
// the :id path parameter, then from the session cookie middleware, then the
// client address.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.ExpiresIn <= 0 {
		cfg.ExpiresIn = 3 * time.Minute
	}

	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.Rate),
		Burst:     cfg.Burst,
		ExpiresIn: cfg.ExpiresIn,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id := c.Param("id"); id != "" {
				return id, nil
			}
			if id := SessionID(c); id != "" {
				return id, nil
			}
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many prediction requests, slow down")
		},
	})
}
