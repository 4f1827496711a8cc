package middleware

import (
	"context"
	"net/http"
	"nextGamePoints/domain"
	"nextGamePoints/pkg/logger"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeySession holds the *domain.Session of the current browser.
	ContextKeySession = "session"
	// ContextKeySessionID holds its id.
	ContextKeySessionID = "session_id"
)

type SessionProvider interface {
	GetOrCreate(ctx context.Context, id string) (*domain.Session, bool, error)
}

type SessionCookieConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionCookie attaches the dashboard session of the browser to the request,
// creating one and setting the cookie when none is known.
func SessionCookie(provider SessionProvider, cfg SessionCookieConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if cookie, err := c.Cookie(cfg.CookieName); err == nil {
				id = cookie.Value
			}

			session, created, err := provider.GetOrCreate(c.Request().Context(), id)
			if err != nil {
				logger.Error("Failed to load session", err)
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
			}

			if created {
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    session.ID,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(ContextKeySession, session)
			c.Set(ContextKeySessionID, session.ID)

			return next(c)
		}
	}
}

// SessionID returns the id stored by SessionCookie.
func SessionID(c echo.Context) string {
	id, _ := c.Get(ContextKeySessionID).(string)
	return id
}
