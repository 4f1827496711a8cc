package rest

import (
	"context"
	"errors"
	"net/http"
	"nextGamePoints/domain"
	"nextGamePoints/internal/middleware"
	"nextGamePoints/internal/views"
	"nextGamePoints/pkg/logger"
	"time"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the server-rendered dashboard. Every action is a
// form post that redirects back to the page.
type DashboardHandler struct {
	dashboardService DashboardService
	layout           domain.Layout
	refreshSeconds   int
	timeout          time.Duration
}

func NewDashboardHandler(dashboardService DashboardService, layout domain.Layout, refreshSeconds int) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		layout:           layout,
		refreshSeconds:   refreshSeconds,
		timeout:          5 * time.Second,
	}
}

func (h *DashboardHandler) Index(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := h.dashboardService.GetSession(ctx, middleware.SessionID(c))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	page := views.NewPage(h.layout, session, h.dashboardService.Now(), h.refreshSeconds)
	return c.Render(http.StatusOK, "dashboard", page)
}

func (h *DashboardHandler) Search(c echo.Context) error {
	return h.act(c, func(ctx context.Context, id string) error {
		_, err := h.dashboardService.UpdateQuery(ctx, id, c.QueryParam("q"))
		return err
	})
}

func (h *DashboardHandler) Focus(c echo.Context) error {
	return h.act(c, func(ctx context.Context, id string) error {
		_, err := h.dashboardService.FocusSearch(ctx, id)
		return err
	})
}

func (h *DashboardHandler) Select(c echo.Context) error {
	playerID := c.FormValue("player_id")
	if playerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "player_id is required")
	}
	return h.act(c, func(ctx context.Context, id string) error {
		_, err := h.dashboardService.SelectPlayer(ctx, id, playerID)
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "player not found")
		}
		return err
	})
}

func (h *DashboardHandler) Clear(c echo.Context) error {
	return h.act(c, func(ctx context.Context, id string) error {
		_, err := h.dashboardService.ClearSelection(ctx, id)
		return err
	})
}

func (h *DashboardHandler) Predict(c echo.Context) error {
	return h.act(c, func(ctx context.Context, id string) error {
		_, err := h.dashboardService.Predict(ctx, id)
		return ignoreRejection(err)
	})
}

func (h *DashboardHandler) Retry(c echo.Context) error {
	return h.act(c, func(ctx context.Context, id string) error {
		_, err := h.dashboardService.Retry(ctx, id)
		return ignoreRejection(err)
	})
}

func (h *DashboardHandler) DismissToast(c echo.Context) error {
	toastID := c.Param("id")
	return h.act(c, func(ctx context.Context, id string) error {
		_, err := h.dashboardService.DismissToast(ctx, id, toastID)
		return err
	})
}

func (h *DashboardHandler) act(c echo.Context, fn func(ctx context.Context, id string) error) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := fn(ctx, middleware.SessionID(c)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// ignoreRejection swallows the predict rejections the page already reflects:
// a toast for a missing selection, a disabled button while loading.
func ignoreRejection(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNoPlayerSelected),
		errors.Is(err, domain.ErrPredictionInFlight),
		errors.Is(err, domain.ErrRetryUnavailable):
		logger.Debug("Predict action rejected", "reason", err)
		return nil
	}
	return err
}
