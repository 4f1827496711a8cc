package rest

import (
	"context"
	"net/http"
	"nextGamePoints/domain"
	"nextGamePoints/pkg/logger"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type DashboardService interface {
	NewSession(ctx context.Context) (*domain.Session, error)
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	UpdateQuery(ctx context.Context, id, query string) (*domain.Session, error)
	FocusSearch(ctx context.Context, id string) (*domain.Session, error)
	SelectPlayer(ctx context.Context, id, playerID string) (*domain.Session, error)
	ClearSelection(ctx context.Context, id string) (*domain.Session, error)
	Predict(ctx context.Context, id string) (*domain.Session, error)
	Retry(ctx context.Context, id string) (*domain.Session, error)
	DismissToast(ctx context.Context, id, toastID string) (*domain.Session, error)
	Now() time.Time
}

type SessionHandler struct {
	dashboardService DashboardService
	validator        *validator.Validate
	timeout          time.Duration
}

func NewSessionHandler(dashboardService DashboardService) *SessionHandler {
	return &SessionHandler{
		dashboardService: dashboardService,
		validator:        validator.New(),
		timeout:          5 * time.Second,
	}
}

type UpdateQueryRequest struct {
	Query string `json:"query" validate:"max=100"`
}

type SelectPlayerRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type sessionResponse struct {
	*domain.Session
	CanPredict bool `json:"can_predict"`
}

func (h *SessionHandler) respond(c echo.Context, code int, message string, session *domain.Session) error {
	return c.JSON(code, map[string]interface{}{
		"message": message,
		"session": sessionResponse{
			Session:    session,
			CanPredict: session.CanPredict(),
		},
	})
}

func (h *SessionHandler) CreateSession(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := h.dashboardService.NewSession(ctx)
	if err != nil {
		logger.Error("Failed to create session", err)
		return respondError(c, err)
	}

	return h.respond(c, http.StatusCreated, "session successfully created", session)
}

func (h *SessionHandler) GetSession(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := h.dashboardService.GetSession(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return h.respond(c, http.StatusOK, "successfully get session", session)
}

func (h *SessionHandler) UpdateQuery(c echo.Context) error {
	var req UpdateQueryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := h.dashboardService.UpdateQuery(ctx, c.Param("id"), req.Query)
	if err != nil {
		return respondError(c, err)
	}

	return h.respond(c, http.StatusOK, "query updated", session)
}

func (h *SessionHandler) FocusSearch(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := h.dashboardService.FocusSearch(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return h.respond(c, http.StatusOK, "search focused", session)
}

func (h *SessionHandler) SelectPlayer(c echo.Context) error {
	var req SelectPlayerRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := h.dashboardService.SelectPlayer(ctx, c.Param("id"), req.PlayerID)
	if err != nil {
		return respondError(c, err)
	}

	return h.respond(c, http.StatusOK, "player selected", session)
}

func (h *SessionHandler) ClearSelection(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := h.dashboardService.ClearSelection(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return h.respond(c, http.StatusOK, "selection cleared", session)
}

func (h *SessionHandler) Predict(c echo.Context) error {
	return h.start(c, h.dashboardService.Predict, "prediction started")
}

func (h *SessionHandler) Retry(c echo.Context) error {
	return h.start(c, h.dashboardService.Retry, "prediction restarted")
}

func (h *SessionHandler) start(c echo.Context, fn func(ctx context.Context, id string) (*domain.Session, error), message string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := fn(ctx, c.Param("id"))
	if err != nil {
		logger.Warn("Prediction rejected", "session_id", c.Param("id"), "error", err)
		return respondError(c, err)
	}

	return h.respond(c, http.StatusAccepted, message, session)
}

func (h *SessionHandler) DismissToast(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := h.dashboardService.DismissToast(ctx, c.Param("id"), c.Param("toast_id"))
	if err != nil {
		return respondError(c, err)
	}

	return h.respond(c, http.StatusOK, "toast dismissed", session)
}
