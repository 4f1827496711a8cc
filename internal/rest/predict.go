package rest

import (
	"context"
	"errors"
	"net/http"
	"nextGamePoints/domain"
	"nextGamePoints/pkg/logger"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type PlayerResolver interface {
	Resolve(ctx context.Context, name string) (domain.Player, error)
}

type Predictor interface {
	Predict(ctx context.Context, playerName string) (domain.PredictionResult, error)
}

// PredictHandler exposes the prediction backend contract: a player name in,
// a PredictionResult out. The body is the bare result so any client of the
// contract can read it.
type PredictHandler struct {
	players   PlayerResolver
	predictor Predictor
	validator *validator.Validate
	timeout   time.Duration
}

func NewPredictHandler(players PlayerResolver, predictor Predictor, timeout time.Duration) *PredictHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PredictHandler{
		players:   players,
		predictor: predictor,
		validator: validator.New(),
		timeout:   timeout,
	}
}

func (h *PredictHandler) Predict(c echo.Context) error {
	var req domain.PredictRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate predict request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	player, err := h.players.Resolve(ctx, req.PlayerName)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.predictor.Predict(ctx, player.Name)
	if err != nil {
		logger.Warn("Prediction failed", "player", player.Name, "error", err)
		if errors.Is(err, domain.ErrModelUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: domain.UserMessage(err)})
		}
		return c.JSON(statusFor(err), ResponseError{Message: domain.UserMessage(err)})
	}

	return c.JSON(http.StatusOK, result)
}
