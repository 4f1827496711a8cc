package rest

import (
	"context"
	"net/http"
	"nextGamePoints/domain"
	"nextGamePoints/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type PlayerService interface {
	ListPlayers(ctx context.Context) ([]domain.Player, error)
	GetPlayer(ctx context.Context, id string) (domain.Player, error)
	Search(ctx context.Context, query string) ([]domain.Player, error)
	DidYouMean(ctx context.Context, query string, limit int) ([]string, error)
}

type PlayerHandler struct {
	playerService PlayerService
	timeout       time.Duration
}

func NewPlayerHandler(playerService PlayerService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		timeout:       5 * time.Second,
	}
}

// GetPlayers lists the catalog, or the suggestions for ?q= when given.
func (h *PlayerHandler) GetPlayers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	query, ok := c.QueryParams()["q"]
	if !ok {
		players, err := h.playerService.ListPlayers(ctx)
		if err != nil {
			logger.Error("Failed to list players", err)
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, fres.Response.StatusOK(players))
	}

	q := ""
	if len(query) > 0 {
		q = query[0]
	}

	suggestions, err := h.playerService.Search(ctx, q)
	if err != nil {
		logger.Error("Failed to search players", err)
		return respondError(c, err)
	}

	didYouMean := []string{}
	if len(suggestions) == 0 {
		hints, err := h.playerService.DidYouMean(ctx, q, 3)
		if err == nil && hints != nil {
			didYouMean = hints
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "successfully search players",
		"query":        q,
		"suggestions":  suggestions,
		"did_you_mean": didYouMean,
	})
}

func (h *PlayerHandler) GetPlayerByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	player, err := h.playerService.GetPlayer(ctx, c.Param("id"))
	if err != nil {
		logger.Warn("Failed to find player", "id", c.Param("id"), "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(player))
}
