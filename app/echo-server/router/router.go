package router

import (
	"nextGamePoints/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupDashboardRoutes(e *echo.Echo, handler *rest.DashboardHandler, sessionRequired echo.MiddlewareFunc, predictLimit echo.MiddlewareFunc) {
	page := e.Group("", sessionRequired)

	page.GET("/", handler.Index)
	page.GET("/search", handler.Search)
	page.POST("/search/focus", handler.Focus)
	page.POST("/select", handler.Select)
	page.POST("/clear", handler.Clear)
	page.POST("/predict", handler.Predict, predictLimit)
	page.POST("/retry", handler.Retry, predictLimit)
	page.POST("/toasts/:id/dismiss", handler.DismissToast)
}

func SetupPlayerRoutes(api *echo.Group, handler *rest.PlayerHandler) {
	players := api.Group("/players")

	players.GET("", handler.GetPlayers)
	players.GET("/:id", handler.GetPlayerByID)
}

func SetupPredictRoutes(api *echo.Group, handler *rest.PredictHandler) {
	api.POST("/predict", handler.Predict)
}

func SetupSessionRoutes(api *echo.Group, handler *rest.SessionHandler, predictLimit echo.MiddlewareFunc) {
	sessions := api.Group("/sessions")

	sessions.POST("", handler.CreateSession)
	sessions.GET("/:id", handler.GetSession)
	sessions.PUT("/:id/query", handler.UpdateQuery)
	sessions.POST("/:id/focus", handler.FocusSearch)
	sessions.POST("/:id/selection", handler.SelectPlayer)
	sessions.DELETE("/:id/selection", handler.ClearSelection)
	sessions.POST("/:id/predict", handler.Predict, predictLimit)
	sessions.POST("/:id/retry", handler.Retry, predictLimit)
	sessions.DELETE("/:id/toasts/:toast_id", handler.DismissToast)
}

func SetupOpsRoutes(e *echo.Echo, health *rest.HealthHandler) {
	e.GET("/health", health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
