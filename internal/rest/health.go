package rest

import (
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	name    string
	version string
}

func NewHealthHandler(name, version string) *HealthHandler {
	return &HealthHandler{name: name, version: version}
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{
		"status":  "ok",
		"name":    h.name,
		"version": h.version,
	}))
}
