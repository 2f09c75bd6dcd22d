package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fixsewa/internal/service"
)

// CatalogHandler exposes the public browse endpoints.
type CatalogHandler struct {
	Catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

// Services handles GET /v1/services.
func (h *CatalogHandler) Services(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"services": h.Catalog.Services()})
}

// Workers handles GET /v1/workers with an optional ?service= filter.
func (h *CatalogHandler) Workers(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	list, err := h.Catalog.ListWorkers(ctx, c.QueryParam("service"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"workers": list})
}
