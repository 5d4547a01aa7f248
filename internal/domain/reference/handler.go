package reference

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reference/coverage-types", h.ListCoverageTypes)
	api.GET("/reference/document-types", h.ListDocumentTypes)
}

func (h *Handler) ListCoverageTypes(c echo.Context) error {
	items, err := h.repo.ListCoverageTypes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*CoverageType{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListDocumentTypes(c echo.Context) error {
	items, err := h.repo.ListDocumentTypes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*DocumentType{}
	}
	return c.JSON(http.StatusOK, items)
}
