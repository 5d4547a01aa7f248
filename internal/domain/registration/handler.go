package registration

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medibridge/medibridge/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/registrations/active", h.GetActive)
	api.GET("/registrations/history/:no_mr", h.History)
	api.GET("/registrations/:no", h.GetDetail)

	api.GET("/responses/eligibility/:no_mr", h.EligibilityResponses)
	api.GET("/responses/claim/:no_mr", h.ClaimResponses)

	api.GET("/transactions/registration/:no", h.ItemsByRegistration)
	api.GET("/transactions/claim/:no", h.ItemsByClaim)
}

func (h *Handler) GetDetail(c echo.Context) error {
	d, err := h.svc.GetDetail(c.Request().Context(), c.Param("no"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "registration not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) GetActive(c echo.Context) error {
	noMR := c.QueryParam("no_mr")
	if noMR == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no_mr is required")
	}
	date := time.Now()
	if d := c.QueryParam("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		date = parsed
	}
	reg, err := h.svc.GetActive(c.Request().Context(), noMR, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no active registration for this patient and date")
	}
	return c.JSON(http.StatusOK, reg)
}

func (h *Handler) History(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.History(c.Request().Context(), c.Param("no_mr"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) EligibilityResponses(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.EligibilityResponses(c.Request().Context(), c.Param("no_mr"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ClaimResponses(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ClaimResponses(c.Request().Context(), c.Param("no_mr"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ItemsByRegistration(c echo.Context) error {
	groups, err := h.svc.ItemsByRegistration(c.Request().Context(), c.Param("no"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *Handler) ItemsByClaim(c echo.Context) error {
	groups, err := h.svc.ItemsByClaim(c.Request().Context(), c.Param("no"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, groups)
}
