package claim

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medibridge/medibridge/internal/platform/gateway"
)

type Handler struct {
	svc        *Service
	customerID string
}

func NewHandler(svc *Service, customerID string) *Handler {
	return &Handler{svc: svc, customerID: customerID}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/eligibility/check", h.CheckEligibility)
	api.POST("/discharge", h.DischargeOP)
	api.POST("/discharge/result", h.SaveDischargeResult)
	api.POST("/claims/cancel", h.CancelOpenClaimsTxn)

	api.GET("/entitlement/:card_no", h.GetEntitlement)
	api.GET("/member-plan", h.GetMemberEnrolledPlanTC)
	api.POST("/icd-exclusion", h.CheckICDExclusion)
	api.GET("/hello", h.HelloWorld)
}

// errorBody is the uniform failure shape: a success flag, a human message, an
// error classification and, when the insurer answered, its own code/message.
type errorBody struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	ErrorKind         string `json:"error_kind"`
	GatewayStatusCode string `json:"gateway_status_code,omitempty"`
	GatewayStatusMsg  string `json:"gateway_status_msg,omitempty"`
}

func respondError(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, errorBody{
			Message: ve.Msg, ErrorKind: "validation",
		})
	}
	var pe *gateway.ProtocolError
	if errors.As(err, &pe) {
		return c.JSON(http.StatusBadGateway, errorBody{
			Message:           pe.Error(),
			ErrorKind:         "protocol",
			GatewayStatusCode: string(pe.StatusCode),
			GatewayStatusMsg:  pe.StatusMsg,
		})
	}
	var te *gateway.TransportError
	if errors.As(err, &te) {
		return c.JSON(http.StatusGatewayTimeout, errorBody{
			Message: te.Error(), ErrorKind: "transport",
		})
	}
	var re *gateway.RequestError
	if errors.As(err, &re) {
		return c.JSON(http.StatusInternalServerError, errorBody{
			Message: re.Error(), ErrorKind: "request",
		})
	}
	var se *PersistenceError
	if errors.As(err, &se) {
		return c.JSON(http.StatusInternalServerError, errorBody{
			Message: se.Error(), ErrorKind: "persistence",
		})
	}
	return c.JSON(http.StatusInternalServerError, errorBody{
		Message: err.Error(), ErrorKind: "internal",
	})
}

func (h *Handler) CheckEligibility(c echo.Context) error {
	var in EligibilityCheckInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, &ValidationError{Msg: err.Error()})
	}
	result, err := h.svc.CheckEligibility(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) DischargeOP(c echo.Context) error {
	var in DischargeOPInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, &ValidationError{Msg: err.Error()})
	}
	result, err := h.svc.DischargeOP(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) SaveDischargeResult(c echo.Context) error {
	var in SaveDischargeInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, &ValidationError{Msg: err.Error()})
	}
	result, err := h.svc.SaveDischargeResult(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type cancelRequest struct {
	CardNo    string `json:"no_kartu"`
	Remarks   string `json:"remarks"`
	VoidActor string `json:"void_by"`
}

func (h *Handler) CancelOpenClaimsTxn(c echo.Context) error {
	var in cancelRequest
	if err := c.Bind(&in); err != nil {
		return respondError(c, &ValidationError{Msg: err.Error()})
	}
	result, err := h.svc.CancelOpenClaimsTxn(c.Request().Context(), in.CardNo, in.Remarks, in.VoidActor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetEntitlement(c echo.Context) error {
	result, err := h.svc.GetEntitlement(c.Request().Context(), c.Param("card_no"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetMemberEnrolledPlanTC(c echo.Context) error {
	result, err := h.svc.GetMemberEnrolledPlanTC(c.Request().Context(),
		c.QueryParam("card_no"), c.QueryParam("cov_id"), c.QueryParam("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type icdExclusionRequest struct {
	CardNo            string `json:"no_kartu"`
	CovID             string `json:"cov_id"`
	DiagnosisCodeList string `json:"diagnosis_code_list"`
}

func (h *Handler) CheckICDExclusion(c echo.Context) error {
	var in icdExclusionRequest
	if err := c.Bind(&in); err != nil {
		return respondError(c, &ValidationError{Msg: err.Error()})
	}
	result, err := h.svc.CheckICDExclusion(c.Request().Context(), in.CardNo, in.CovID, in.DiagnosisCodeList)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) HelloWorld(c echo.Context) error {
	result, err := h.svc.HelloWorld(c.Request().Context(), h.customerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
