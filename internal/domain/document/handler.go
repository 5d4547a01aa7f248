package document

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medibridge/medibridge/internal/platform/blobstore"
	"github.com/medibridge/medibridge/pkg/pagination"
)

type Handler struct {
	svc        *Service
	blobSecret string
}

func NewHandler(svc *Service, blobSecret string) *Handler {
	return &Handler{svc: svc, blobSecret: blobSecret}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/documents/upload", h.Upload)
	api.GET("/documents/history/:no", h.History)
	// Blob keys contain slashes, so these take a wildcard.
	api.GET("/documents/link/*", h.PresignDownload)
	api.GET("/documents/blob/*", h.Download)
}

func (h *Handler) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open uploaded file")
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read uploaded file")
	}

	in := UploadInput{
		RegistrationNo: c.FormValue("no_registrasi"),
		ClaimNo:        c.FormValue("no_claim"),
		CardNo:         c.FormValue("no_kartu"),
		DocType:        c.FormValue("doc_type"),
		PatientName:    c.FormValue("patient_name"),
		Remarks:        c.FormValue("remarks"),
		FileName:       file.Filename,
		ContentType:    file.Header.Get("Content-Type"),
		Content:        content,
		CreatedBy:      c.FormValue("created_by"),
	}
	result, err := h.svc.Upload(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) History(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.History(c.Request().Context(), c.Param("no"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) PresignDownload(c echo.Context) error {
	link, err := h.svc.PresignDownload(c.Request().Context(), c.Param("*"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": link})
}

// Download serves an archived document. The route is reachable without a
// bearer token, so the presigned query parameters are verified instead.
func (h *Handler) Download(c echo.Context) error {
	key := c.Param("*")
	if err := blobstore.VerifyPresigned(h.blobSecret, key, c.QueryParam("expires"), c.QueryParam("sig")); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "invalid or expired download link")
	}
	rc, rec, err := h.svc.Download(c.Request().Context(), key)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	defer rc.Close()
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+rec.FileName+`"`)
	return c.Stream(http.StatusOK, rec.ContentType, rc)
}
