package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resulto-ai/resulto-gateway/internal/service"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
	"github.com/resulto-ai/resulto-gateway/pkg/response"
)

// ResultHandler exposes generation and the export surfaces.
type ResultHandler struct {
	service *service.GeneratorService
}

// NewResultHandler creates a new handler.
func NewResultHandler(svc *service.GeneratorService) *ResultHandler {
	return &ResultHandler{service: svc}
}

// Generate godoc
// @Summary Generate a result
// @Description Snapshots the ledger and renders a result image remotely
// @Tags Result
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /generate [post]
func (h *ResultHandler) Generate(c *gin.Context) {
	result, err := h.service.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Current godoc
// @Summary Current result
// @Description Returns the most recently generated result, if any
// @Tags Result
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /result [get]
func (h *ResultHandler) Current(c *gin.Context) {
	result := h.service.Current()
	if result == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no result generated yet"))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download the result image
// @Description Fetches the generated image and stores it in the downloads directory
// @Tags Result
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /result/download [post]
func (h *ResultHandler) Download(c *gin.Context) {
	path, err := h.service.DownloadImage(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"path": path}, nil)
}

// Export godoc
// @Summary Export the result as a document
// @Description Composes the generated image into a fixed-size single-page PDF
// @Tags Result
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /result/export [post]
func (h *ResultHandler) Export(c *gin.Context) {
	path, err := h.service.ExportPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"path": path}, nil)
}
