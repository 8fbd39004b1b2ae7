package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resulto-ai/resulto-gateway/internal/service"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
	"github.com/resulto-ai/resulto-gateway/pkg/response"
)

// HistoryHandler exposes the cached past-results view.
type HistoryHandler struct {
	service *service.HistoryService
	session *service.SessionService
}

// NewHistoryHandler creates a new handler.
func NewHistoryHandler(svc *service.HistoryService, session *service.SessionService) *HistoryHandler {
	return &HistoryHandler{service: svc, session: session}
}

// View godoc
// @Summary Past generated results
// @Description Returns the cached history; the failed flag marks a stale cache
// @Tags History
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /history [get]
func (h *HistoryHandler) View(c *gin.Context) {
	if !h.session.IsSignedIn() {
		response.Error(c, appErrors.Clone(appErrors.ErrAuthRequired, "sign in to view history"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.View(), nil)
}

// Refresh godoc
// @Summary Refresh the history cache
// @Description Re-fetches past results from the remote service
// @Tags History
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /history/refresh [post]
func (h *HistoryHandler) Refresh(c *gin.Context) {
	if !h.session.IsSignedIn() {
		response.Error(c, appErrors.Clone(appErrors.ErrAuthRequired, "sign in to view history"))
		return
	}
	_ = h.service.Refresh(c.Request.Context())
	response.JSON(c, http.StatusOK, h.service.View(), nil)
}
