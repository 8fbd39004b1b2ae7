package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resulto-ai/resulto-gateway/internal/service"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
	"github.com/resulto-ai/resulto-gateway/pkg/response"
)

// AuthHandler wires HTTP endpoints to the session service.
type AuthHandler struct {
	session   *service.SessionService
	payment   *service.PaymentService
	history   *service.HistoryService
	generator *service.GeneratorService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(session *service.SessionService, payment *service.PaymentService, history *service.HistoryService, generator *service.GeneratorService) *AuthHandler {
	return &AuthHandler{session: session, payment: payment, history: history, generator: generator}
}

// SignInWithGoogle godoc
// @Summary Sign in with Google
// @Description Exchange a Google ID token for a session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body object{id_token=string} true "Google credential"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/google [post]
func (h *AuthHandler) SignInWithGoogle(c *gin.Context) {
	var payload struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "id_token required"))
		return
	}

	identity, err := h.session.SignInWithGoogle(c.Request.Context(), payload.IDToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.history.RefreshAsync()
	response.JSON(c, http.StatusOK, identity, nil)
}

// Session godoc
// @Summary Current session
// @Description Returns the signed-in identity and premium flag
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.session.Snapshot(), nil)
}

// SignOut godoc
// @Summary Sign out
// @Description Ends the session and clears all per-session state
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.session.SignOut(c.Request.Context())
	h.payment.Reset()
	h.history.Clear()
	h.generator.Reset()
	response.NoContent(c)
}
