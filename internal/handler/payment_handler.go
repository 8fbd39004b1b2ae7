package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resulto-ai/resulto-gateway/internal/service"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
	"github.com/resulto-ai/resulto-gateway/pkg/response"
)

// PaymentHandler drives the premium checkout flow.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler creates a new handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// OpenCheckout godoc
// @Summary Open a premium checkout
// @Description Creates a charge reference and a hosted checkout session
// @Tags Payment
// @Accept json
// @Produce json
// @Param payload body object{email=string} true "Billing email"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payment/checkout [post]
func (h *PaymentHandler) OpenCheckout(c *gin.Context) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid checkout payload"))
		return
	}

	result, err := h.service.OpenCheckout(payload.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Complete godoc
// @Summary Complete a checkout
// @Description Verifies the charge server-side and unlocks premium on success
// @Tags Payment
// @Accept json
// @Produce json
// @Param payload body object{reference=string} true "Charge reference"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 402 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payment/complete [post]
func (h *PaymentHandler) Complete(c *gin.Context) {
	var payload struct {
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "reference required"))
		return
	}

	if err := h.service.Complete(c.Request.Context(), payload.Reference); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"state": h.service.State()}, nil)
}

// Cancel godoc
// @Summary Cancel an open checkout
// @Description Abandons the open checkout; a verification in flight runs to completion
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /payment/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	h.service.Cancel()
	response.JSON(c, http.StatusOK, gin.H{"state": h.service.State()}, nil)
}

// State godoc
// @Summary Checkout state
// @Description Reports the current position in the checkout flow
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /payment/state [get]
func (h *PaymentHandler) State(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"state": h.service.State()}, nil)
}
