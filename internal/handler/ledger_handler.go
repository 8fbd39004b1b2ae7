package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resulto-ai/resulto-gateway/internal/models"
	"github.com/resulto-ai/resulto-gateway/internal/service"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
	"github.com/resulto-ai/resulto-gateway/pkg/response"
)

// LedgerHandler exposes the editable transcript draft.
type LedgerHandler struct {
	service *service.LedgerService
}

// NewLedgerHandler creates a new handler.
func NewLedgerHandler(svc *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: svc}
}

type ledgerView struct {
	Student models.StudentInfo   `json:"student"`
	Entries []models.CourseEntry `json:"entries"`
	Summary models.Summary       `json:"summary"`
}

// View godoc
// @Summary Current ledger
// @Description Returns the student fields, course rows and recomputed summary
// @Tags Ledger
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ledger [get]
func (h *LedgerHandler) View(c *gin.Context) {
	view := ledgerView{
		Student: h.service.StudentInfo(),
		Entries: h.service.Entries(),
		Summary: h.service.Summary(),
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// AddEntry godoc
// @Summary Add a course row
// @Description Appends a course row, defaulting units and grade when omitted
// @Tags Ledger
// @Accept json
// @Produce json
// @Param payload body service.AddEntryRequest true "Course row"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /ledger/entries [post]
func (h *LedgerHandler) AddEntry(c *gin.Context) {
	var req service.AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	entry := h.service.AddEntry(req)
	response.Created(c, entry)
}

// UpdateEntry godoc
// @Summary Edit a course field
// @Description Updates one field of a course row in place
// @Tags Ledger
// @Accept json
// @Produce json
// @Param id path string true "Entry handle"
// @Param payload body object{field=string,value=string} true "Field edit"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /ledger/entries/{id} [put]
func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
	var payload struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "field required"))
		return
	}

	h.service.UpdateEntry(c.Param("id"), payload.Field, payload.Value)
	response.JSON(c, http.StatusOK, gin.H{"summary": h.service.Summary()}, nil)
}

// RemoveEntry godoc
// @Summary Remove a course row
// @Description Deletes the row with the given handle; unknown handles are a no-op
// @Tags Ledger
// @Produce json
// @Param id path string true "Entry handle"
// @Success 200 {object} response.Envelope
// @Router /ledger/entries/{id} [delete]
func (h *LedgerHandler) RemoveEntry(c *gin.Context) {
	h.service.RemoveEntry(c.Param("id"))
	response.JSON(c, http.StatusOK, gin.H{"summary": h.service.Summary()}, nil)
}

// SetStudent godoc
// @Summary Edit student fields
// @Description Replaces the student name and registration number
// @Tags Ledger
// @Accept json
// @Produce json
// @Param payload body models.StudentInfo true "Student fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /ledger/student [put]
func (h *LedgerHandler) SetStudent(c *gin.Context) {
	var info models.StudentInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	h.service.SetStudentInfo(info)
	response.JSON(c, http.StatusOK, info, nil)
}
