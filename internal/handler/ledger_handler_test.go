package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resulto-ai/resulto-gateway/internal/service"
	"github.com/resulto-ai/resulto-gateway/pkg/response"
)

func TestLedgerHandlerAddEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewLedgerService(nil)
	handler := NewLedgerHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.AddEntryRequest{Code: "MTH101"})
	req, _ := http.NewRequest(http.MethodPost, "/ledger/entries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.AddEntry(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, svc.Entries(), 1)
}

func TestLedgerHandlerAddEntryInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLedgerHandler(service.NewLedgerService(nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/ledger/entries", bytes.NewReader([]byte(`{invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.AddEntry(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestLedgerHandlerUpdateEntryReturnsSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewLedgerService(nil)
	entry := svc.AddEntry(service.AddEntryRequest{Code: "MTH101", Units: 3, Grade: "A"})
	handler := NewLedgerHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]string{"field": "grade", "value": "b"})
	req, _ := http.NewRequest(http.MethodPut, "/ledger/entries/"+entry.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: entry.ID}}

	handler.UpdateEntry(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "B", svc.Entries()[0].Grade)
	assert.Contains(t, w.Body.String(), "4.00")
}

func TestLedgerHandlerRemoveEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewLedgerService(nil)
	entry := svc.AddEntry(service.AddEntryRequest{Code: "MTH101"})
	handler := NewLedgerHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/ledger/entries/"+entry.ID, nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: entry.ID}}

	handler.RemoveEntry(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.Entries())
}

func TestLedgerHandlerView(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewLedgerService(nil)
	svc.AddEntry(service.AddEntryRequest{Code: "MTH101", Units: 3, Grade: "A"})
	handler := NewLedgerHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/ledger", nil)
	c.Request = req

	handler.View(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MTH101")
	assert.Contains(t, w.Body.String(), "5.00")
}
