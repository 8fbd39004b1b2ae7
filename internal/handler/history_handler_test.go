package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/resulto-ai/resulto-gateway/internal/models"
	"github.com/resulto-ai/resulto-gateway/internal/service"
)

type historyAPIMock struct {
	records []models.HistoryRecord
}

func (m *historyAPIMock) FetchHistory(ctx context.Context, token string) ([]models.HistoryRecord, error) {
	return m.records, nil
}

type sessionAPIMock struct{}

func (m *sessionAPIMock) VerifySession(ctx context.Context, token string) (*models.UserIdentity, error) {
	return &models.UserIdentity{UID: "u1"}, nil
}

func (m *sessionAPIMock) ExchangeGoogleToken(ctx context.Context, idToken string) (*models.UserIdentity, string, error) {
	return &models.UserIdentity{UID: "u1"}, "tok", nil
}

type tokenStoreMock struct{ token string }

func (m *tokenStoreMock) Save(token string) error { m.token = token; return nil }
func (m *tokenStoreMock) Load() (string, error)   { return m.token, nil }
func (m *tokenStoreMock) Clear() error            { m.token = ""; return nil }

func TestHistoryHandlerRequiresSignIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	session := service.NewSessionService(&sessionAPIMock{}, &tokenStoreMock{}, nil, nil, nil)
	handler := NewHistoryHandler(service.NewHistoryService(&historyAPIMock{}, session, nil), session)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/history", nil)
	c.Request = req

	handler.View(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHistoryHandlerReturnsCachedView(t *testing.T) {
	gin.SetMode(gin.TestMode)
	session := service.NewSessionService(&sessionAPIMock{}, &tokenStoreMock{}, nil, nil, nil)
	_, err := session.SignInWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)

	historySvc := service.NewHistoryService(&historyAPIMock{records: []models.HistoryRecord{{AveragePoint: "4.43"}}}, session, nil)
	require.NoError(t, historySvc.Refresh(context.Background()))
	handler := NewHistoryHandler(historySvc, session)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/history", nil)
	c.Request = req

	handler.View(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "4.43")
}
