package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resulto-ai/resulto-gateway/internal/models"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
)

type stubHistoryAPI struct {
	records []models.HistoryRecord
	err     error
	calls   int
}

func (s *stubHistoryAPI) FetchHistory(ctx context.Context, token string) ([]models.HistoryRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func TestHistoryRefreshSignedOutIsNoop(t *testing.T) {
	api := &stubHistoryAPI{records: []models.HistoryRecord{{AveragePoint: "4.43"}}}
	session := NewSessionService(&mockSessionAPI{}, &memTokenStore{}, nil, nil, nil)
	svc := NewHistoryService(api, session, nil)

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Zero(t, api.calls)
	assert.Empty(t, svc.View().Records)
}

func TestHistoryRefreshReplacesRecords(t *testing.T) {
	api := &stubHistoryAPI{records: []models.HistoryRecord{
		{CreatedAt: time.Now(), AveragePoint: "4.43", ImageURL: "http://img/1.png"},
		{CreatedAt: time.Now(), AveragePoint: "3.00", ImageURL: "http://img/2.png"},
	}}
	svc := NewHistoryService(api, newSignedInSession(t), nil)

	require.NoError(t, svc.Refresh(context.Background()))
	view := svc.View()
	assert.Len(t, view.Records, 2)
	assert.False(t, view.Failed)
}

func TestHistoryRefreshFailureKeepsRecords(t *testing.T) {
	api := &stubHistoryAPI{records: []models.HistoryRecord{{AveragePoint: "4.43"}}}
	svc := NewHistoryService(api, newSignedInSession(t), nil)
	require.NoError(t, svc.Refresh(context.Background()))

	api.err = appErrors.Clone(appErrors.ErrTransport, "")
	require.NoError(t, svc.Refresh(context.Background()))

	view := svc.View()
	assert.Len(t, view.Records, 1)
	assert.True(t, view.Failed)
}

func TestHistoryRefreshRecoversAfterFailure(t *testing.T) {
	api := &stubHistoryAPI{err: appErrors.Clone(appErrors.ErrTransport, "")}
	svc := NewHistoryService(api, newSignedInSession(t), nil)
	require.NoError(t, svc.Refresh(context.Background()))
	assert.True(t, svc.View().Failed)

	api.err = nil
	api.records = []models.HistoryRecord{{AveragePoint: "4.43"}}
	require.NoError(t, svc.Refresh(context.Background()))

	view := svc.View()
	assert.Len(t, view.Records, 1)
	assert.False(t, view.Failed)
}

func TestHistoryClear(t *testing.T) {
	api := &stubHistoryAPI{records: []models.HistoryRecord{{AveragePoint: "4.43"}}}
	svc := NewHistoryService(api, newSignedInSession(t), nil)
	require.NoError(t, svc.Refresh(context.Background()))
	require.Len(t, svc.View().Records, 1)

	svc.Clear()
	view := svc.View()
	assert.Empty(t, view.Records)
	assert.False(t, view.Failed)
}
