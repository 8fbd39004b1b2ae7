package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resulto-ai/resulto-gateway/internal/models"
	"github.com/resulto-ai/resulto-gateway/pkg/tasks"
)

type historyAPI interface {
	FetchHistory(ctx context.Context, token string) ([]models.HistoryRecord, error)
}

// HistoryView is the cached read model for past generated results.
type HistoryView struct {
	Records []models.HistoryRecord `json:"records"`
	Failed  bool                   `json:"failed"`
}

// HistoryService keeps a read-only cache of the remote history. A refresh
// failure marks the cache stale instead of surfacing an error; stale data is
// better than an error page for a list the user only browses.
type HistoryService struct {
	api     historyAPI
	session *SessionService
	logger  *zap.Logger

	mu      sync.Mutex
	records []models.HistoryRecord
	failed  bool
	runner  *tasks.Runner
}

// NewHistoryService constructs an empty cache.
func NewHistoryService(api historyAPI, session *SessionService, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		api:     api,
		session: session,
		logger:  logger,
	}
}

// AttachRunner routes asynchronous refreshes through the shared task runner
// instead of ad-hoc goroutines.
func (s *HistoryService) AttachRunner(runner *tasks.Runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runner = runner
}

// Refresh replaces the cache from the remote service. Signed out it is a
// silent no-op; a fetch failure keeps the previous records and flags the
// view as failed. The returned error is always nil so queued refreshes are
// never retried against a dead session.
func (s *HistoryService) Refresh(ctx context.Context) error {
	if !s.session.IsSignedIn() {
		return nil
	}

	records, err := s.api.FetchHistory(ctx, s.session.Token())
	if err != nil {
		s.logger.Warn("history refresh failed", zap.Error(err))
		s.mu.Lock()
		s.failed = true
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.records = records
	s.failed = false
	s.mu.Unlock()
	s.logger.Debug("history refreshed", zap.Int("records", len(records)))
	return nil
}

// RefreshAsync schedules a refresh without blocking the caller.
func (s *HistoryService) RefreshAsync() {
	s.mu.Lock()
	runner := s.runner
	s.mu.Unlock()

	if runner != nil {
		if err := runner.Enqueue(tasks.Task{ID: uuid.NewString(), Type: "history_refresh"}); err != nil {
			s.logger.Warn("failed to queue history refresh", zap.Error(err))
		}
		return
	}
	go func() {
		_ = s.Refresh(context.Background())
	}()
}

// View returns a copy of the cached records and the stale flag.
func (s *HistoryService) View() HistoryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.HistoryRecord, len(s.records))
	copy(out, s.records)
	return HistoryView{Records: out, Failed: s.failed}
}

// Clear drops the cache, used on sign-out.
func (s *HistoryService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.failed = false
}
