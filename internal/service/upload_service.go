package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/resulto-ai/resulto-gateway/internal/models"
	"github.com/resulto-ai/resulto-gateway/internal/preview"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
)

type recognitionAPI interface {
	RecognizeSheet(ctx context.Context, token, filename string, image []byte) (*models.OCRResult, error)
}

type artifactSaver interface {
	Save(filename string, data []byte) (string, error)
}

// UploadObserver counts submissions by outcome. Implemented by the metrics
// service; nil disables counting.
type UploadObserver interface {
	RecordUpload(outcome string)
}

// SubmitResult reports what a submission did.
type SubmitResult struct {
	PreviewPath string             `json:"previewPath,omitempty"`
	Recognized  int                `json:"recognized"`
	Placeholder bool               `json:"placeholder"`
	Student     models.StudentInfo `json:"student"`
	Summary     models.Summary     `json:"summary"`
}

// UploadService turns an uploaded sheet image into ledger content. A
// transport or service failure leaves the ledger untouched.
type UploadService struct {
	api       recognitionAPI
	session   *SessionService
	ledger    *LedgerService
	artifacts artifactSaver
	observer  UploadObserver
	logger    *zap.Logger

	// Overlapping submissions are fenced by sequence number: only the
	// response for the newest submission may replace the ledger.
	seq atomic.Uint64
}

// NewUploadService constructs the pipeline. artifacts and observer may be nil.
func NewUploadService(api recognitionAPI, session *SessionService, ledger *LedgerService, artifacts artifactSaver, observer UploadObserver, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		api:       api,
		session:   session,
		ledger:    ledger,
		artifacts: artifacts,
		observer:  observer,
		logger:    logger,
	}
}

// Submit previews the image locally, sends it for recognition and replaces
// the ledger from the response. Zero recognized courses fall back to five
// randomized placeholder rows rather than an error.
func (s *UploadService) Submit(ctx context.Context, filename string, image []byte) (*SubmitResult, error) {
	if !s.session.IsSignedIn() {
		return nil, appErrors.Clone(appErrors.ErrAuthRequired, "sign in to upload a result")
	}

	seq := s.seq.Add(1)
	result := &SubmitResult{}

	// The preview never depends on the network; a failure here only means
	// the bytes are not a displayable image, which the recognizer will
	// also discover.
	if thumb, err := preview.Thumbnail(image); err != nil {
		s.logger.Warn("preview generation failed", zap.Error(err))
	} else if s.artifacts != nil {
		path, err := s.artifacts.Save(fmt.Sprintf("preview_%d.png", seq), thumb)
		if err != nil {
			s.logger.Warn("failed to store preview", zap.Error(err))
		} else {
			result.PreviewPath = path
		}
	}

	ocr, err := s.api.RecognizeSheet(ctx, s.session.Token(), filename, image)
	if err != nil {
		s.record("failed")
		return nil, err
	}

	if seq != s.seq.Load() {
		s.record("stale")
		s.logger.Info("discarding stale recognition response", zap.Uint64("seq", seq))
		return nil, appErrors.Clone(appErrors.ErrConflict, "superseded by a newer upload")
	}

	entries := ocr.Courses
	if len(entries) == 0 {
		entries = s.ledger.PlaceholderEntries()
		result.Placeholder = true
	}
	result.Recognized = len(ocr.Courses)
	result.Student = models.StudentInfo{Name: ocr.StudentName, RegNumber: ocr.RegNumber}

	s.ledger.Replace(result.Student, entries)
	result.Summary = s.ledger.Summary()
	s.record("ok")
	return result, nil
}

func (s *UploadService) record(outcome string) {
	if s.observer != nil {
		s.observer.RecordUpload(outcome)
	}
}
