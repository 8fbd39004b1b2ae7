package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/resulto-ai/resulto-gateway/internal/models"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
)

const (
	defaultStudentName = "Student Name"
	defaultRegNumber   = "REG12345"
)

type generationAPI interface {
	GenerateResult(ctx context.Context, token string, req models.GenerationRequest) (*models.GenerationResponse, error)
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// documentComposer turns already-fetched image bytes into a single-page
// document without further network calls.
type documentComposer interface {
	Compose(image []byte) ([]byte, error)
}

type historyNotifier interface {
	RefreshAsync()
}

// GenerationObserver counts generated results by tier. Implemented by the
// metrics service; nil disables counting.
type GenerationObserver interface {
	RecordGeneration(premium bool)
}

// GeneratorService serializes the ledger into a generation request and keeps
// the returned result reference. Failures retain no partial state.
type GeneratorService struct {
	api       generationAPI
	session   *SessionService
	ledger    *LedgerService
	composer  documentComposer
	artifacts artifactSaver
	history   historyNotifier
	observer  GenerationObserver
	logger    *zap.Logger

	mu      sync.Mutex
	current *models.CurrentResult
}

// NewGeneratorService constructs the generator. history, artifacts and
// observer may be nil.
func NewGeneratorService(api generationAPI, session *SessionService, ledger *LedgerService, composer documentComposer, artifacts artifactSaver, history historyNotifier, observer GenerationObserver, logger *zap.Logger) *GeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{
		api:       api,
		session:   session,
		ledger:    ledger,
		composer:  composer,
		artifacts: artifacts,
		history:   history,
		observer:  observer,
		logger:    logger,
	}
}

// Generate snapshots the ledger and asks the rendering service for a result
// image. Success stores the reference and kicks off a history refresh.
func (s *GeneratorService) Generate(ctx context.Context) (*models.CurrentResult, error) {
	if !s.session.IsSignedIn() {
		return nil, appErrors.Clone(appErrors.ErrAuthRequired, "sign in to generate a result")
	}

	info := s.ledger.StudentInfo()
	if info.Name == "" {
		info.Name = defaultStudentName
	}
	if info.RegNumber == "" {
		info.RegNumber = defaultRegNumber
	}
	summary := s.ledger.Summary()
	premium := s.session.Snapshot().IsPremium

	req := models.GenerationRequest{
		StudentInfo:  info,
		Grades:       s.ledger.Entries(),
		AveragePoint: summary.AveragePoint,
		TotalUnits:   strconv.Itoa(summary.TotalUnits),
		IsPremium:    premium,
	}

	resp, err := s.api.GenerateResult(ctx, s.session.Token(), req)
	if err != nil {
		return nil, err
	}

	current := &models.CurrentResult{ImageURL: resp.ImageURL, GeneratedAt: time.Now().UTC()}
	s.mu.Lock()
	s.current = current
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.RecordGeneration(premium)
	}
	if s.history != nil {
		s.history.RefreshAsync()
	}
	s.logger.Info("result generated", zap.String("image_url", resp.ImageURL), zap.Bool("premium", premium))

	out := *current
	return &out, nil
}

// Current returns the most recent result, or nil when none was generated.
func (s *GeneratorService) Current() *models.CurrentResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	out := *s.current
	return &out
}

// DownloadImage fetches the generated image and stores it as an artifact.
func (s *GeneratorService) DownloadImage(ctx context.Context) (string, error) {
	current := s.Current()
	if current == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "no result generated yet")
	}

	data, err := s.api.FetchImage(ctx, current.ImageURL)
	if err != nil {
		return "", err
	}
	return s.artifacts.Save(s.artifactName("png"), data)
}

// ExportPDF fetches the generated image and composes the fixed-size
// single-page document. Undecodable image data surfaces as an error rather
// than a corrupt file.
func (s *GeneratorService) ExportPDF(ctx context.Context) (string, error) {
	current := s.Current()
	if current == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "no result generated yet")
	}

	data, err := s.api.FetchImage(ctx, current.ImageURL)
	if err != nil {
		return "", err
	}
	doc, err := s.composer.Compose(data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "compose result document")
	}
	return s.artifacts.Save(s.artifactName("pdf"), doc)
}

// Reset drops the current result, used on sign-out.
func (s *GeneratorService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *GeneratorService) artifactName(ext string) string {
	name := s.ledger.StudentInfo().Name
	if name == "" {
		name = "result"
	}
	name = strings.ReplaceAll(strings.ToLower(name), " ", "_")
	return fmt.Sprintf("%s_%d.%s", name, time.Now().UnixMilli(), ext)
}
