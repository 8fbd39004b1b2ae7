package service

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resulto-ai/resulto-gateway/internal/models"
)

const placeholderCount = 5

// AddEntryRequest carries a new course row. Zero values fall back to the
// draft defaults (3 units, grade A).
type AddEntryRequest struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	Units int    `json:"units"`
	Grade string `json:"grade"`
}

// LedgerService owns the in-memory transcript draft. None of its operations
// fail: invalid input is coerced to a safe default because the ledger is an
// editable draft, not a submission.
type LedgerService struct {
	mu      sync.Mutex
	logger  *zap.Logger
	rng     *rand.Rand
	student models.StudentInfo
	entries []models.CourseEntry
}

// NewLedgerService constructs an empty ledger.
func NewLedgerService(logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddEntry appends a course row and returns it. Known codes auto-resolve the
// title when the caller supplies none.
func (s *LedgerService) AddEntry(req AddEntryRequest) models.CourseEntry {
	if req.Units == 0 {
		req.Units = 3
	}
	if req.Grade == "" {
		req.Grade = "A"
	}
	if req.Title == "" {
		if title, ok := models.CourseCatalog[req.Code]; ok {
			req.Title = title
		}
	}

	entry := models.CourseEntry{
		ID:    uuid.NewString(),
		Code:  req.Code,
		Title: req.Title,
		Units: req.Units,
		Grade: models.NormalizeGrade(req.Grade),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return entry
}

// RemoveEntry deletes the entry with the given handle. Removing an unknown
// handle is a no-op.
func (s *LedgerService) RemoveEntry(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.entries {
		if entry.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// UpdateEntry mutates a single field in place. Non-numeric units become 0;
// unknown fields and handles are ignored. Grades are kept as entered and
// simply score zero when unrecognized, mirroring the permissive draft UX.
func (s *LedgerService) UpdateEntry(id, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		switch field {
		case "code":
			s.entries[i].Code = value
		case "title":
			s.entries[i].Title = value
		case "units":
			units, err := strconv.Atoi(value)
			if err != nil {
				units = 0
			}
			s.entries[i].Units = units
		case "grade":
			s.entries[i].Grade = models.NormalizeGrade(value)
		default:
			s.logger.Debug("ignoring unknown ledger field", zap.String("field", field))
		}
		return
	}
}

// Entries returns a copy of the current rows in order.
func (s *LedgerService) Entries() []models.CourseEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CourseEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// StudentInfo returns the current student fields.
func (s *LedgerService) StudentInfo() models.StudentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.student
}

// SetStudentInfo updates the student fields.
func (s *LedgerService) SetStudentInfo(info models.StudentInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.student = info
}

// Replace swaps the whole ledger content in one step. Entries get fresh
// handles; the upload pipeline uses this after a successful recognition.
func (s *LedgerService) Replace(info models.StudentInfo, entries []models.CourseEntry) {
	replaced := make([]models.CourseEntry, 0, len(entries))
	for _, entry := range entries {
		entry.ID = uuid.NewString()
		entry.Grade = models.NormalizeGrade(entry.Grade)
		if entry.Title == "" {
			if title, ok := models.CourseCatalog[entry.Code]; ok {
				entry.Title = title
			}
		}
		if entry.Units == 0 {
			entry.Units = 3
		}
		replaced = append(replaced, entry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.student = info
	s.entries = replaced
}

// PlaceholderEntries synthesizes rows with randomized catalog courses, units
// and grades. Used as the degraded-but-usable fallback when recognition
// finds nothing.
func (s *LedgerService) PlaceholderEntries() []models.CourseEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]models.CourseEntry, 0, placeholderCount)
	for i := 0; i < placeholderCount; i++ {
		code := models.CatalogCodes[s.rng.Intn(len(models.CatalogCodes))]
		entries = append(entries, models.CourseEntry{
			Code:  code,
			Title: models.CourseCatalog[code],
			Units: s.rng.Intn(4) + 1,
			Grade: models.GradeSymbols[s.rng.Intn(len(models.GradeSymbols))],
		})
	}
	return entries
}

// Summary recomputes total units and the credit-weighted average point.
// Units outside [1,6] count as zero; the average is "0.00" when no units
// accumulate, avoiding the division by zero.
func (s *LedgerService) Summary() models.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalUnits := 0
	totalPoints := 0.0
	for _, entry := range s.entries {
		units := entry.Units
		if units < 1 || units > 6 {
			units = 0
		}
		totalUnits += units
		totalPoints += float64(units) * models.PointFor(entry.Grade)
	}

	average := "0.00"
	if totalUnits > 0 {
		value := math.Round(totalPoints/float64(totalUnits)*100) / 100
		average = fmt.Sprintf("%.2f", value)
	}

	return models.Summary{TotalUnits: totalUnits, AveragePoint: average}
}
