package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resulto-ai/resulto-gateway/internal/models"
)

func TestLedgerSummaryWeightedAverage(t *testing.T) {
	svc := NewLedgerService(nil)
	svc.AddEntry(AddEntryRequest{Code: "MTH101", Units: 3, Grade: "A"})
	svc.AddEntry(AddEntryRequest{Code: "PHY101", Units: 4, Grade: "B"})

	summary := svc.Summary()
	assert.Equal(t, 7, summary.TotalUnits)
	// (3*5.0 + 4*4.0) / 7
	assert.Equal(t, "4.43", summary.AveragePoint)
}

func TestLedgerSummaryEmpty(t *testing.T) {
	svc := NewLedgerService(nil)
	summary := svc.Summary()
	assert.Equal(t, 0, summary.TotalUnits)
	assert.Equal(t, "0.00", summary.AveragePoint)
}

func TestLedgerSummaryClampsUnits(t *testing.T) {
	svc := NewLedgerService(nil)
	svc.AddEntry(AddEntryRequest{Code: "MTH101", Units: 7, Grade: "A"})
	svc.AddEntry(AddEntryRequest{Code: "PHY101", Units: 2, Grade: "C"})

	summary := svc.Summary()
	assert.Equal(t, 2, summary.TotalUnits)
	assert.Equal(t, "3.00", summary.AveragePoint)
}

func TestLedgerAddEntryDefaults(t *testing.T) {
	svc := NewLedgerService(nil)
	entry := svc.AddEntry(AddEntryRequest{Code: "MTH101"})

	require.NotEmpty(t, entry.ID)
	assert.Equal(t, 3, entry.Units)
	assert.Equal(t, "A", entry.Grade)
	assert.Equal(t, models.CourseCatalog["MTH101"], entry.Title)
}

func TestLedgerUpdateEntryCoercion(t *testing.T) {
	svc := NewLedgerService(nil)
	entry := svc.AddEntry(AddEntryRequest{Code: "MTH101", Units: 3, Grade: "A"})

	svc.UpdateEntry(entry.ID, "units", "abc")
	svc.UpdateEntry(entry.ID, "grade", "b+")
	svc.UpdateEntry(entry.ID, "nonsense", "x")

	entries := svc.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Units)
	assert.Equal(t, "B+", entries[0].Grade)
}

func TestLedgerUnknownGradeScoresZero(t *testing.T) {
	svc := NewLedgerService(nil)
	entry := svc.AddEntry(AddEntryRequest{Code: "MTH101", Units: 3, Grade: "A"})
	svc.UpdateEntry(entry.ID, "grade", "Z")

	entries := svc.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Z", entries[0].Grade)

	summary := svc.Summary()
	assert.Equal(t, 3, summary.TotalUnits)
	assert.Equal(t, "0.00", summary.AveragePoint)
}

func TestLedgerRemoveEntryUnknownIsNoop(t *testing.T) {
	svc := NewLedgerService(nil)
	svc.AddEntry(AddEntryRequest{Code: "MTH101"})

	svc.RemoveEntry("does-not-exist")
	assert.Len(t, svc.Entries(), 1)
}

func TestLedgerReplaceAssignsFreshHandles(t *testing.T) {
	svc := NewLedgerService(nil)
	svc.AddEntry(AddEntryRequest{Code: "MTH101"})

	svc.Replace(models.StudentInfo{Name: "Ada", RegNumber: "REG42"}, []models.CourseEntry{
		{Code: "CHM101", Grade: "b"},
		{Code: "PHY101", Units: 2, Grade: "A"},
	})

	entries := svc.Entries()
	require.Len(t, entries, 2)
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.Equal(t, "B", entries[0].Grade)
	assert.Equal(t, 3, entries[0].Units)
	assert.Equal(t, models.CourseCatalog["CHM101"], entries[0].Title)
	assert.Equal(t, "Ada", svc.StudentInfo().Name)
}

func TestLedgerPlaceholderEntries(t *testing.T) {
	svc := NewLedgerService(nil)
	entries := svc.PlaceholderEntries()

	require.Len(t, entries, 5)
	for _, entry := range entries {
		assert.Contains(t, models.CourseCatalog, entry.Code)
		assert.Equal(t, models.CourseCatalog[entry.Code], entry.Title)
		assert.GreaterOrEqual(t, entry.Units, 1)
		assert.LessOrEqual(t, entry.Units, 4)
		assert.True(t, models.IsKnownGrade(entry.Grade))
	}
}
