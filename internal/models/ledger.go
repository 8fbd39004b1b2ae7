package models

import "strings"

// CourseEntry is one row of a transcript draft. Duplicated codes are allowed;
// real transcripts repeat courses across sessions.
type CourseEntry struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
	Units int    `json:"units"`
	Grade string `json:"grade"`
}

// Summary is derived from the current entries and never stored.
type Summary struct {
	TotalUnits   int    `json:"totalUnits"`
	AveragePoint string `json:"averagePoint"`
}

// StudentInfo identifies the transcript owner on generated results.
type StudentInfo struct {
	Name      string `json:"name"`
	RegNumber string `json:"regNumber"`
}

// GradePoints maps the eight letter grades onto the 5.0 scale.
var GradePoints = map[string]float64{
	"A": 5.0, "B+": 4.5, "B": 4.0, "C+": 3.5, "C": 3.0, "D": 2.0, "E": 1.0, "F": 0.0,
}

// GradeSymbols lists the grades in descending order of points.
var GradeSymbols = []string{"A", "B+", "B", "C+", "C", "D", "E", "F"}

// CourseCatalog resolves well-known course codes to their titles.
var CourseCatalog = map[string]string{
	"MTH101": "Elementary Mathematics I",
	"PHY101": "General Physics I",
	"CHM101": "General Chemistry I",
	"BIO101": "General Biology I",
	"GST101": "Communication Skills",
	"ENG101": "Introduction to Engineering",
	"CSC101": "Introduction to Computing",
	"STA101": "Introduction to Statistics",
}

// CatalogCodes lists the catalog codes in a stable order, used for
// placeholder synthesis when OCR recognizes nothing.
var CatalogCodes = []string{"MTH101", "PHY101", "CHM101", "BIO101", "GST101", "ENG101", "CSC101", "STA101"}

// NormalizeGrade uppercases and trims a grade symbol.
func NormalizeGrade(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}

// PointFor returns the grade point for a symbol; unknown symbols score zero,
// matching the permissive draft-entry behaviour.
func PointFor(grade string) float64 {
	return GradePoints[NormalizeGrade(grade)]
}

// IsKnownGrade reports whether the symbol is one of the eight grades.
func IsKnownGrade(grade string) bool {
	_, ok := GradePoints[NormalizeGrade(grade)]
	return ok
}
