package models

import "time"

// OCRResult is the remote recognizer's response for an uploaded sheet.
type OCRResult struct {
	StudentName string        `json:"studentName"`
	RegNumber   string        `json:"regNumber"`
	Courses     []CourseEntry `json:"courses"`
}

// GenerationRequest is the snapshot sent to the rendering service. It is
// constructed at generation time and not retained.
type GenerationRequest struct {
	StudentInfo  StudentInfo   `json:"studentInfo"`
	Grades       []CourseEntry `json:"grades"`
	AveragePoint string        `json:"cgpa"`
	TotalUnits   string        `json:"totalCredits"`
	IsPremium    bool          `json:"isPremium"`
}

// GenerationResponse carries the rendered-result reference.
type GenerationResponse struct {
	ImageURL string `json:"imageUrl"`
}

// CurrentResult is the most recently generated result held by the gateway.
type CurrentResult struct {
	ImageURL    string    `json:"imageUrl"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// HistoryRecord is a read-only cached copy of a past generated result. The
// remote service owns these records.
type HistoryRecord struct {
	CreatedAt    time.Time   `json:"createdAt"`
	StudentInfo  StudentInfo `json:"studentInfo"`
	AveragePoint string      `json:"cgpa"`
	ImageURL     string      `json:"imageUrl"`
}
