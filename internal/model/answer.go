package model

import "time"

// HistoryLimit caps the number of graded results kept in history
const HistoryLimit = 50

// ScanResult is what the recognition step reads off a sheet
type ScanResult struct {
	StudentID   string         `json:"studentId" bson:"studentId"`
	VariantCode string         `json:"variantCode" bson:"variantCode"`
	Answers     map[int]Choice `json:"answers" bson:"answers"`
}

// GradedResult is a ScanResult with its score. Immutable once created.
type GradedResult struct {
	ID         string `json:"id" bson:"_id"`
	ScanResult `bson:",inline"`

	Score          float64   `json:"score" bson:"score"` // 0-10, not rounded
	TotalQuestions int       `json:"totalQuestions" bson:"totalQuestions"`
	CorrectCount   int       `json:"correctCount" bson:"correctCount"`
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
}

// ScoreBand classifies a score for display
type ScoreBand string

const (
	BandExcellent ScoreBand = "excellent" // >= 8
	BandPass      ScoreBand = "pass"      // >= 5
	BandFail      ScoreBand = "fail"
)

// PassingScore is the lowest score counted as passed
const PassingScore = 5.0

// QuestionOutcome is one row of a per-question breakdown
type QuestionOutcome struct {
	Question int    `json:"question"`
	Detected Choice `json:"detected"`
	Expected Choice `json:"expected"`
	Correct  bool   `json:"correct"`
}

// ResultView is the current result as shown to the user
type ResultView struct {
	Result    GradedResult      `json:"result"`
	Band      ScoreBand         `json:"band"`
	Breakdown []QuestionOutcome `json:"breakdown"`
}

// HistorySummary aggregates the history list
type HistorySummary struct {
	Count        int     `json:"count"`
	AverageScore float64 `json:"averageScore"`
	Passed       int     `json:"passed"`
}

// Clone returns a copy that shares no maps with r
func (r GradedResult) Clone() GradedResult {
	answers := make(map[int]Choice, len(r.Answers))
	for q, c := range r.Answers {
		answers[q] = c
	}
	r.Answers = answers
	return r
}
