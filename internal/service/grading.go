package service

import (
	"sheetgrader/internal/model"
	"time"

	"github.com/google/uuid"
)

// Scoring is the outcome of comparing a scan with an answer key
type Scoring struct {
	CorrectCount   int
	TotalQuestions int
	Score          float64
}

// Grade counts exact matches over questions 1..QuestionCount.
// A blank detection never matches, since keys hold letters. Never fails.
func Grade(scan model.ScanResult, key model.AnswerKey) Scoring {
	correct := 0
	for q := 1; q <= model.QuestionCount; q++ {
		expected, ok := key[q]
		if !ok || expected == model.ChoiceNone {
			continue
		}
		if scan.Answers[q] == expected {
			correct++
		}
	}
	return Scoring{
		CorrectCount:   correct,
		TotalQuestions: model.QuestionCount,
		Score:          float64(correct) / float64(model.QuestionCount) * 10,
	}
}

// Breakdown lists each question with the detected and expected choice
func Breakdown(scan model.ScanResult, key model.AnswerKey) []model.QuestionOutcome {
	rows := make([]model.QuestionOutcome, 0, model.QuestionCount)
	for q := 1; q <= model.QuestionCount; q++ {
		expected, ok := key[q]
		detected := scan.Answers[q]
		rows = append(rows, model.QuestionOutcome{
			Question: q,
			Detected: detected,
			Expected: expected,
			Correct:  ok && expected != model.ChoiceNone && detected == expected,
		})
	}
	return rows
}

// BandFor maps a score onto its display band
func BandFor(score float64) model.ScoreBand {
	switch {
	case score >= 8:
		return model.BandExcellent
	case score >= model.PassingScore:
		return model.BandPass
	default:
		return model.BandFail
	}
}

// NewGradedResult grades scan and stamps the result with an id and time
func NewGradedResult(scan model.ScanResult, key model.AnswerKey, now time.Time) model.GradedResult {
	s := Grade(scan, key)
	result := model.GradedResult{
		ID:             uuid.New().String(),
		ScanResult:     scan,
		Score:          s.Score,
		TotalQuestions: s.TotalQuestions,
		CorrectCount:   s.CorrectCount,
		Timestamp:      now,
	}
	return result.Clone()
}

// NewResultView builds the display form of a graded result
func NewResultView(result model.GradedResult, key model.AnswerKey) *model.ResultView {
	return &model.ResultView{
		Result:    result,
		Band:      BandFor(result.Score),
		Breakdown: Breakdown(result.ScanResult, key),
	}
}
