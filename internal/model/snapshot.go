package model

import "strconv"

// SessionSnapshot is the persisted form of an in-progress session,
// written at session boundaries and consumed on resume.
type SessionSnapshot struct {
	TestSet              TestSet        `json:"testSet"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	UserAnswers          map[int]string `json:"userAnswers"`
	MarkedForReview      []int          `json:"markedForReview"`
	// TestStartTime is epoch milliseconds.
	TestStartTime int64 `json:"testStartTime"`
}

// ResultSnapshot is the persisted form of a ResultSummary. Accuracy is a
// formatted percentage value ("75.00").
type ResultSnapshot struct {
	TestName    string  `json:"testName"`
	Score       float64 `json:"score"`
	MaxScore    int     `json:"maxScore"`
	Correct     int     `json:"correct"`
	Incorrect   int     `json:"incorrect"`
	Unattempted int     `json:"unattempted"`
	Accuracy    string  `json:"accuracy"`
}

// NewResultSnapshot converts a ResultSummary into its persisted form.
func NewResultSnapshot(r ResultSummary) ResultSnapshot {
	return ResultSnapshot{
		TestName:    r.TestName,
		Score:       r.Score,
		MaxScore:    r.MaxScore,
		Correct:     r.Correct,
		Incorrect:   r.Incorrect,
		Unattempted: r.Unattempted,
		Accuracy:    strconv.FormatFloat(r.AccuracyPercent, 'f', 2, 64),
	}
}

// ReviewSnapshot is the persisted input of the review screen.
type ReviewSnapshot struct {
	TestName        string         `json:"testName"`
	Questions       []Question     `json:"questions"`
	UserAnswers     map[int]string `json:"userAnswers"`
	MarkedForReview []int          `json:"markedForReview"`
}

// ProgressRecord is the per-test incremental progress document, keyed by
// test-set identifier and superseded wholesale on every answer/mark change.
type ProgressRecord struct {
	Answers   map[int]string `json:"answers"`
	Marked    []int          `json:"marked"`
	Timestamp int64          `json:"timestamp"`
}
