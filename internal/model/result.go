package model

// ResultSummary is the immutable outcome of one submitted session.
type ResultSummary struct {
	TestName        string  `json:"test_name"`
	Score           float64 `json:"score"`
	MaxScore        int     `json:"max_score"`
	Correct         int     `json:"correct"`
	Incorrect       int     `json:"incorrect"`
	Unattempted     int     `json:"unattempted"`
	AccuracyPercent float64 `json:"accuracy_percent"`
}

// ReviewEntry is the per-question correctness/status breakdown.
type ReviewEntry struct {
	Question      Question `json:"question"`
	UserAnswer    string   `json:"userAnswer,omitempty"`
	IsCorrect     bool     `json:"isCorrect"`
	IsUnattempted bool     `json:"isUnattempted"`
	IsMarked      bool     `json:"isMarked"`
}

// ReviewRecord lists one ReviewEntry per question in original test-set order.
type ReviewRecord struct {
	TestName string        `json:"testName"`
	Entries  []ReviewEntry `json:"entries"`
}
