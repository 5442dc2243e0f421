package model

import "sort"

// Question represents a single multiple-choice question from the bank.
// JSON tags match the master_questions.json source format.
type Question struct {
	ID            int               `json:"id"`
	QuestionText  string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correctAnswer"`
	Category      string            `json:"category"`
	Explanation   string            `json:"explanation,omitempty"`
}

// DefaultCategory is assigned to questions with a missing or empty category.
const DefaultCategory = "General"

// OptionKeys returns the question's option keys in display order (A, B, C, D…).
func (q Question) OptionKeys() []string {
	keys := make([]string, 0, len(q.Options))
	for k := range q.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasOption reports whether key is one of the question's option keys.
func (q Question) HasOption(key string) bool {
	_, ok := q.Options[key]
	return ok
}

// QuestionForCandidate is a question with the correct answer and explanation
// stripped, safe to send to the test-taker during an active session.
type QuestionForCandidate struct {
	ID           int               `json:"id"`
	QuestionText string            `json:"question"`
	Options      map[string]string `json:"options"`
	Category     string            `json:"category"`
}

// ForCandidate strips grading fields from a question.
func (q Question) ForCandidate() QuestionForCandidate {
	return QuestionForCandidate{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		Options:      q.Options,
		Category:     q.Category,
	}
}
