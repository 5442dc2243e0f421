// Package scoring computes the result summary of a submitted session.
// Marking scheme: +2 per correct answer, −0.5 per incorrect answer, no
// penalty for unattempted questions.
package scoring

import (
	"math"

	"github.com/sscprep/mocktest-backend/internal/model"
)

const (
	PointsPerCorrect    = 2.0
	PenaltyPerIncorrect = 0.5
)

// Score is a pure function from a test set and its answers to a result
// summary. A question with no answer entry is unattempted; an entry equal
// to the correct key is correct; anything else is incorrect.
func Score(testSet model.TestSet, answers map[int]string) model.ResultSummary {
	var correct, incorrect, unattempted int

	for i, q := range testSet.Questions {
		answer, ok := answers[i]
		switch {
		case !ok:
			unattempted++
		case answer == q.CorrectAnswer:
			correct++
		default:
			incorrect++
		}
	}

	score := float64(correct)*PointsPerCorrect - float64(incorrect)*PenaltyPerIncorrect

	attempted := correct + incorrect
	var accuracy float64
	if attempted > 0 {
		accuracy = round2(float64(correct) / float64(attempted) * 100)
	}

	return model.ResultSummary{
		TestName:        testSet.Name,
		Score:           score,
		MaxScore:        testSet.Len() * 2,
		Correct:         correct,
		Incorrect:       incorrect,
		Unattempted:     unattempted,
		AccuracyPercent: accuracy,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
