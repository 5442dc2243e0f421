// Package review projects a finished session into a per-question
// correctness breakdown, preserving original test-set order.
package review

import (
	"github.com/sscprep/mocktest-backend/internal/model"
)

// Project is a pure function from a test set, its answers and its review
// marks to a ReviewRecord. A question is unattempted only when the answer
// map has no entry for its index; an explicit empty-string key still
// counts as attempted.
func Project(testSet model.TestSet, answers map[int]string, marked []int) model.ReviewRecord {
	markedSet := make(map[int]struct{}, len(marked))
	for _, idx := range marked {
		markedSet[idx] = struct{}{}
	}

	entries := make([]model.ReviewEntry, 0, testSet.Len())
	for i, q := range testSet.Questions {
		answer, attempted := answers[i]
		_, isMarked := markedSet[i]

		entries = append(entries, model.ReviewEntry{
			Question:      q,
			UserAnswer:    answer,
			IsCorrect:     attempted && answer == q.CorrectAnswer,
			IsUnattempted: !attempted,
			IsMarked:      isMarked,
		})
	}

	return model.ReviewRecord{
		TestName: testSet.Name,
		Entries:  entries,
	}
}

// FromSnapshot projects a persisted review snapshot.
func FromSnapshot(snap model.ReviewSnapshot) model.ReviewRecord {
	record := Project(model.TestSet{
		Name:      snap.TestName,
		Questions: snap.Questions,
	}, snap.UserAnswers, snap.MarkedForReview)
	return record
}
