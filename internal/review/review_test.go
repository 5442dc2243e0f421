package review

import (
	"testing"

	"github.com/sscprep/mocktest-backend/internal/model"
)

func threeQuestionSet() model.TestSet {
	questions := make([]model.Question, 3)
	for i := range questions {
		questions[i] = model.Question{
			ID:            i + 1,
			QuestionText:  "q",
			Options:       map[string]string{"A": "a", "B": "b"},
			CorrectAnswer: "A",
			Explanation:   "because",
		}
	}
	return model.TestSet{ID: "t", Name: "Review Test", Questions: questions}
}

func TestProject(t *testing.T) {
	record := Project(threeQuestionSet(), map[int]string{0: "A", 1: "B"}, []int{1})

	if record.TestName != "Review Test" {
		t.Errorf("TestName = %q, want Review Test", record.TestName)
	}
	if len(record.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(record.Entries))
	}

	tests := []struct {
		idx         int
		answer      string
		correct     bool
		unattempted bool
		marked      bool
	}{
		{idx: 0, answer: "A", correct: true},
		{idx: 1, answer: "B", marked: true},
		{idx: 2, unattempted: true},
	}
	for _, tc := range tests {
		entry := record.Entries[tc.idx]
		if entry.UserAnswer != tc.answer {
			t.Errorf("entry %d UserAnswer = %q, want %q", tc.idx, entry.UserAnswer, tc.answer)
		}
		if entry.IsCorrect != tc.correct {
			t.Errorf("entry %d IsCorrect = %v, want %v", tc.idx, entry.IsCorrect, tc.correct)
		}
		if entry.IsUnattempted != tc.unattempted {
			t.Errorf("entry %d IsUnattempted = %v, want %v", tc.idx, entry.IsUnattempted, tc.unattempted)
		}
		if entry.IsMarked != tc.marked {
			t.Errorf("entry %d IsMarked = %v, want %v", tc.idx, entry.IsMarked, tc.marked)
		}
	}
}

func TestProject_PreservesOrder(t *testing.T) {
	record := Project(threeQuestionSet(), nil, nil)

	for i, entry := range record.Entries {
		if entry.Question.ID != i+1 {
			t.Errorf("entry %d question id = %d, want %d", i, entry.Question.ID, i+1)
		}
	}
}

func TestProject_EmptyAnswerIsAttempted(t *testing.T) {
	record := Project(threeQuestionSet(), map[int]string{0: ""}, nil)

	entry := record.Entries[0]
	if entry.IsUnattempted {
		t.Error("empty-string answer should not count as unattempted")
	}
	if entry.IsCorrect {
		t.Error("empty-string answer should not count as correct")
	}
}

func TestFromSnapshot(t *testing.T) {
	set := threeQuestionSet()
	record := FromSnapshot(model.ReviewSnapshot{
		TestName:        set.Name,
		Questions:       set.Questions,
		UserAnswers:     map[int]string{2: "A"},
		MarkedForReview: []int{0},
	})

	if record.TestName != set.Name {
		t.Errorf("TestName = %q, want %q", record.TestName, set.Name)
	}
	if !record.Entries[2].IsCorrect {
		t.Error("expected entry 2 correct")
	}
	if !record.Entries[0].IsMarked {
		t.Error("expected entry 0 marked")
	}
	if !record.Entries[1].IsUnattempted {
		t.Error("expected entry 1 unattempted")
	}
}
