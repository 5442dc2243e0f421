package service

import (
	"github.com/sscprep/mocktest-backend/internal/model"
)

// PaletteItem is the per-question status behind the palette grid.
type PaletteItem struct {
	Index    int  `json:"index"`
	Answered bool `json:"answered"`
	Marked   bool `json:"marked"`
	Current  bool `json:"current"`
}

// StateView is the session projection handed to presentation: the
// question in view (grading fields stripped), palette statuses and the
// remaining time.
type StateView struct {
	TestSetID        string                     `json:"test_set_id"`
	TestName         string                     `json:"test_name"`
	QuestionCount    int                        `json:"question_count"`
	CurrentIndex     int                        `json:"current_index"`
	Question         model.QuestionForCandidate `json:"question"`
	SelectedOption   string                     `json:"selected_option,omitempty"`
	Palette          []PaletteItem              `json:"palette"`
	RemainingSeconds int                        `json:"remaining_seconds"`
}

// viewLocked builds the StateView. Callers hold s.mu.
func (s *SessionService) viewLocked() *StateView {
	st := s.state
	set := st.TestSet()
	current := st.CurrentIndex()

	palette := make([]PaletteItem, set.Len())
	for i := range palette {
		_, answered := st.Answer(i)
		palette[i] = PaletteItem{
			Index:    i,
			Answered: answered,
			Marked:   st.IsMarked(i),
			Current:  i == current,
		}
	}

	selected, _ := st.Answer(current)

	return &StateView{
		TestSetID:        set.ID,
		TestName:         set.Name,
		QuestionCount:    set.Len(),
		CurrentIndex:     current,
		Question:         set.Questions[current].ForCandidate(),
		SelectedOption:   selected,
		Palette:          palette,
		RemainingSeconds: st.RemainingSeconds(s.now()),
	}
}
