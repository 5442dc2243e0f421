package model

// TestSet is an immutable ordered selection of questions forming one
// session's content.
type TestSet struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
	// Category is set for subject-wise tests only.
	Category string `json:"category,omitempty"`
	// Categories lists the sorted, deduplicated categories of a mock set.
	Categories []string `json:"categories,omitempty"`
	// StartIndex/EndIndex are the 1-based bounds of a mock set's slice
	// within the shuffled bank, for display purposes.
	StartIndex int `json:"startIndex,omitempty"`
	EndIndex   int `json:"endIndex,omitempty"`
}

// Len returns the number of questions in the set.
func (ts TestSet) Len() int { return len(ts.Questions) }

// IsEmpty reports whether the set contains no questions.
func (ts TestSet) IsEmpty() bool { return len(ts.Questions) == 0 }

// TestSetMeta is a TestSet without its questions, used for listings.
type TestSetMeta struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	QuestionCount int      `json:"question_count"`
	Categories    []string `json:"categories,omitempty"`
	StartIndex    int      `json:"start_index,omitempty"`
	EndIndex      int      `json:"end_index,omitempty"`
}

// Meta returns the listing projection of the set.
func (ts TestSet) Meta() TestSetMeta {
	return TestSetMeta{
		ID:            ts.ID,
		Name:          ts.Name,
		QuestionCount: len(ts.Questions),
		Categories:    ts.Categories,
		StartIndex:    ts.StartIndex,
		EndIndex:      ts.EndIndex,
	}
}
