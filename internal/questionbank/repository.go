package questionbank

import (
	"sort"

	"github.com/sscprep/mocktest-backend/internal/model"
)

// Repository holds the full question bank and its category index.
// It is read-only after construction.
type Repository struct {
	questions  []model.Question
	byCategory map[string][]model.Question
	categories []string
}

// NewRepository builds a repository from loaded questions. Questions with
// an empty category are indexed under model.DefaultCategory.
func NewRepository(questions []model.Question) *Repository {
	byCategory := make(map[string][]model.Question)
	for _, q := range questions {
		cat := q.Category
		if cat == "" {
			cat = model.DefaultCategory
		}
		byCategory[cat] = append(byCategory[cat], q)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	return &Repository{
		questions:  questions,
		byCategory: byCategory,
		categories: categories,
	}
}

// All returns a copy of every question in the bank.
func (r *Repository) All() []model.Question {
	out := make([]model.Question, len(r.questions))
	copy(out, r.questions)
	return out
}

// Len returns the total number of questions.
func (r *Repository) Len() int { return len(r.questions) }

// Categories returns all category names, sorted.
func (r *Repository) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// ByCategory returns a copy of the questions in the given category.
func (r *Repository) ByCategory(category string) []model.Question {
	qs := r.byCategory[category]
	out := make([]model.Question, len(qs))
	copy(out, qs)
	return out
}

// CategoryCount returns how many questions the category holds.
func (r *Repository) CategoryCount(category string) int {
	return len(r.byCategory[category])
}
