package service

import (
	"github.com/rs/zerolog"
	"github.com/sscprep/mocktest-backend/internal/model"
	"github.com/sscprep/mocktest-backend/internal/questionbank"
	"github.com/sscprep/mocktest-backend/internal/testset"
)

// TestService exposes the question bank and the fixed mock-set catalog.
type TestService struct {
	repo    *questionbank.Repository
	builder *testset.Builder
	log     zerolog.Logger
}

// NewTestService creates a new TestService.
func NewTestService(repo *questionbank.Repository, builder *testset.Builder, log zerolog.Logger) *TestService {
	return &TestService{
		repo:    repo,
		builder: builder,
		log:     log.With().Str("component", "test_service").Logger(),
	}
}

// SubjectInfo describes one category for the subject selection screen.
// Sizes is the test-size menu pre-filtered by availability.
type SubjectInfo struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
	Sizes         []int  `json:"sizes"`
}

// Subjects lists all categories with their availability-filtered size menus.
func (s *TestService) Subjects() []SubjectInfo {
	categories := s.repo.Categories()
	subjects := make([]SubjectInfo, 0, len(categories))
	for _, cat := range categories {
		subjects = append(subjects, SubjectInfo{
			Name:          cat,
			QuestionCount: s.repo.CategoryCount(cat),
			Sizes:         s.builder.SizesFor(cat),
		})
	}
	return subjects
}

// MockSets returns metadata for the fixed 100-question mock sets.
func (s *TestService) MockSets() []model.TestSetMeta {
	sets := s.builder.MockSets()
	metas := make([]model.TestSetMeta, 0, len(sets))
	for _, set := range sets {
		metas = append(metas, set.Meta())
	}
	return metas
}

// QuickPractice returns metadata for the leftover quick-practice set.
func (s *TestService) QuickPractice() model.TestSetMeta {
	return s.builder.QuickPractice().Meta()
}

// TotalQuestions returns the size of the loaded bank.
func (s *TestService) TotalQuestions() int {
	return s.repo.Len()
}
