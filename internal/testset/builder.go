package testset

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/sscprep/mocktest-backend/internal/model"
	"github.com/sscprep/mocktest-backend/internal/questionbank"
)

const (
	// QuestionsPerMockSet is the block size of the fixed mock partition.
	QuestionsPerMockSet = 100
	// QuickPracticeCap limits the leftover quick-practice set.
	QuickPracticeCap = 20
)

// subjectSizes is the size menu offered for subject-wise tests; sizes
// exceeding the category's question count are omitted.
var subjectSizes = []int{10, 20, 50, 100}

// Builder produces TestSets from a question repository. The mock-set
// partition is shuffled once at construction and stays fixed for the
// builder's lifetime. Draws are safe for concurrent use; the mutex
// serializes access to the shared rng.
type Builder struct {
	repo          *questionbank.Repository
	mu            sync.Mutex
	rng           *rand.Rand
	mockSets      []model.TestSet
	quickPractice model.TestSet
}

// NewBuilder creates a Builder over the repository. A nil rng falls back
// to a time-seeded source.
func NewBuilder(repo *questionbank.Repository, rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b := &Builder{repo: repo, rng: rng}
	b.partitionMockSets()
	return b
}

// RandomTest draws min(n, total) distinct questions from the whole bank.
func (b *Builder) RandomTest(n int, name string) model.TestSet {
	questions := b.repo.All()
	b.shuffle(questions)

	if n > len(questions) {
		n = len(questions)
	}
	if name == "" {
		name = fmt.Sprintf("Quick Test - %d Q", n)
	}

	return model.TestSet{
		ID:        fmt.Sprintf("rand_%d_%d", n, time.Now().UnixMilli()),
		Name:      name,
		Questions: questions[:n],
	}
}

// SubjectTest draws min(size, available) distinct questions from one
// category. Oversized requests are silently capped.
func (b *Builder) SubjectTest(subject string, size int) model.TestSet {
	questions := b.repo.ByCategory(subject)
	b.shuffle(questions)

	if size > len(questions) {
		size = len(questions)
	}

	return model.TestSet{
		ID:        fmt.Sprintf("%s_%d_%d", subject, size, time.Now().UnixMilli()),
		Name:      fmt.Sprintf("%s Test - %d Questions", subject, size),
		Questions: questions[:size],
		Category:  subject,
	}
}

// SizesFor returns the subject size menu filtered by availability.
func (b *Builder) SizesFor(subject string) []int {
	available := b.repo.CategoryCount(subject)
	var sizes []int
	for _, sz := range subjectSizes {
		if available >= sz {
			sizes = append(sizes, sz)
		}
	}
	return sizes
}

// MockSets returns the fixed 100-question partition blocks.
func (b *Builder) MockSets() []model.TestSet {
	return b.mockSets
}

// MockSet returns the mock set with the given id, if it exists.
func (b *Builder) MockSet(id string) (model.TestSet, bool) {
	for _, set := range b.mockSets {
		if set.ID == id {
			return set, true
		}
	}
	return model.TestSet{}, false
}

// QuickPractice returns the leftover remainder set (≤ QuickPracticeCap).
func (b *Builder) QuickPractice() model.TestSet {
	return b.quickPractice
}

// partitionMockSets shuffles the entire bank once and slices it into
// consecutive non-overlapping blocks plus a capped remainder.
func (b *Builder) partitionMockSets() {
	shuffled := b.repo.All()
	b.shuffle(shuffled)

	totalSets := len(shuffled) / QuestionsPerMockSet
	b.mockSets = make([]model.TestSet, 0, totalSets)

	for i := 0; i < totalSets; i++ {
		start := i * QuestionsPerMockSet
		end := start + QuestionsPerMockSet
		qs := shuffled[start:end]

		b.mockSets = append(b.mockSets, model.TestSet{
			ID:         fmt.Sprintf("%d", i+1),
			Name:       fmt.Sprintf("Mock Test %02d", i+1),
			Questions:  qs,
			Categories: distinctCategories(qs),
			StartIndex: start + 1,
			EndIndex:   end,
		})
	}

	remainder := shuffled[totalSets*QuestionsPerMockSet:]
	if len(remainder) > QuickPracticeCap {
		remainder = remainder[:QuickPracticeCap]
	}
	b.quickPractice = model.TestSet{
		ID:         "quick",
		Name:       "Quick Practice",
		Questions:  remainder,
		Categories: distinctCategories(remainder),
	}
}

// shuffle is a Fisher–Yates shuffle: for i from the last index down to 1,
// swap element i with a uniformly random element in [0, i]. *rand.Rand is
// not safe for concurrent use, so the rng is guarded here.
func (b *Builder) shuffle(qs []model.Question) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(qs) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

func distinctCategories(qs []model.Question) []string {
	seen := make(map[string]struct{})
	for _, q := range qs {
		cat := q.Category
		if cat == "" {
			cat = model.DefaultCategory
		}
		seen[cat] = struct{}{}
	}
	cats := make([]string, 0, len(seen))
	for cat := range seen {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}
