package testset

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/sscprep/mocktest-backend/internal/model"
	"github.com/sscprep/mocktest-backend/internal/questionbank"
)

func bankOf(n int) *questionbank.Repository {
	categories := []string{"Mathematics", "English", "Reasoning"}
	questions := make([]model.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, model.Question{
			ID:            i,
			QuestionText:  fmt.Sprintf("Question %d", i),
			Options:       map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
			CorrectAnswer: "A",
			Category:      categories[i%len(categories)],
		})
	}
	return questionbank.NewRepository(questions)
}

func newBuilder(n int) *Builder {
	return NewBuilder(bankOf(n), rand.New(rand.NewSource(42)))
}

func assertNoDuplicates(t *testing.T, qs []model.Question) {
	t.Helper()
	seen := make(map[int]struct{}, len(qs))
	for _, q := range qs {
		if _, dup := seen[q.ID]; dup {
			t.Fatalf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
}

func TestRandomTest_Length(t *testing.T) {
	tests := []struct {
		name  string
		total int
		draw  int
		want  int
	}{
		{name: "normal draw", total: 50, draw: 10, want: 10},
		{name: "oversized draw capped", total: 7, draw: 10, want: 7},
		{name: "exact draw", total: 10, draw: 10, want: 10},
		{name: "empty bank", total: 0, draw: 10, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			set := newBuilder(tc.total).RandomTest(tc.draw, "")
			if set.Len() != tc.want {
				t.Errorf("RandomTest(%d) len = %d, want %d", tc.draw, set.Len(), tc.want)
			}
			assertNoDuplicates(t, set.Questions)
		})
	}
}

func TestRandomTest_Shuffles(t *testing.T) {
	b := NewBuilder(bankOf(100), rand.New(rand.NewSource(1)))

	first := b.RandomTest(100, "")
	different := false
	for i := 0; i < 10 && !different; i++ {
		next := b.RandomTest(100, "")
		for j := range next.Questions {
			if next.Questions[j].ID != first.Questions[j].ID {
				different = true
				break
			}
		}
	}
	if !different {
		t.Error("expected draws to differ in order across calls")
	}
}

func TestBuilder_ConcurrentDraws(t *testing.T) {
	b := newBuilder(90)

	distinct := func(qs []model.Question) bool {
		seen := make(map[int]struct{}, len(qs))
		for _, q := range qs {
			if _, dup := seen[q.ID]; dup {
				return false
			}
			seen[q.ID] = struct{}{}
		}
		return true
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				set := b.RandomTest(10, "")
				if set.Len() != 10 || !distinct(set.Questions) {
					t.Errorf("concurrent RandomTest draw corrupted: %d questions", set.Len())
					return
				}
				set = b.SubjectTest("Mathematics", 10)
				if set.Len() != 10 || !distinct(set.Questions) {
					t.Errorf("concurrent SubjectTest draw corrupted: %d questions", set.Len())
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSubjectTest_SubsetAndCap(t *testing.T) {
	b := newBuilder(90) // 30 per category
	set := b.SubjectTest("Mathematics", 20)

	if set.Len() != 20 {
		t.Fatalf("SubjectTest len = %d, want 20", set.Len())
	}
	if set.Category != "Mathematics" {
		t.Errorf("Category = %q, want Mathematics", set.Category)
	}
	for _, q := range set.Questions {
		if q.Category != "Mathematics" {
			t.Errorf("question %d category = %q, want Mathematics", q.ID, q.Category)
		}
	}
	assertNoDuplicates(t, set.Questions)

	// Oversized request silently caps at the category size.
	capped := b.SubjectTest("Mathematics", 500)
	if capped.Len() != 30 {
		t.Errorf("oversized SubjectTest len = %d, want 30", capped.Len())
	}

	// Unknown subject degrades to an empty set; callers refuse to start.
	if empty := b.SubjectTest("History", 10); !empty.IsEmpty() {
		t.Errorf("unknown subject len = %d, want 0", empty.Len())
	}
}

func TestSizesFor_FiltersByAvailability(t *testing.T) {
	b := newBuilder(90) // 30 per category

	sizes := b.SizesFor("Mathematics")
	want := []int{10, 20}
	if len(sizes) != len(want) {
		t.Fatalf("SizesFor = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("SizesFor[%d] = %d, want %d", i, sizes[i], want[i])
		}
	}

	if sizes := b.SizesFor("History"); len(sizes) != 0 {
		t.Errorf("SizesFor(unknown) = %v, want empty", sizes)
	}
}

func TestMockSets_PartitionIsExact(t *testing.T) {
	const total = 258
	b := newBuilder(total)

	sets := b.MockSets()
	if len(sets) != 2 {
		t.Fatalf("len(MockSets) = %d, want 2", len(sets))
	}

	seen := make(map[int]int)
	sum := 0
	for _, set := range sets {
		if set.Len() != QuestionsPerMockSet {
			t.Errorf("%s len = %d, want %d", set.Name, set.Len(), QuestionsPerMockSet)
		}
		sum += set.Len()
		for _, q := range set.Questions {
			seen[q.ID]++
		}
	}

	quick := b.QuickPractice()
	if quick.Len() != QuickPracticeCap {
		t.Errorf("QuickPractice len = %d, want %d", quick.Len(), QuickPracticeCap)
	}
	for _, q := range quick.Questions {
		seen[q.ID]++
	}
	sum += quick.Len()

	// No block overlaps another, and the remainder draws only from the
	// leftover slice.
	for id, count := range seen {
		if count > 1 {
			t.Errorf("question %d appears %d times across the partition", id, count)
		}
	}
	if want := 2*QuestionsPerMockSet + QuickPracticeCap; sum != want {
		t.Errorf("partition covers %d questions, want %d", sum, want)
	}
}

func TestMockSets_FixedForBuilderLifetime(t *testing.T) {
	b := newBuilder(250)

	first := b.MockSets()
	second := b.MockSets()
	for i := range first {
		for j := range first[i].Questions {
			if first[i].Questions[j].ID != second[i].Questions[j].ID {
				t.Fatal("mock sets changed between calls")
			}
		}
	}
}

func TestMockSets_Metadata(t *testing.T) {
	b := newBuilder(120)

	sets := b.MockSets()
	if len(sets) != 1 {
		t.Fatalf("len(MockSets) = %d, want 1", len(sets))
	}
	set := sets[0]

	if set.ID != "1" || set.Name != "Mock Test 01" {
		t.Errorf("meta = (%q, %q), want (1, Mock Test 01)", set.ID, set.Name)
	}
	if set.StartIndex != 1 || set.EndIndex != 100 {
		t.Errorf("range = [%d, %d], want [1, 100]", set.StartIndex, set.EndIndex)
	}
	for i := 1; i < len(set.Categories); i++ {
		if set.Categories[i-1] >= set.Categories[i] {
			t.Errorf("categories not sorted/deduplicated: %v", set.Categories)
		}
	}

	if _, ok := b.MockSet("1"); !ok {
		t.Error("MockSet(1) not found")
	}
	if _, ok := b.MockSet("99"); ok {
		t.Error("MockSet(99) unexpectedly found")
	}
}

func TestEmptyRepository(t *testing.T) {
	b := newBuilder(0)

	if len(b.MockSets()) != 0 {
		t.Errorf("MockSets on empty bank = %d sets, want 0", len(b.MockSets()))
	}
	if !b.QuickPractice().IsEmpty() {
		t.Error("QuickPractice on empty bank should be empty")
	}
	if !b.RandomTest(10, "").IsEmpty() {
		t.Error("RandomTest on empty bank should be empty")
	}
}
