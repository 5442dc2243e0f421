package session

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/sscprep/mocktest-backend/internal/model"
)

// Status enumerates session lifecycle states.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusSubmitted  Status = "SUBMITTED"
)

// DefaultDurationSeconds is the fixed session length unless configured
// otherwise (60 minutes).
const DefaultDurationSeconds = 3600

// State is the mutable core of one test attempt: current question,
// answers, review marks and the timer anchor. All mutations are valid
// only while the session is in progress; submission is terminal.
type State struct {
	testSet      model.TestSet
	currentIndex int
	answers      map[int]string
	marked       map[int]struct{}
	startedAt    time.Time
	duration     time.Duration
	status       Status
}

// New creates an in-progress session over the test set: index 0, no
// answers, no marks, start anchored at now.
func New(testSet model.TestSet, durationSeconds int, now time.Time) (*State, error) {
	if testSet.IsEmpty() {
		return nil, ErrEmptyTestSet
	}
	if durationSeconds <= 0 {
		durationSeconds = DefaultDurationSeconds
	}
	return &State{
		testSet:  testSet,
		answers:  make(map[int]string),
		marked:   make(map[int]struct{}),
		// Truncate to milliseconds so the state survives a snapshot
		// round trip unchanged.
		startedAt: now.Truncate(time.Millisecond),
		duration:  time.Duration(durationSeconds) * time.Second,
		status:    StatusInProgress,
	}, nil
}

// Restore rebuilds an in-progress session from a persisted snapshot.
func Restore(raw []byte, durationSeconds int) (*State, error) {
	if len(raw) == 0 {
		return nil, ErrSnapshotMissing
	}

	var snap model.SessionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, ErrSnapshotCorrupt
	}
	return FromSnapshot(snap, durationSeconds)
}

// FromSnapshot rebuilds a session from an already-decoded snapshot.
func FromSnapshot(snap model.SessionSnapshot, durationSeconds int) (*State, error) {
	if snap.TestSet.IsEmpty() {
		return nil, ErrSnapshotCorrupt
	}
	if durationSeconds <= 0 {
		durationSeconds = DefaultDurationSeconds
	}

	st := &State{
		testSet:   snap.TestSet,
		answers:   make(map[int]string, len(snap.UserAnswers)),
		marked:    make(map[int]struct{}, len(snap.MarkedForReview)),
		startedAt: time.UnixMilli(snap.TestStartTime),
		duration:  time.Duration(durationSeconds) * time.Second,
		status:    StatusInProgress,
	}
	if snap.TestStartTime == 0 {
		st.startedAt = time.Now().Truncate(time.Millisecond)
	}
	for idx, key := range snap.UserAnswers {
		if idx >= 0 && idx < snap.TestSet.Len() {
			st.answers[idx] = key
		}
	}
	for _, idx := range snap.MarkedForReview {
		if idx >= 0 && idx < snap.TestSet.Len() {
			st.marked[idx] = struct{}{}
		}
	}
	if snap.CurrentQuestionIndex >= 0 && snap.CurrentQuestionIndex < snap.TestSet.Len() {
		st.currentIndex = snap.CurrentQuestionIndex
	}
	return st, nil
}

// TestSet returns the session's immutable test set.
func (s *State) TestSet() model.TestSet { return s.testSet }

// Status returns the lifecycle state.
func (s *State) Status() Status { return s.status }

// CurrentIndex returns the index of the question in view.
func (s *State) CurrentIndex() int { return s.currentIndex }

// StartedAt returns the session's fixed start instant.
func (s *State) StartedAt() time.Time { return s.startedAt }

// Deadline returns the absolute instant at which time runs out.
func (s *State) Deadline() time.Time { return s.startedAt.Add(s.duration) }

// RecordAnswer stores optionKey as the answer for the question at index,
// overwriting any prior answer. The key must be one of the question's
// option keys.
func (s *State) RecordAnswer(index int, optionKey string) error {
	if s.status == StatusSubmitted {
		return ErrSessionSubmitted
	}
	if index < 0 || index >= s.testSet.Len() {
		return ErrIndexOutOfRange
	}
	if !s.testSet.Questions[index].HasOption(optionKey) {
		return ErrInvalidOption
	}
	s.answers[index] = optionKey
	return nil
}

// ToggleMark flips the marked-for-review membership of index.
func (s *State) ToggleMark(index int) error {
	if s.status == StatusSubmitted {
		return ErrSessionSubmitted
	}
	if index < 0 || index >= s.testSet.Len() {
		return ErrIndexOutOfRange
	}
	if _, ok := s.marked[index]; ok {
		delete(s.marked, index)
	} else {
		s.marked[index] = struct{}{}
	}
	return nil
}

// Navigate moves the current index. Out-of-range targets are a no-op;
// navigation never requires the current question to be answered.
func (s *State) Navigate(toIndex int) error {
	if s.status == StatusSubmitted {
		return ErrSessionSubmitted
	}
	if toIndex >= 0 && toIndex < s.testSet.Len() {
		s.currentIndex = toIndex
	}
	return nil
}

// RemainingSeconds derives the time left from the wall clock, never
// negative and independent of how often it is polled.
func (s *State) RemainingSeconds(now time.Time) int {
	remaining := s.Deadline().Sub(now)
	if remaining < 0 {
		return 0
	}
	return int(remaining / time.Second)
}

// Submit transitions the session to its terminal state. A second call
// fails, which is what makes timer-forced submission fire exactly once.
func (s *State) Submit() error {
	if s.status == StatusSubmitted {
		return ErrSessionSubmitted
	}
	s.status = StatusSubmitted
	return nil
}

// Answer returns the recorded answer for index and whether one exists.
func (s *State) Answer(index int) (string, bool) {
	key, ok := s.answers[index]
	return key, ok
}

// Answers returns a copy of the answer map.
func (s *State) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// IsMarked reports whether index is marked for review.
func (s *State) IsMarked(index int) bool {
	_, ok := s.marked[index]
	return ok
}

// Marked returns the marked indices in ascending order.
func (s *State) Marked() []int {
	out := make([]int, 0, len(s.marked))
	for idx := range s.marked {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Snapshot produces the persisted form of the session.
func (s *State) Snapshot() model.SessionSnapshot {
	return model.SessionSnapshot{
		TestSet:              s.testSet,
		CurrentQuestionIndex: s.currentIndex,
		UserAnswers:          s.Answers(),
		MarkedForReview:      s.Marked(),
		TestStartTime:        s.startedAt.UnixMilli(),
	}
}

// Progress produces the per-test incremental progress record.
func (s *State) Progress(now time.Time) model.ProgressRecord {
	return model.ProgressRecord{
		Answers:   s.Answers(),
		Marked:    s.Marked(),
		Timestamp: now.UnixMilli(),
	}
}
