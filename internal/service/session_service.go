package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sscprep/mocktest-backend/internal/model"
	"github.com/sscprep/mocktest-backend/internal/review"
	"github.com/sscprep/mocktest-backend/internal/scoring"
	"github.com/sscprep/mocktest-backend/internal/session"
	"github.com/sscprep/mocktest-backend/internal/store"
	"github.com/sscprep/mocktest-backend/internal/testset"
	"github.com/sscprep/mocktest-backend/internal/timer"
)

var (
	// ErrNoActiveSession is returned when a session operation arrives
	// while no test is in progress.
	ErrNoActiveSession = errors.New("no active session")
	// ErrTestSetNotFound is returned for an unknown mock set id.
	ErrTestSetNotFound = errors.New("test set not found")
)

// TimerEvent is pushed to countdown stream subscribers every tick and
// once more when the session ends.
type TimerEvent struct {
	RemainingSeconds int
	Submitted        bool
	Forced           bool
}

// SessionService owns the single active test session, the persistence
// gateway and the countdown. All session access is serialized through
// its mutex, so the state machine itself needs no locking.
type SessionService struct {
	builder  *testset.Builder
	gw       store.Gateway
	timer    *timer.Controller
	duration time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu          sync.Mutex
	state       *session.State
	subscribers map[int]chan TimerEvent
	nextSubID   int
}

// NewSessionService creates a SessionService. duration is the fixed
// per-session countdown.
func NewSessionService(
	builder *testset.Builder,
	gw store.Gateway,
	tc *timer.Controller,
	duration time.Duration,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		builder:     builder,
		gw:          gw,
		timer:       tc,
		duration:    duration,
		log:         log.With().Str("component", "session_service").Logger(),
		now:         time.Now,
		subscribers: make(map[int]chan TimerEvent),
	}
}

// ─── Session start ──────────────────────────────────────────────────

// StartRandom begins a session over a random draw from the whole bank.
func (s *SessionService) StartRandom(ctx context.Context, size int) (*StateView, error) {
	var name string
	switch size {
	case 10:
		name = "Quick Test - 10 Q"
	case 20:
		name = "Quick Practice - 20 Q"
	default:
		name = fmt.Sprintf("Random Test - %d Q", size)
	}
	return s.start(ctx, s.builder.RandomTest(size, name))
}

// StartSubject begins a session over a category draw, capped at the
// category's available count.
func (s *SessionService) StartSubject(ctx context.Context, subject string, size int) (*StateView, error) {
	return s.start(ctx, s.builder.SubjectTest(subject, size))
}

// StartMock begins a session over a fixed mock-set partition block.
func (s *SessionService) StartMock(ctx context.Context, id string) (*StateView, error) {
	set, ok := s.builder.MockSet(id)
	if !ok {
		return nil, ErrTestSetNotFound
	}
	return s.start(ctx, set)
}

// StartQuickPractice begins a session over the partition remainder.
func (s *SessionService) StartQuickPractice(ctx context.Context) (*StateView, error) {
	return s.start(ctx, s.builder.QuickPractice())
}

func (s *SessionService) start(ctx context.Context, set model.TestSet) (*StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := session.New(set, int(s.duration/time.Second), s.now())
	if err != nil {
		return nil, err
	}

	// Any previous session is abandoned; its timer must not outlive it.
	s.timer.Stop()
	s.state = st

	if err := s.persistSnapshot(ctx); err != nil {
		return nil, err
	}
	s.armTimer(st)

	s.log.Info().
		Str("test_set_id", set.ID).
		Str("test_name", set.Name).
		Int("questions", set.Len()).
		Msg("Session started")

	return s.viewLocked(), nil
}

// Resume rebuilds the session from its persisted snapshot, overlaying
// any per-test progress record, and re-arms the countdown against the
// original start instant. A session whose time already ran out is
// submitted immediately.
func (s *SessionService) Resume(ctx context.Context) (*StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, found, err := s.gw.Get(ctx, store.Key.CurrentSession())
	if err != nil {
		return nil, fmt.Errorf("read session snapshot: %w", err)
	}
	if !found {
		return nil, session.ErrSnapshotMissing
	}

	st, err := session.Restore([]byte(raw), int(s.duration/time.Second))
	if err != nil {
		return nil, err
	}
	s.overlayProgress(ctx, st)

	s.timer.Stop()
	s.state = st

	if st.RemainingSeconds(s.now()) == 0 {
		s.log.Info().Msg("Resumed session already expired, submitting")
		if _, err := s.submitLocked(ctx, true); err != nil {
			return nil, err
		}
		return nil, session.ErrSessionSubmitted
	}

	s.armTimer(st)
	s.log.Info().
		Str("test_set_id", st.TestSet().ID).
		Int("remaining_seconds", st.RemainingSeconds(s.now())).
		Msg("Session resumed")

	return s.viewLocked(), nil
}

// overlayProgress applies the newer per-test progress record, if any.
// The record supersedes the snapshot's answers and marks wholesale.
// Mock-set ids repeat across restarts with a different shuffle, so a
// record written before this session started belongs to an earlier
// attempt and must not be applied.
func (s *SessionService) overlayProgress(ctx context.Context, st *session.State) {
	raw, found, err := s.gw.Get(ctx, store.Key.Progress(st.TestSet().ID))
	if err != nil || !found {
		return
	}
	var rec model.ProgressRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.log.Warn().Err(err).Msg("Ignoring corrupt progress record")
		return
	}
	if rec.Timestamp < st.StartedAt().UnixMilli() {
		s.log.Warn().
			Int64("record_ts", rec.Timestamp).
			Int64("session_start", st.StartedAt().UnixMilli()).
			Msg("Ignoring progress record from an earlier attempt")
		return
	}
	for idx, key := range rec.Answers {
		if err := st.RecordAnswer(idx, key); err != nil {
			s.log.Warn().Int("index", idx).Err(err).Msg("Skipping stale progress answer")
		}
	}
	for _, idx := range rec.Marked {
		if !st.IsMarked(idx) {
			_ = st.ToggleMark(idx)
		}
	}
}

// ─── Session mutations ──────────────────────────────────────────────

// Answer records optionKey for the question at index.
func (s *SessionService) Answer(ctx context.Context, index int, optionKey string) (*StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, ErrNoActiveSession
	}
	if err := s.state.RecordAnswer(index, optionKey); err != nil {
		return nil, err
	}
	s.persistProgress(ctx)
	return s.viewLocked(), nil
}

// Mark flips the marked-for-review flag of the question at index.
func (s *SessionService) Mark(ctx context.Context, index int) (*StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, ErrNoActiveSession
	}
	if err := s.state.ToggleMark(index); err != nil {
		return nil, err
	}
	s.persistProgress(ctx)
	return s.viewLocked(), nil
}

// Navigate moves the current question. Out-of-range targets are a no-op.
func (s *SessionService) Navigate(ctx context.Context, index int) (*StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, ErrNoActiveSession
	}
	if err := s.state.Navigate(index); err != nil {
		return nil, err
	}
	if err := s.persistSnapshot(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Snapshot write failed")
	}
	return s.viewLocked(), nil
}

// State returns the current session projection.
func (s *SessionService) State() (*StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, ErrNoActiveSession
	}
	return s.viewLocked(), nil
}

// ─── Submission ─────────────────────────────────────────────────────

// Submit ends the session on the user's request and returns the result.
func (s *SessionService) Submit(ctx context.Context) (model.ResultSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return model.ResultSummary{}, ErrNoActiveSession
	}
	return s.submitLocked(ctx, false)
}

// submitLocked scores and projects the session, persists the result and
// review snapshots, discards the session and stops the countdown.
func (s *SessionService) submitLocked(ctx context.Context, forced bool) (model.ResultSummary, error) {
	st := s.state
	if err := st.Submit(); err != nil {
		return model.ResultSummary{}, err
	}

	set := st.TestSet()
	answers := st.Answers()
	marked := st.Marked()

	summary := scoring.Score(set, answers)

	resultDoc, _ := json.Marshal(model.NewResultSnapshot(summary))
	if err := s.gw.Set(ctx, store.Key.LatestResult(), string(resultDoc)); err != nil {
		s.log.Error().Err(err).Msg("Result snapshot write failed")
	}

	reviewDoc, _ := json.Marshal(model.ReviewSnapshot{
		TestName:        set.Name,
		Questions:       set.Questions,
		UserAnswers:     answers,
		MarkedForReview: marked,
	})
	if err := s.gw.Set(ctx, store.Key.LatestReview(), string(reviewDoc)); err != nil {
		s.log.Error().Err(err).Msg("Review snapshot write failed")
	}

	if err := s.gw.Delete(ctx, store.Key.CurrentSession()); err != nil {
		s.log.Warn().Err(err).Msg("Session snapshot delete failed")
	}
	if err := s.gw.Delete(ctx, store.Key.Progress(set.ID)); err != nil {
		s.log.Warn().Err(err).Msg("Progress record delete failed")
	}

	s.timer.Stop()
	s.state = nil
	s.broadcast(TimerEvent{Submitted: true, Forced: forced})

	s.log.Info().
		Str("test_name", summary.TestName).
		Float64("score", summary.Score).
		Int("correct", summary.Correct).
		Int("incorrect", summary.Incorrect).
		Int("unattempted", summary.Unattempted).
		Bool("forced", forced).
		Msg("Session submitted")

	return summary, nil
}

// expire is the timer's forced-submission path. The target guard makes a
// stale timer harmless if a new session replaced its own.
func (s *SessionService) expire(target *session.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil || s.state != target {
		return
	}
	if _, err := s.submitLocked(context.Background(), true); err != nil {
		s.log.Error().Err(err).Msg("Forced submission failed")
	}
}

// ─── Results & review readback ──────────────────────────────────────

// LatestResult returns the most recent persisted result snapshot.
func (s *SessionService) LatestResult(ctx context.Context) (model.ResultSnapshot, error) {
	var snap model.ResultSnapshot
	err := s.readSnapshot(ctx, store.Key.LatestResult(), &snap)
	return snap, err
}

// LatestReview returns the review projection of the most recent submission.
func (s *SessionService) LatestReview(ctx context.Context) (model.ReviewRecord, error) {
	var snap model.ReviewSnapshot
	if err := s.readSnapshot(ctx, store.Key.LatestReview(), &snap); err != nil {
		return model.ReviewRecord{}, err
	}
	return review.FromSnapshot(snap), nil
}

func (s *SessionService) readSnapshot(ctx context.Context, key string, dst interface{}) error {
	raw, found, err := s.gw.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !found {
		return session.ErrSnapshotMissing
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return session.ErrSnapshotCorrupt
	}
	return nil
}

// ─── Countdown stream ───────────────────────────────────────────────

// Subscribe registers a countdown listener. The returned id is passed to
// Unsubscribe when the listener goes away.
func (s *SessionService) Subscribe() (int, <-chan TimerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan TimerEvent, 8)
	s.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a countdown listener.
func (s *SessionService) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

// broadcast delivers an event to all subscribers without blocking; a
// slow consumer just misses ticks.
func (s *SessionService) broadcast(ev TimerEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *SessionService) armTimer(st *session.State) {
	s.timer.Start(st.Deadline(),
		func(remaining int) {
			s.mu.Lock()
			if s.state == st {
				s.broadcast(TimerEvent{RemainingSeconds: remaining})
			}
			s.mu.Unlock()
		},
		func() { s.expire(st) },
	)
}

// Close stops the countdown. Called on shutdown.
func (s *SessionService) Close() {
	s.timer.Stop()
}

// ─── Persistence helpers ────────────────────────────────────────────

func (s *SessionService) persistSnapshot(ctx context.Context) error {
	doc, err := json.Marshal(s.state.Snapshot())
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}
	if err := s.gw.Set(ctx, store.Key.CurrentSession(), string(doc)); err != nil {
		return fmt.Errorf("write session snapshot: %w", err)
	}
	return nil
}

// persistProgress writes the session snapshot and the per-test progress
// record. Progress writes are fire-and-forget: a failure is logged, the
// in-memory session stays authoritative.
func (s *SessionService) persistProgress(ctx context.Context) {
	if err := s.persistSnapshot(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Snapshot write failed")
	}

	doc, _ := json.Marshal(s.state.Progress(s.now()))
	if err := s.gw.Set(ctx, store.Key.Progress(s.state.TestSet().ID), string(doc)); err != nil {
		s.log.Warn().Err(err).Msg("Progress write failed")
	}
}
