package session

import "errors"

var (
	// ErrEmptyTestSet is returned when a session is created over a test
	// set with no questions.
	ErrEmptyTestSet = errors.New("test set has no questions")

	// ErrSessionSubmitted is returned when a mutation is attempted on a
	// submitted (terminal) session. Under correct sequencing this is a
	// programming-contract violation.
	ErrSessionSubmitted = errors.New("session already submitted")

	// ErrInvalidOption is returned when an answer key is not among the
	// question's option keys. The mutation is rejected, state unchanged.
	ErrInvalidOption = errors.New("option key not valid for question")

	// ErrIndexOutOfRange is returned when an answer or mark targets a
	// question index outside the test set.
	ErrIndexOutOfRange = errors.New("question index out of range")

	// ErrSnapshotMissing is returned when no persisted session snapshot
	// exists. Callers redirect to a safe default screen, never crash.
	ErrSnapshotMissing = errors.New("session snapshot missing")

	// ErrSnapshotCorrupt is returned when a persisted snapshot cannot be
	// decoded or lacks its test set.
	ErrSnapshotCorrupt = errors.New("session snapshot corrupt")
)
