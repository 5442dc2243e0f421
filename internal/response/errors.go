package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Test building ─────────────────────────────────────────────────
	ErrUnknownSubject ErrCode = "UNKNOWN_SUBJECT"
	ErrUnknownTestSet ErrCode = "UNKNOWN_TEST_SET"
	ErrNoQuestions    ErrCode = "NO_QUESTIONS"

	// ─── Session ───────────────────────────────────────────────────────
	ErrNoActiveSession  ErrCode = "NO_ACTIVE_SESSION"
	ErrSessionSubmitted ErrCode = "SESSION_SUBMITTED"
	ErrInvalidOption    ErrCode = "INVALID_OPTION"
	ErrInvalidIndex     ErrCode = "INVALID_INDEX"

	// ─── Snapshots ─────────────────────────────────────────────────────
	ErrSnapshotMissing ErrCode = "SNAPSHOT_MISSING"
	ErrSnapshotCorrupt ErrCode = "SNAPSHOT_CORRUPT"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Test building ─────────────────────────────────────────────────
	case ErrUnknownSubject:
		return "No questions are available for this subject."
	case ErrUnknownTestSet:
		return "This test set does not exist."
	case ErrNoQuestions:
		return "This test has no questions."

	// ─── Session ───────────────────────────────────────────────────────
	case ErrNoActiveSession:
		return "No test is in progress. Start a new test from the home screen."
	case ErrSessionSubmitted:
		return "This test has already been submitted."
	case ErrInvalidOption:
		return "The selected option is not valid for this question."
	case ErrInvalidIndex:
		return "The question number is outside this test."

	// ─── Snapshots ─────────────────────────────────────────────────────
	case ErrSnapshotMissing:
		return "No saved test was found. Returning to the home screen."
	case ErrSnapshotCorrupt:
		return "The saved test could not be read. Returning to the home screen."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
