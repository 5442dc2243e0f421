package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only message the countdown stream accepts from
// the client.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventTick      Event = "tick"
	EventSubmitted Event = "submitted"
	EventPong      Event = "pong"
)

// TickResponse carries the remaining whole seconds, recomputed from the
// session deadline each second.
type TickResponse struct {
	Event            Event `json:"event"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

// SubmittedResponse announces that the session ended; Forced is true when
// the timer expired rather than the user submitting.
type SubmittedResponse struct {
	Event  Event `json:"event"`
	Forced bool  `json:"forced"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
